package settings

import (
	"context"
	"time"

	"github.com/gamedb/gridview/pkg/mongo"
	"github.com/pkg/errors"
)

// MongoBackend stores each key as one document, for deployments with several webservers
type MongoBackend struct {
	Timeout time.Duration
}

func (m MongoBackend) context() (context.Context, context.CancelFunc) {

	timeout := m.Timeout
	if timeout == 0 {
		timeout = time.Second * 5
	}

	return context.WithTimeout(context.Background(), timeout)
}

func (m MongoBackend) Get(key string) (string, error) {

	ctx, cancel := m.context()
	defer cancel()

	setting, err := mongo.GetSetting(ctx, key)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	return setting.Value, nil
}

func (m MongoBackend) Set(key string, value string) error {

	ctx, cancel := m.context()
	defer cancel()

	return mongo.SaveSetting(ctx, key, value)
}
