package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Setting is one saved widget state blob
type Setting struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (s Setting) BSON() bson.D {

	return bson.D{
		{Key: "_id", Value: s.Key},
		{Key: "value", Value: s.Value},
		{Key: "updated_at", Value: s.UpdatedAt},
	}
}

func GetSetting(ctx context.Context, key string) (setting Setting, err error) {

	err = FindDocumentByKey(ctx, CollectionSettings, "_id", key, &setting)
	return setting, err
}

func SaveSetting(ctx context.Context, key string, value string) (err error) {

	setting := Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	_, err = ReplaceDocument(ctx, CollectionSettings, M{"_id": key}, setting)
	return err
}
