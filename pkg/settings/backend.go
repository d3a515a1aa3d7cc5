package settings

import (
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("setting not found")

// Backend is a string key value store. Get returns ErrNotFound for a missing key.
type Backend interface {
	Get(key string) (string, error)
	Set(key string, value string) error
}

// Scoped prefixes every key, so one backend can hold many sessions or clients
func Scoped(backend Backend, prefix string) Backend {
	return scoped{backend: backend, prefix: prefix}
}

type scoped struct {
	backend Backend
	prefix  string
}

func (s scoped) Get(key string) (string, error) {
	return s.backend.Get(s.prefix + "|" + key)
}

func (s scoped) Set(key string, value string) error {
	return s.backend.Set(s.prefix+"|"+key, value)
}
