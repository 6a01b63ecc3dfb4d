// Package barrelcask is an embeddable, Bitcask-model key/value store:
// an append-only segmented log on disk backed by an in-memory index of
// each key's most recent location.
package barrelcask

import (
	"context"

	"go.uber.org/zap"

	"github.com/ignite-kv/barrelcask/internal/engine"
	"github.com/ignite-kv/barrelcask/pkg/logz"
	"github.com/ignite-kv/barrelcask/pkg/options"
)

// DB is a handle to an open store. A DB must not be used after Close.
type DB struct {
	engine *engine.Engine
}

// Open prepares the data directory at opts.DirPath for use, replaying
// any existing segments to rebuild the in-memory index before
// returning. ctx is accepted but not used: Open itself does not block
// on anything cancelable.
//
// log is ambient: a nil logger does not mean "no logging", it means
// "use the package default". Callers that truly want logging
// suppressed (tests, mostly) should pass logz.Noop() explicitly.
func Open(ctx context.Context, opts *options.Options, log *zap.SugaredLogger) (*DB, error) {
	var o options.Options
	if opts != nil {
		o = *opts
	} else {
		o = options.NewDefaultOptions()
	}

	if log == nil {
		built, err := logz.New(false)
		if err != nil {
			built = logz.Noop()
		}
		log = built
	}

	e, err := engine.Open(engine.Config{Options: o, Logger: log})
	if err != nil {
		return nil, err
	}
	return &DB{engine: e}, nil
}

// Put stores value under key, replacing any value previously stored
// under the same key.
func (db *DB) Put(key string, value []byte) error {
	return db.engine.Put(key, value)
}

// Read returns the value currently stored under key.
func (db *DB) Read(key string) ([]byte, error) {
	return db.engine.Read(key)
}

// Delete removes key and returns the value it held immediately before
// removal.
func (db *DB) Delete(key string) ([]byte, error) {
	return db.engine.Delete(key)
}

// Update replaces key's value with newValue and returns the value it
// held immediately before the update.
func (db *DB) Update(key string, newValue []byte) ([]byte, error) {
	return db.engine.Update(key, newValue)
}

// Close flushes and closes every open segment and releases the data
// directory lock. Close is idempotent.
func (db *DB) Close() error {
	return db.engine.Close()
}
