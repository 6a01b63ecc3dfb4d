package engine

import (
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/ignite-kv/barrelcask/internal/index"
	"github.com/ignite-kv/barrelcask/internal/segment"
	"github.com/ignite-kv/barrelcask/pkg/options"
)

// Config bundles the dependencies an Engine needs at construction
// time: its configuration and where to send its logs.
type Config struct {
	Options options.Options
	Logger  *zap.SugaredLogger
}

// Engine is barrelcask's storage core: a segmented append-only log on
// disk plus an in-memory index of each key's most recent location.
//
// Put, Delete and Update take the engine's lock exclusively because
// they may rotate the active segment and always mutate the index.
// Read takes the lock only long enough to resolve a key to a segment
// and location, then performs its positional read unlocked: the OS
// guarantees a read below a file's current length is unaffected by a
// concurrent append past it, so Read never blocks a writer and vice
// versa beyond that brief lookup.
type Engine struct {
	opts options.Options
	log  *zap.SugaredLogger

	mu       sync.RWMutex
	idx      index.Index
	segments map[uint32]*segment.Segment
	active   *segment.Segment

	dirLock *flock.Flock
	closed  atomic.Bool
}
