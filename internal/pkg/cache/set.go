package cache

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
)

var ErrNotFound = errors.New("cache: key not found")

const entrySuffix = ".meta"

// NewSet returns a Set keeping its entries under dir. Keys are slash separated paths
// relative to dir.
func NewSet(dir string) *Set {
	return &Set{
		dir: dir,
	}
}

// Set is a small on-disk key-value store of msgpack encoded values.
type Set struct {
	// m serializes writers of the same process
	m sync.Mutex

	dir string
}

func (c *Set) path(key string) string {
	return filepath.Join(c.dir, filepath.FromSlash(key)+entrySuffix)
}

func (c *Set) Get(key string, dest interface{}) error {
	path := c.path(key)
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		log.Error().Err(err).Str("key", key).Msg("failed to read cache entry")
		return err
	}
	if err := msgpack.Unmarshal(b, dest); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to unmarshal cache entry with msgpack")
		return err
	}
	return nil
}

// Set writes value under key. The entry is replaced atomically.
func (c *Set) Set(key string, value interface{}) error {
	if l := log.Trace(); l.Enabled() {
		l.Str("key", key).Msg("setting cache entry")
	}
	b, err := msgpack.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to marshal value with msgpack")
		return err
	}

	c.m.Lock()
	defer c.m.Unlock()

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create cache directory")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary cache entry")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write cache entry")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close cache entry")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "failed to move cache entry into place")
	}
	return nil
}

func (c *Set) Delete(key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		log.Error().Err(err).Str("key", key).Msg("failed to delete cache entry")
		return err
	}
	return nil
}
