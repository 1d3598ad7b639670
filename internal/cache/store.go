package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
    "time"

	"github.com/klauspost/compress/zstd"
)

const (
	plainExt = ".json"
	zstdExt  = ".json.zst"
)

// Store keeps analysis results and rewrite responses keyed by a digest of
// their inputs. Entries are immutable; a key either hits or misses.
type Store struct {
    Dir         string
    // StrictPerms, when true, enforces 0700 on cache directories and 0600 on
    // files.
    StrictPerms bool
    // Compress writes entries zstd-compressed. Reads accept both forms.
    Compress bool
}

var (
	encoder = sync.OnceValues(func() (*zstd.Encoder, error) { return zstd.NewWriter(nil) })
	decoder = sync.OnceValues(func() (*zstd.Decoder, error) { return zstd.NewReader(nil) })
)

func (c *Store) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
    perm := os.FileMode(0o755)
    if c.StrictPerms {
        perm = 0o700
    }
    if err := os.MkdirAll(c.Dir, perm); err != nil {
        return err
    }
    // If directory already existed and StrictPerms is on, tighten perms
    if c.StrictPerms {
        if info, err := os.Stat(c.Dir); err == nil {
            if info.Mode()&0o777 != 0o700 {
                _ = os.Chmod(c.Dir, 0o700)
            }
        }
    }
    return nil
}

// KeyFrom builds a cache key from a scope (model name, scorer version) and
// the payload it applies to.
func KeyFrom(scope string, payload string) string {
	h := sha256.Sum256([]byte(scope + "\n\n" + payload))
	return hex.EncodeToString(h[:])
}

// Get returns cached bytes if present. A missing entry is not an error.
func (c *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := c.ensureDir(); err != nil {
		return nil, false, err
	}
	if b, err := os.ReadFile(filepath.Join(c.Dir, key+zstdExt)); err == nil {
		dec, derr := decoder()
		if derr != nil {
			return nil, false, derr
		}
		out, derr := dec.DecodeAll(b, nil)
		if derr != nil {
			return nil, false, fmt.Errorf("decode %s: %w", key, derr)
		}
		touch(filepath.Join(c.Dir, key+zstdExt))
		return out, true, nil
	}
	p := filepath.Join(c.Dir, key+plainExt)
    b, err := os.ReadFile(p)
    if err != nil {
        return nil, false, nil
    }
    touch(p)
	return b, true, nil
}

// Save writes bytes to cache. The entry is written to a temp file and
// renamed into place, so concurrent readers never see a partial entry.
func (c *Store) Save(_ context.Context, key string, data []byte) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
    mode := os.FileMode(0o644)
    if c.StrictPerms {
        mode = 0o600
    }
	name := key + plainExt
	if c.Compress {
		enc, err := encoder()
		if err != nil {
			return err
		}
		name = key + zstdExt
		data = enc.EncodeAll(data, nil)
	}
	return writeAtomic(filepath.Join(c.Dir, name), data, mode)
}

func writeAtomic(path string, data []byte, mode os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write entry: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, mode); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// touch bumps mtime on access so EnforceLimits evicts least recently used.
func touch(p string) {
    now := time.Now()
    _ = os.Chtimes(p, now, now)
}
