package cache

import (
    "errors"
    "io/fs"
    "os"
    "path/filepath"
    "sort"
    "strings"
    "time"
)

// ClearDir removes the directory and all contents. It recreates the directory
// afterwards to leave a valid empty cache location.
func ClearDir(dir string) error {
    if strings.TrimSpace(dir) == "" {
        return errors.New("empty dir")
    }
    if err := os.RemoveAll(dir); err != nil {
        return err
    }
    return os.MkdirAll(dir, 0o755)
}

type entry struct {
    path string
    size int64
    mod  time.Time
}

func listEntries(dir string) ([]entry, error) {
    var out []entry
    err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
        if err != nil {
            if errors.Is(err, fs.ErrNotExist) {
                return nil
            }
            return err
        }
        if d.IsDir() {
            return nil
        }
        name := d.Name()
        if !strings.HasSuffix(name, plainExt) && !strings.HasSuffix(name, zstdExt) {
            return nil
        }
        info, err := d.Info()
        if err != nil {
            return nil // skip unreadable
        }
        out = append(out, entry{path: path, size: info.Size(), mod: info.ModTime()})
        return nil
    })
    return out, err
}

// PurgeByAge removes entries whose modification time is older than maxAge.
func PurgeByAge(dir string, maxAge time.Duration) (int, error) {
    if maxAge <= 0 {
        return 0, nil
    }
    entries, err := listEntries(dir)
    if err != nil {
        return 0, err
    }
    now := time.Now()
    removed := 0
    for _, e := range entries {
        if now.Sub(e.mod) <= maxAge {
            continue
        }
        if os.Remove(e.path) == nil {
            removed++
        }
    }
    return removed, nil
}

// EnforceLimits evicts least recently used entries until the cache holds at
// most maxCount entries and maxBytes bytes. Zero disables a limit.
func EnforceLimits(dir string, maxBytes int64, maxCount int) (int, error) {
    if maxBytes <= 0 && maxCount <= 0 {
        return 0, nil
    }
    entries, err := listEntries(dir)
    if err != nil {
        return 0, err
    }
    // newest first; evict from the tail
    sort.Slice(entries, func(i, j int) bool { return entries[i].mod.After(entries[j].mod) })
    var total int64
    for _, e := range entries {
        total += e.size
    }
    removed := 0
    for len(entries) > 0 {
        overCount := maxCount > 0 && len(entries) > maxCount
        overBytes := maxBytes > 0 && total > maxBytes
        if !overCount && !overBytes {
            break
        }
        last := entries[len(entries)-1]
        entries = entries[:len(entries)-1]
        if err := os.Remove(last.path); err != nil {
            continue
        }
        total -= last.size
        removed++
    }
    return removed, nil
}
