package fs

import (
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileStater = (*StatCache)(nil)

// DefaultStatCacheSize bounds the number of remembered stat results.
const DefaultStatCacheSize = 8192

type statEntry struct {
	modTime time.Time
	isDir   bool
}

// StatCache answers modification time queries from a bounded LRU in front of os.Stat.
// Only successful stats are cached, so a file that appears later is seen on the next query.
type StatCache struct {
	entries *lru.Cache[string, statEntry]
}

// NewStatCache creates a StatCache holding at most size entries.
func NewStatCache(size int) (*StatCache, error) {
	entries, err := lru.New[string, statEntry](size)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create stat cache")
	}
	return &StatCache{entries: entries}, nil
}

// ModTime returns the modification time of path.
func (c *StatCache) ModTime(path string) (time.Time, error) {
	entry, err := c.stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return entry.modTime, nil
}

// IsDir reports whether path is a directory.
func (c *StatCache) IsDir(path string) (bool, error) {
	entry, err := c.stat(path)
	if err != nil {
		return false, err
	}
	return entry.isDir, nil
}

// Invalidate forgets the cached results for paths. A nil slice forgets everything.
func (c *StatCache) Invalidate(paths []string) {
	if paths == nil {
		c.entries.Purge()
		return
	}
	for _, path := range paths {
		c.entries.Remove(path)
	}
}

func (c *StatCache) stat(path string) (statEntry, error) {
	if entry, ok := c.entries.Get(path); ok {
		return entry, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return statEntry{}, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
	}

	entry := statEntry{modTime: info.ModTime(), isDir: info.IsDir()}
	c.entries.Add(path, entry)
	return entry, nil
}
