package cache

import (
	"cmp"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// otherDir holds entries whose keys [ParseKey] does not recognize.
const otherDir = "_other"

// plateFile is the file name of a plate's canonical export.
const plateFile = "plate.json"

// FileCache stores entries as JSON files, one directory per plate:
//
//	<dir>/<hash[:2]>/<hash>/plate.json
//	<dir>/<hash[:2]>/<hash>/<format>-<options digest>.json
//
// so a plate's export sits next to every artifact rendered from it.
type FileCache struct {
	dir string
}

// NewFileCache creates dir if needed and returns a cache rooted there.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// fileEntry is the on-disk form. Key guards against two keys that map to
// one file, such as a scoped and an unscoped key for the same artifact.
type fileEntry struct {
	Key       string    `json:"key"`
	Format    string    `json:"format,omitempty"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Get returns the entry for key. Corrupt and expired files are removed
// and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	entry, err := readEntry(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if entry == nil || entry.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if entry.Key != key {
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set writes the entry for key. A zero ttl never expires.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Key: key, Data: data, CreatedAt: time.Now().UTC()}
	if k, ok := ParseKey(key); ok {
		entry.Format = k.Format
	}
	if ttl > 0 {
		entry.ExpiresAt = entry.CreatedAt.Add(ttl)
	}

	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Delete removes the entry for key. A missing entry is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// DeletePlate removes a plate's export and all of its artifacts and
// returns how many entries were removed.
func (c *FileCache) DeletePlate(ctx context.Context, plateHash string) (int, error) {
	if !ValidPlateHash(plateHash) {
		return 0, nil
	}
	dir := c.PlateDir(plateHash)
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if err := os.RemoveAll(dir); err != nil {
		return 0, err
	}
	return len(files), nil
}

// Clear removes every entry. The directory itself is kept.
func (c *FileCache) Clear(ctx context.Context) error {
	entries, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// PlateEntry describes one cached file of a plate.
type PlateEntry struct {
	Plate     string
	Kind      string // KindPlate or KindArtifact
	Format    string
	Size      int
	CreatedAt time.Time
	ExpiresAt time.Time
	Path      string
}

// Entries lists the live entries of every cached plate, ordered by plate
// hash with the plate export first and artifacts by format. Expired and
// unreadable files are skipped.
func (c *FileCache) Entries(ctx context.Context) ([]PlateEntry, error) {
	shards, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var out []PlateEntry
	for _, shard := range shards {
		if !shard.IsDir() || shard.Name() == otherDir {
			continue
		}
		plates, err := os.ReadDir(filepath.Join(c.dir, shard.Name()))
		if err != nil {
			return nil, err
		}
		for _, p := range plates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !p.IsDir() || !ValidPlateHash(p.Name()) {
				continue
			}
			found, err := c.plateEntries(p.Name(), now)
			if err != nil {
				return nil, err
			}
			out = append(out, found...)
		}
	}

	slices.SortFunc(out, func(a, b PlateEntry) int {
		return cmp.Or(
			strings.Compare(a.Plate, b.Plate),
			cmp.Compare(kindRank(a.Kind), kindRank(b.Kind)),
			strings.Compare(a.Format, b.Format),
			strings.Compare(a.Path, b.Path),
		)
	})
	return out, nil
}

func (c *FileCache) plateEntries(plateHash string, now time.Time) ([]PlateEntry, error) {
	dir := c.PlateDir(plateHash)
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []PlateEntry
	for _, f := range files {
		path := filepath.Join(dir, f.Name())
		entry, err := readEntry(path)
		if err != nil || entry == nil || entry.expired(now) {
			continue
		}
		kind := KindArtifact
		if f.Name() == plateFile {
			kind = KindPlate
		}
		out = append(out, PlateEntry{
			Plate:     plateHash,
			Kind:      kind,
			Format:    entry.Format,
			Size:      len(entry.Data),
			CreatedAt: entry.CreatedAt,
			ExpiresAt: entry.ExpiresAt,
			Path:      path,
		})
	}
	return out, nil
}

func kindRank(kind string) int {
	if kind == KindPlate {
		return 0
	}
	return 1
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string {
	return c.dir
}

// PlateDir returns the directory holding a plate's entries.
func (c *FileCache) PlateDir(plateHash string) string {
	return PlateDir(c.dir, plateHash)
}

// PlateDir returns where a [FileCache] rooted at root keeps a plate's
// entries. plateHash must satisfy [ValidPlateHash].
func PlateDir(root, plateHash string) string {
	return filepath.Join(root, plateHash[:2], plateHash)
}

// Close does nothing for file cache.
func (c *FileCache) Close() error {
	return nil
}

// path maps a key to its file. Keys from [DefaultKeyer] land in their
// plate's directory; anything else is hashed into otherDir.
func (c *FileCache) path(key string) string {
	k, ok := ParseKey(key)
	if !ok {
		return filepath.Join(c.dir, otherDir, Hash([]byte(key))+".json")
	}
	if k.Kind == KindPlate {
		return filepath.Join(c.PlateDir(k.Plate), plateFile)
	}
	return filepath.Join(c.PlateDir(k.Plate), k.Format+"-"+k.Digest+".json")
}

// readEntry decodes the file at path. A corrupt file yields a nil entry
// and no error.
func readEntry(path string) (*fileEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, nil
	}
	return &entry, nil
}

var (
	_ Cache        = (*FileCache)(nil)
	_ Clearer      = (*FileCache)(nil)
	_ PlateDeleter = (*FileCache)(nil)
)
