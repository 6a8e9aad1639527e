// Package cache keeps the method names of user supplied .proto files so
// shell completion does not reparse them on every keystroke.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/centreon/engine-rpc/internal/paths"
)

// DefaultTTL bounds how long a listing is trusted.
const DefaultTTL = 10 * time.Minute

type entry struct {
	Names   []string  `json:"names"`
	Created time.Time `json:"created"`
	Expires time.Time `json:"expires"`
}

// Key identifies a schema source. Editing the .proto file changes its key.
type Key struct {
	Proto       string
	Service     string
	ImportPaths []string
	ModTime     time.Time
	Size        int64
}

// KeyFor stats proto and returns its key.
func KeyFor(proto, service string, importPaths []string) (Key, error) {
	abs, err := filepath.Abs(proto)
	if err != nil {
		return Key{}, err
	}
	st, err := os.Stat(abs)
	if err != nil {
		return Key{}, err
	}
	return Key{
		Proto:       abs,
		Service:     service,
		ImportPaths: importPaths,
		ModTime:     st.ModTime(),
		Size:        st.Size(),
	}, nil
}

// GetNames returns the cached method names for k. Expired or unreadable
// entries are removed and reported as a miss.
func GetNames(k Key) ([]string, bool) {
	path := entryPath(k)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		_ = os.Remove(path)
		return nil, false
	}
	if time.Now().After(e.Expires) {
		_ = os.Remove(path)
		return nil, false
	}
	return e.Names, true
}

// PutNames stores names for k.
func PutNames(k Key, names []string, ttl time.Duration) error {
	now := time.Now()
	data, err := json.Marshal(entry{Names: names, Created: now, Expires: now.Add(ttl)})
	if err != nil {
		return err
	}
	return paths.WriteFile(entryPath(k), data, 0o600)
}

func entryPath(k Key) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%d\x00%d", k.Proto, k.Service, strings.Join(k.ImportPaths, "\x01"), k.ModTime.UnixNano(), k.Size)
	key := hex.EncodeToString(h.Sum(nil))[:32]
	return filepath.Join(cacheDir(), key+".json")
}

func cacheDir() string {
	return filepath.Join(paths.CacheDir(), "methods")
}
