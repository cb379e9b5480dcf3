// Package storage reads and writes Atom feed documents on disk. Each
// operation is one full read-decode or encode-write cycle; there is no
// caching or partial update, and no locking beyond what the filesystem
// gives us.
package storage

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"feedkeep/internal/atom"
)

// ErrNotExist marks a feed document that is not on disk. Metadata mutation
// may create one; every other operation treats this as fatal.
var ErrNotExist = errors.New("feed document does not exist")

// Load reads and decodes the document at path.
func Load(path string) (*atom.Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	feed, err := atom.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return feed, nil
}

// Save encodes the document and writes it next to the target under a
// temporary name, then renames it into place, so a failed write never
// clobbers the existing document.
func Save(path string, feed *atom.Feed) error {
	data, err := atom.Encode(feed)
	if err != nil {
		return err
	}
	tmp := path + ".feedkeep"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// DefaultRejectPath derives the reject document's path from the feed path:
// feed.xml becomes feed.rej.xml.
func DefaultRejectPath(path string) string {
	if strings.HasSuffix(path, ".xml") {
		return strings.TrimSuffix(path, ".xml") + ".rej.xml"
	}
	return path + ".rej.xml"
}
