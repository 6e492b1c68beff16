package resolve

import (
	"errors"
	"net/url"
	"path"
	"path/filepath"

	"github.com/oklabflensburg/open-parcel-map/internal/catalog"
)

// ErrUnresolvable means no file name could be derived for an item. The
// item cannot be placed on disk deterministically and is excluded from
// fetching.
var ErrUnresolvable = errors.New("resolve: no usable file name")

// Target is the derived destination of a catalog item.
type Target struct {
	// FileName is the destination file name.
	FileName string

	// Dir is the directory relative to the output root. Empty means the
	// output root itself.
	Dir string
}

// Key returns the slash-separated storage key relative to the output root.
func (t Target) Key() string {
	if t.Dir == "" {
		return t.FileName
	}
	return path.Join(t.Dir, t.FileName)
}

// AbsolutePath returns the on-disk path of the target under root.
func (t Target) AbsolutePath(root string) string {
	return filepath.Join(root, filepath.FromSlash(t.Key()))
}

// Resolve derives the destination target for an item.
//
// The file name is the first non-empty of: the "file" query parameter of
// the source URL, flur, gemarkung, schlgmd. If none applies, Resolve
// returns ErrUnresolvable. The directory is the item's quartal when
// present.
func Resolve(item catalog.Item) (Target, error) {
	name := fileNameFromURL(item.SourceURL)
	if name == "" {
		name = item.Flur
	}
	if name == "" {
		name = item.Gemarkung
	}
	if name == "" {
		name = item.Schlgmd
	}
	if name == "" {
		return Target{}, ErrUnresolvable
	}

	return Target{
		FileName: name,
		Dir:      item.Quartal,
	}, nil
}

// fileNameFromURL extracts the "file" query parameter from the source
// URL, if any.
func fileNameFromURL(source string) string {
	if source == "" {
		return ""
	}
	u, err := url.Parse(source)
	if err != nil {
		return ""
	}
	return u.Query().Get("file")
}
