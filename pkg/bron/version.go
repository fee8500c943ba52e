package bron

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gwdata/bron2/pkg/hstore"
)

// attrVersion is the container root attribute holding the format version.
const attrVersion = "BRON_VERSION"

// Version is the two-part container format version. Only the major part
// gates compatibility; the minor part is informational.
type Version struct {
	Major uint32
	Minor uint32
}

// CurrentVersion is the container version this package writes.
var CurrentVersion = Version{Major: 2, Minor: 0}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ReadVersion reads the BRON_VERSION marker from the container root.
func ReadVersion(store *hstore.Store) (Version, error) {
	raw, err := store.Attr("", attrVersion)
	if err == hstore.ErrAttrNotFound {
		return Version{}, fmt.Errorf("attribute %s: %w (very old bron file?)", attrVersion, ErrMissingNode)
	}
	if err != nil {
		return Version{}, err
	}
	// A marker of the wrong shape is corruption, not absence; encode must
	// abort on it rather than stamp over it.
	if len(raw) != 8 {
		return Version{}, fmt.Errorf("attribute %s has %d bytes: %w", attrVersion, len(raw), ErrVersionMismatch)
	}
	return Version{
		Major: binary.LittleEndian.Uint32(raw[0:4]),
		Minor: binary.LittleEndian.Uint32(raw[4:8]),
	}, nil
}

// checkVersion gates a decode: the root marker must exist and carry the
// supported major version. It runs before any node under the requested
// path is read.
func checkVersion(store *hstore.Store) error {
	v, err := ReadVersion(store)
	if err != nil {
		return err
	}
	if v.Major != CurrentVersion.Major {
		return fmt.Errorf("container has version %s, only %s is supported: %w",
			v, CurrentVersion, ErrVersionMismatch)
	}
	return nil
}

// stampVersion gates an encode: an existing marker must carry the
// supported major version; a fresh container gets the current marker.
func stampVersion(store *hstore.Store) error {
	v, err := ReadVersion(store)
	if err == nil {
		if v.Major != CurrentVersion.Major {
			return fmt.Errorf("container has version %s, only %s is supported: %w",
				v, CurrentVersion, ErrVersionMismatch)
		}
		return nil
	}
	if !errors.Is(err, ErrMissingNode) {
		return err
	}
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint32(raw[0:4], CurrentVersion.Major)
	binary.LittleEndian.PutUint32(raw[4:8], CurrentVersion.Minor)
	return store.SetAttr("", attrVersion, raw)
}
