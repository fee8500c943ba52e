// Package hstore implements a hierarchical node store on top of pebble.
//
// Nodes are addressed by slash-separated paths rooted at "". A node is
// either a group (it has children) or a dataset (it holds a typed element
// sequence); both can carry named attributes. Intermediate groups are
// created automatically.
package hstore

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/pebble"
)

// Key space layout (single byte prefix, 0x00 separates path from name):
//
//	'g' <path>              group marker
//	'c' <parent> 0x00 <name> child registry entry
//	'a' <path> 0x00 <name>  attribute value
//	'd' <path>              dataset payload
const (
	prefixGroup = 'g'
	prefixChild = 'c'
	prefixAttr  = 'a'
	prefixData  = 'd'

	keySep = 0x00
)

// Store is a hierarchical store backed by a pebble database.
type Store struct {
	db   *pebble.DB
	path string
}

// Open opens (or creates) a store at the given filesystem path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the filesystem path the store was opened at.
func (s *Store) Path() string {
	return s.path
}

// Join joins path segments into a normalized node path.
func Join(parts ...string) string {
	return normalize(strings.Join(parts, "/"))
}

func normalize(path string) string {
	return strings.Trim(path, "/")
}

func splitParent(path string) (parent, name string) {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

func groupKey(path string) []byte {
	k := make([]byte, 0, 1+len(path))
	k = append(k, prefixGroup)
	return append(k, path...)
}

func childKey(parent, name string) []byte {
	k := make([]byte, 0, 2+len(parent)+len(name))
	k = append(k, prefixChild)
	k = append(k, parent...)
	k = append(k, keySep)
	return append(k, name...)
}

func attrKey(path, name string) []byte {
	k := make([]byte, 0, 2+len(path)+len(name))
	k = append(k, prefixAttr)
	k = append(k, path...)
	k = append(k, keySep)
	return append(k, name...)
}

func dataKey(path string) []byte {
	k := make([]byte, 0, 1+len(path))
	k = append(k, prefixData)
	return append(k, path...)
}

// EnsureGroup creates the group at path, creating intermediate groups as
// needed. The root ("") always exists.
func (s *Store) EnsureGroup(path string) error {
	path = normalize(path)
	if path == "" {
		return nil
	}
	parent, name := splitParent(path)
	if err := s.EnsureGroup(parent); err != nil {
		return err
	}
	if err := s.db.Set(childKey(parent, name), nil, pebble.NoSync); err != nil {
		return fmt.Errorf("failed to register child %q: %w", path, err)
	}
	if err := s.db.Set(groupKey(path), nil, pebble.NoSync); err != nil {
		return fmt.Errorf("failed to create group %q: %w", path, err)
	}
	return nil
}

// registerNode links a non-group node (a dataset) into its parent group.
func (s *Store) registerNode(path string) error {
	path = normalize(path)
	if path == "" {
		return nil
	}
	parent, name := splitParent(path)
	if err := s.EnsureGroup(parent); err != nil {
		return err
	}
	if err := s.db.Set(childKey(parent, name), nil, pebble.NoSync); err != nil {
		return fmt.Errorf("failed to register node %q: %w", path, err)
	}
	return nil
}

// Exists reports whether a node (group or dataset) exists at path.
func (s *Store) Exists(path string) (bool, error) {
	path = normalize(path)
	if path == "" {
		return true, nil
	}
	for _, key := range [][]byte{groupKey(path), dataKey(path)} {
		_, closer, err := s.db.Get(key)
		if err == nil {
			closer.Close()
			return true, nil
		}
		if err != pebble.ErrNotFound {
			return false, fmt.Errorf("failed to probe node %q: %w", path, err)
		}
	}
	return false, nil
}

// Children enumerates the immediate children of a group in lexicographic
// order. A missing group yields an empty list.
func (s *Store) Children(path string) ([]string, error) {
	path = normalize(path)
	lower := childKey(path, "")
	upper := make([]byte, len(lower))
	copy(upper, lower)
	upper[len(upper)-1] = keySep + 1

	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: lower,
		UpperBound: upper,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate children of %q: %w", path, err)
	}
	defer iter.Close()

	var names []string
	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		names = append(names, string(key[len(lower):]))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to enumerate children of %q: %w", path, err)
	}
	return names, nil
}

// SetAttr stores a named attribute on the node at path. The root ("") can
// carry attributes as well.
func (s *Store) SetAttr(path, name string, value []byte) error {
	path = normalize(path)
	if err := s.db.Set(attrKey(path, name), value, pebble.NoSync); err != nil {
		return fmt.Errorf("failed to set attribute %s on %q: %w", name, path, err)
	}
	return nil
}

// Attr reads a named attribute from the node at path.
func (s *Store) Attr(path, name string) ([]byte, error) {
	path = normalize(path)
	value, closer, err := s.db.Get(attrKey(path, name))
	if err == pebble.ErrNotFound {
		return nil, ErrAttrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read attribute %s on %q: %w", name, path, err)
	}
	defer closer.Close()

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// HasAttr reports whether the node at path carries the named attribute.
func (s *Store) HasAttr(path, name string) (bool, error) {
	_, err := s.Attr(path, name)
	if err == ErrAttrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
