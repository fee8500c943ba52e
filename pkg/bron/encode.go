package bron

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gwdata/bron2/pkg/hstore"
)

const (
	// commentColumn names the column that is never written: its data is
	// known to be unreliable in the source registry.
	commentColumn = "Comment"

	// emptyTableSentinel is the single VariableNames entry standing for a
	// genuinely zero-column table. Some stores cannot distinguish a
	// zero-element name list from a missing node, so the sentinel is
	// written instead.
	emptyTableSentinel = "Var1"

	nodeVariableNames        = "VariableNames"
	nodeVariableDescriptions = "VariableDescriptions"
	nodeVariableUnits        = "VariableUnits"
)

// Write serializes the record sequence under root, one child group per
// record named by its 1-based decimal index, and stamps the version
// marker at the container root. An empty sequence is a no-op: nothing is
// created and no marker is written. A nil record encodes as three empty
// tables, the same way a nil table encodes as an empty one.
//
// Write targets fresh record groups. Re-encoding over an existing group
// is not supported: a previous, larger encoding can leave stale nodes
// (e.g. trailing Element<i> children) that a later decode would pick up.
func Write(store *hstore.Store, root string, gmws []*GMW) error {
	if len(gmws) == 0 {
		return nil
	}
	for i, gmw := range gmws {
		if gmw == nil {
			gmw = &GMW{}
		}
		base := hstore.Join(root, strconv.Itoa(i+1))
		for _, name := range gmwFields {
			if err := encodeTable(store, hstore.Join(base, name), gmw.field(name)); err != nil {
				return err
			}
		}
	}
	return stampVersion(store)
}

// encodeTable writes one table node at path: every surviving column in
// order, then the table metadata. Writing the metadata also creates the
// path node itself, which matters for empty tables.
func encodeTable(store *hstore.Store, path string, table *Table) error {
	if table == nil {
		table = &Table{}
	}
	if err := table.validate(); err != nil {
		return fmt.Errorf("table %q: %w", path, err)
	}
	for _, col := range table.Columns {
		if col.Name == commentColumn {
			continue
		}
		if err := encodeColumn(store, path, col); err != nil {
			return err
		}
	}
	return writeTableMetadata(store, path, table)
}

func encodeColumn(store *hstore.Store, path string, col Column) error {
	cp := hstore.Join(path, col.Name)
	switch data := col.Data.(type) {
	case TableData:
		if err := store.EnsureGroup(cp); err != nil {
			return err
		}
		for i, cell := range data {
			element := fmt.Sprintf("%s/Element%d", cp, i+1)
			if err := encodeTable(store, element, cell); err != nil {
				return err
			}
		}
	case TextData:
		if err := store.WriteText(cp, data); err != nil {
			return err
		}
	case Float64Data:
		values := make([]uint64, len(data))
		for i, v := range data {
			values[i] = math.Float64bits(v)
		}
		if err := writeNumericColumn(store, cp, TypeFloat64, values); err != nil {
			return err
		}
	case Uint8Data:
		values := make([]uint64, len(data))
		for i, v := range data {
			values[i] = uint64(v)
		}
		if err := writeNumericColumn(store, cp, TypeUint8, values); err != nil {
			return err
		}
	case Uint16Data:
		values := make([]uint64, len(data))
		for i, v := range data {
			values[i] = uint64(v)
		}
		if err := writeNumericColumn(store, cp, TypeUint16, values); err != nil {
			return err
		}
	case Uint32Data:
		values := make([]uint64, len(data))
		for i, v := range data {
			values[i] = uint64(v)
		}
		if err := writeNumericColumn(store, cp, TypeUint32, values); err != nil {
			return err
		}
	case Uint64Data:
		if err := writeNumericColumn(store, cp, TypeUint64, []uint64(data)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("column %q: %w", cp, ErrUnsupportedColumnType)
	}
	return store.SetAttr(cp, attrValueType, []byte(col.Data.ValueType().String()))
}

func writeNumericColumn(store *hstore.Store, path string, vt ValueType, values []uint64) error {
	return store.WriteNumeric(path, vt.kind(), values, hstore.DatasetOptions{
		Fill:  vt.FillValue(),
		Chunk: hstore.DefaultChunk,
	})
}

// writeTableMetadata writes the post-exclusion column names, tags the
// table node, and writes the description and unit arrays. Absent metadata
// is materialized as a zero-length placeholder so readers can tell "no
// metadata supplied" apart from a store error.
func writeTableMetadata(store *hstore.Store, path string, table *Table) error {
	var names, descriptions, units []string
	for i, col := range table.Columns {
		if col.Name == commentColumn {
			continue
		}
		names = append(names, col.Name)
		if len(table.Descriptions) > 0 {
			descriptions = append(descriptions, table.Descriptions[i])
		}
		if len(table.Units) > 0 {
			units = append(units, table.Units[i])
		}
	}
	if len(names) == 0 {
		names = []string{emptyTableSentinel}
	}

	if err := writeTextNode(store, hstore.Join(path, nodeVariableNames), names); err != nil {
		return err
	}
	if err := store.SetAttr(path, attrValueType, []byte(TypeTable.String())); err != nil {
		return err
	}
	if err := writeTextNode(store, hstore.Join(path, nodeVariableDescriptions), descriptions); err != nil {
		return err
	}
	return writeTextNode(store, hstore.Join(path, nodeVariableUnits), units)
}

func writeTextNode(store *hstore.Store, path string, values []string) error {
	if err := store.WriteText(path, values); err != nil {
		return err
	}
	return store.SetAttr(path, attrValueType, []byte(TypeText.String()))
}
