package bron

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/gwdata/bron2/pkg/hstore"
)

// Read deserializes the record sequence stored under root. The version
// gate runs first; a container with an unsupported major version fails
// before any node under root is read. Record groups named by decimal
// indices are processed in numeric order, anything else in the store's
// enumeration order.
func Read(store *hstore.Store, root string) ([]*GMW, error) {
	if err := checkVersion(store); err != nil {
		return nil, err
	}

	keys, err := store.Children(root)
	if err != nil {
		return nil, err
	}
	sortRecordKeys(keys)

	gmws := make([]*GMW, 0, len(keys))
	for _, key := range keys {
		gmw, err := decodeRecord(store, hstore.Join(root, key))
		if err != nil {
			return nil, err
		}
		gmws = append(gmws, gmw)
	}
	return gmws, nil
}

func decodeRecord(store *hstore.Store, base string) (*GMW, error) {
	gmw := &GMW{}
	for _, name := range gmwFields {
		table, err := decodeTable(store, hstore.Join(base, name))
		if err != nil {
			return nil, err
		}
		switch name {
		case "History":
			gmw.History = table
		case "Tube":
			gmw.Tube = table
		case "Well":
			gmw.Well = table
		}
	}
	return gmw, nil
}

// ReadRecord deserializes a single record group by its key. The version
// gate still applies.
func ReadRecord(store *hstore.Store, root, key string) (*GMW, error) {
	if err := checkVersion(store); err != nil {
		return nil, err
	}
	base := hstore.Join(root, key)
	exists, err := store.Exists(base)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("record %q: %w", base, ErrMissingNode)
	}
	return decodeRecord(store, base)
}

// RecordKeys returns the record group names under root in decode order.
func RecordKeys(store *hstore.Store, root string) ([]string, error) {
	keys, err := store.Children(root)
	if err != nil {
		return nil, err
	}
	sortRecordKeys(keys)
	return keys, nil
}

// sortRecordKeys orders record group names numerically when every name is
// a decimal integer (the v2 layout uses 1-based indices), lexicographically
// otherwise.
func sortRecordKeys(keys []string) {
	numeric := make(map[string]int, len(keys))
	for _, k := range keys {
		n, err := strconv.Atoi(k)
		if err != nil {
			sort.Strings(keys)
			return
		}
		numeric[k] = n
	}
	sort.Slice(keys, func(i, j int) bool {
		return numeric[keys[i]] < numeric[keys[j]]
	})
}

// decodeTable reads one table node at path, recursing into table-valued
// columns. Fill-valued cells are preserved as-is; interpreting them is a
// downstream concern.
func decodeTable(store *hstore.Store, path string) (*Table, error) {
	names, err := store.ReadText(hstore.Join(path, nodeVariableNames))
	if err != nil {
		if errors.Is(err, hstore.ErrNodeNotFound) {
			return nil, fmt.Errorf("%s/%s: %w", path, nodeVariableNames, ErrMissingNode)
		}
		return nil, err
	}
	if len(names) == 0 || (len(names) == 1 && names[0] == emptyTableSentinel) {
		return &Table{}, nil
	}

	table := &Table{Columns: make([]Column, 0, len(names))}
	for _, name := range names {
		col, err := decodeColumn(store, hstore.Join(path, name))
		if err != nil {
			return nil, err
		}
		table.Columns = append(table.Columns, Column{Name: name, Data: col})
	}

	for _, meta := range []struct {
		node string
		dst  *[]string
	}{
		{nodeVariableDescriptions, &table.Descriptions},
		{nodeVariableUnits, &table.Units},
	} {
		values, err := store.ReadText(hstore.Join(path, meta.node))
		if err != nil {
			if errors.Is(err, hstore.ErrNodeNotFound) {
				return nil, fmt.Errorf("%s/%s: %w", path, meta.node, ErrMissingNode)
			}
			return nil, err
		}
		if len(values) > 0 {
			*meta.dst = values
		}
	}
	return table, nil
}

func decodeColumn(store *hstore.Store, path string) (ColumnData, error) {
	raw, err := store.Attr(path, attrValueType)
	if err != nil {
		if errors.Is(err, hstore.ErrAttrNotFound) {
			return nil, fmt.Errorf("column %q: %w", path, ErrMissingNode)
		}
		return nil, err
	}
	vt, err := ParseValueType(string(raw))
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", path, err)
	}

	if vt == TypeTable {
		return decodeTableColumn(store, path)
	}
	return decodeScalarColumn(store, path, vt)
}

// decodeTableColumn assembles a nested-table column from its contiguous
// 1-based Element<i> children.
func decodeTableColumn(store *hstore.Store, path string) (ColumnData, error) {
	children, err := store.Children(path)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(children))
	for _, c := range children {
		present[c] = true
	}

	var data TableData
	for row := 1; present[fmt.Sprintf("Element%d", row)]; row++ {
		table, err := decodeTable(store, fmt.Sprintf("%s/Element%d", path, row))
		if err != nil {
			return nil, err
		}
		data = append(data, table)
	}
	return data, nil
}

func decodeScalarColumn(store *hstore.Store, path string, vt ValueType) (ColumnData, error) {
	if vt == TypeText {
		values, err := store.ReadText(path)
		if err != nil {
			if errors.Is(err, hstore.ErrNodeNotFound) {
				return nil, fmt.Errorf("column %q: %w", path, ErrMissingNode)
			}
			return nil, err
		}
		return TextData(values), nil
	}

	kind, values, err := store.ReadNumeric(path)
	if err != nil {
		if errors.Is(err, hstore.ErrNodeNotFound) {
			return nil, fmt.Errorf("column %q: %w", path, ErrMissingNode)
		}
		return nil, err
	}
	if kind != vt.kind() {
		return nil, fmt.Errorf("column %q tagged %s holds %v elements: %w",
			path, vt, kind, ErrUnknownValueType)
	}

	switch vt {
	case TypeFloat64:
		data := make(Float64Data, len(values))
		for i, v := range values {
			data[i] = math.Float64frombits(v)
		}
		return data, nil
	case TypeUint8:
		data := make(Uint8Data, len(values))
		for i, v := range values {
			data[i] = uint8(v)
		}
		return data, nil
	case TypeUint16:
		data := make(Uint16Data, len(values))
		for i, v := range values {
			data[i] = uint16(v)
		}
		return data, nil
	case TypeUint32:
		data := make(Uint32Data, len(values))
		for i, v := range values {
			data[i] = uint32(v)
		}
		return data, nil
	default:
		return Uint64Data(values), nil
	}
}
