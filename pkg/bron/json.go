package bron

import (
	"encoding/json"
	"fmt"
	"math"
)

// JSON document shape:
//
//	GMW    {"History": <table>, "Tube": <table>, "Well": <table>}
//	Table  {"columns": [...], "descriptions": [...], "units": [...]}
//	Column {"name": "...", "type": "float64", "values": [...]}
//
// Float64 NaN cells (the numeric fill value) are carried as JSON null,
// since JSON has no NaN literal.

type tableJSON struct {
	Columns      []Column `json:"columns"`
	Descriptions []string `json:"descriptions,omitempty"`
	Units        []string `json:"units,omitempty"`
}

type columnJSON struct {
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Values json.RawMessage `json:"values"`
}

// MarshalJSON implements json.Marshaler.
func (t *Table) MarshalJSON() ([]byte, error) {
	if t == nil {
		t = &Table{}
	}
	doc := tableJSON{
		Columns:      t.Columns,
		Descriptions: t.Descriptions,
		Units:        t.Units,
	}
	if doc.Columns == nil {
		doc.Columns = []Column{}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Table) UnmarshalJSON(data []byte) error {
	var doc tableJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	t.Columns = doc.Columns
	t.Descriptions = doc.Descriptions
	t.Units = doc.Units
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Column) MarshalJSON() ([]byte, error) {
	if c.Data == nil {
		return nil, fmt.Errorf("column %q: %w", c.Name, ErrUnsupportedColumnType)
	}
	values, err := marshalValues(c.Data)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", c.Name, err)
	}
	return json.Marshal(columnJSON{
		Name:   c.Name,
		Type:   c.Data.ValueType().String(),
		Values: values,
	})
}

func marshalValues(data ColumnData) (json.RawMessage, error) {
	switch d := data.(type) {
	case Float64Data:
		// NaN is not representable in JSON; emit null instead.
		values := make([]interface{}, len(d))
		for i, v := range d {
			if math.IsNaN(v) {
				values[i] = nil
			} else {
				values[i] = v
			}
		}
		return json.Marshal(values)
	case Uint8Data:
		// []uint8 would marshal as a base64 string; force a number array.
		values := make([]uint64, len(d))
		for i, v := range d {
			values[i] = uint64(v)
		}
		return json.Marshal(values)
	default:
		return json.Marshal(data)
	}
}

// unmarshalUints parses a number array for a narrow unsigned column,
// rejecting values the column's width cannot represent.
func unmarshalUints(name string, data json.RawMessage, max uint64) ([]uint64, error) {
	var raw []uint64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("column %q: %w", name, err)
	}
	for _, v := range raw {
		if v > max {
			return nil, fmt.Errorf("column %q: value %d exceeds %d: %w", name, v, max, ErrMalformedColumn)
		}
	}
	return raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Column) UnmarshalJSON(data []byte) error {
	var doc columnJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	vt, err := ParseValueType(doc.Type)
	if err != nil {
		return fmt.Errorf("column %q: %w", doc.Name, err)
	}

	c.Name = doc.Name
	switch vt {
	case TypeTable:
		var values TableData
		if err := json.Unmarshal(doc.Values, &values); err != nil {
			return fmt.Errorf("column %q: %w", doc.Name, err)
		}
		c.Data = values
	case TypeText:
		var values TextData
		if err := json.Unmarshal(doc.Values, &values); err != nil {
			return fmt.Errorf("column %q: %w", doc.Name, err)
		}
		c.Data = values
	case TypeFloat64:
		var raw []*float64
		if err := json.Unmarshal(doc.Values, &raw); err != nil {
			return fmt.Errorf("column %q: %w", doc.Name, err)
		}
		values := make(Float64Data, len(raw))
		for i, v := range raw {
			if v == nil {
				values[i] = math.NaN()
			} else {
				values[i] = *v
			}
		}
		c.Data = values
	case TypeUint8:
		raw, err := unmarshalUints(doc.Name, doc.Values, math.MaxUint8)
		if err != nil {
			return err
		}
		values := make(Uint8Data, len(raw))
		for i, v := range raw {
			values[i] = uint8(v)
		}
		c.Data = values
	case TypeUint16:
		raw, err := unmarshalUints(doc.Name, doc.Values, math.MaxUint16)
		if err != nil {
			return err
		}
		values := make(Uint16Data, len(raw))
		for i, v := range raw {
			values[i] = uint16(v)
		}
		c.Data = values
	case TypeUint32:
		raw, err := unmarshalUints(doc.Name, doc.Values, math.MaxUint32)
		if err != nil {
			return err
		}
		values := make(Uint32Data, len(raw))
		for i, v := range raw {
			values[i] = uint32(v)
		}
		c.Data = values
	case TypeUint64:
		var values Uint64Data
		if err := json.Unmarshal(doc.Values, &values); err != nil {
			return fmt.Errorf("column %q: %w", doc.Name, err)
		}
		c.Data = values
	}
	return nil
}
