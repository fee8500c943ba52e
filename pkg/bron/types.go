// Package bron serializes groundwater monitoring well records to and from
// Bron v2 hierarchical containers.
//
// A container holds an ordered sequence of GMW records, each composed of
// three named tables (History, Tube, Well). Tables are ordered column
// sequences; a column holds either a primitive row sequence or one nested
// table per row, which makes the model recursive.
package bron

import (
	"math"
)

// GMW is one groundwater monitoring well record.
type GMW struct {
	History *Table
	Tube    *Table
	Well    *Table
}

// gmwFields lists the fixed record field names in container order.
var gmwFields = [...]string{"History", "Tube", "Well"}

func (g *GMW) field(name string) *Table {
	switch name {
	case "History":
		return g.History
	case "Tube":
		return g.Tube
	case "Well":
		return g.Well
	default:
		return nil
	}
}

// Equal reports whether two records hold equal tables.
func (g *GMW) Equal(o *GMW) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.History.Equal(o.History) &&
		g.Tube.Equal(o.Tube) &&
		g.Well.Equal(o.Well)
}

// Table is an ordered sequence of named columns plus optional parallel
// description and unit metadata. A Table with zero columns is the
// canonical empty table.
type Table struct {
	Columns      []Column
	Descriptions []string
	Units        []string
}

// Column pairs a name with its row data.
type Column struct {
	Name string
	Data ColumnData
}

// ColumnData is the closed union of column contents. Implementations are
// TextData, Float64Data, Uint8Data, Uint16Data, Uint32Data, Uint64Data
// and TableData.
type ColumnData interface {
	Len() int
	ValueType() ValueType
}

type TextData []string

func (d TextData) Len() int             { return len(d) }
func (d TextData) ValueType() ValueType { return TypeText }

type Float64Data []float64

func (d Float64Data) Len() int             { return len(d) }
func (d Float64Data) ValueType() ValueType { return TypeFloat64 }

type Uint8Data []uint8

func (d Uint8Data) Len() int             { return len(d) }
func (d Uint8Data) ValueType() ValueType { return TypeUint8 }

type Uint16Data []uint16

func (d Uint16Data) Len() int             { return len(d) }
func (d Uint16Data) ValueType() ValueType { return TypeUint16 }

type Uint32Data []uint32

func (d Uint32Data) Len() int             { return len(d) }
func (d Uint32Data) ValueType() ValueType { return TypeUint32 }

type Uint64Data []uint64

func (d Uint64Data) Len() int             { return len(d) }
func (d Uint64Data) ValueType() ValueType { return TypeUint64 }

// TableData holds one nested table per row. A nil entry stands for the
// empty table.
type TableData []*Table

func (d TableData) Len() int             { return len(d) }
func (d TableData) ValueType() ValueType { return TypeTable }

// Rows returns the shared row count of the table's columns.
func (t *Table) Rows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Data.Len()
}

// Empty reports whether the table has no columns.
func (t *Table) Empty() bool {
	return t == nil || len(t.Columns) == 0
}

// Column returns the named column, if present.
func (t *Table) Column(name string) (Column, bool) {
	if t == nil {
		return Column{}, false
	}
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// validate checks the model invariants: one shared row count across all
// columns, and metadata lengths equal to the column count when present.
func (t *Table) validate() error {
	if t.Empty() {
		if len(t.Descriptions) != 0 || len(t.Units) != 0 {
			return ErrMalformedColumn
		}
		return nil
	}
	rows := -1
	for _, c := range t.Columns {
		if c.Data == nil {
			return ErrUnsupportedColumnType
		}
		if rows < 0 {
			rows = c.Data.Len()
		} else if c.Data.Len() != rows {
			return ErrMalformedColumn
		}
	}
	if len(t.Descriptions) != 0 && len(t.Descriptions) != len(t.Columns) {
		return ErrMalformedColumn
	}
	if len(t.Units) != 0 && len(t.Units) != len(t.Columns) {
		return ErrMalformedColumn
	}
	return nil
}

// Equal reports whether two tables hold the same columns, data and
// metadata. A nil table equals the empty table; NaN cells compare equal
// to NaN cells so that fill values survive comparison.
func (t *Table) Equal(o *Table) bool {
	if t.Empty() || o.Empty() {
		return t.Empty() && o.Empty()
	}
	if len(t.Columns) != len(o.Columns) {
		return false
	}
	for i := range t.Columns {
		if !t.Columns[i].equal(o.Columns[i]) {
			return false
		}
	}
	return stringsEqual(t.Descriptions, o.Descriptions) &&
		stringsEqual(t.Units, o.Units)
}

func (c Column) equal(o Column) bool {
	if c.Name != o.Name {
		return false
	}
	if c.Data == nil || o.Data == nil {
		return c.Data == nil && o.Data == nil
	}
	if c.Data.ValueType() != o.Data.ValueType() || c.Data.Len() != o.Data.Len() {
		return false
	}
	switch a := c.Data.(type) {
	case TextData:
		return stringsEqual(a, o.Data.(TextData))
	case Float64Data:
		b := o.Data.(Float64Data)
		for i := range a {
			if a[i] != b[i] && !(math.IsNaN(a[i]) && math.IsNaN(b[i])) {
				return false
			}
		}
		return true
	case Uint8Data:
		b := o.Data.(Uint8Data)
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	case Uint16Data:
		b := o.Data.(Uint16Data)
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	case Uint32Data:
		b := o.Data.(Uint32Data)
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	case Uint64Data:
		b := o.Data.(Uint64Data)
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	case TableData:
		b := o.Data.(TableData)
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
