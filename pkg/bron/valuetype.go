package bron

import (
	"fmt"
	"math"

	"github.com/gwdata/bron2/pkg/hstore"
)

// ValueType tags a column with its storage encoding. The set is closed:
// a column is either table-valued or holds one primitive type.
type ValueType uint8

const (
	TypeTable ValueType = iota + 1
	TypeText
	TypeFloat64
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
)

// attrValueType is the node attribute carrying the value type tag.
const attrValueType = "value_type"

func (t ValueType) String() string {
	switch t {
	case TypeTable:
		return "table"
	case TypeText:
		return "text"
	case TypeFloat64:
		return "float64"
	case TypeUint8:
		return "uint8"
	case TypeUint16:
		return "uint16"
	case TypeUint32:
		return "uint32"
	case TypeUint64:
		return "uint64"
	default:
		return fmt.Sprintf("ValueType(%d)", uint8(t))
	}
}

// ParseValueType parses the string form of a value type tag.
func ParseValueType(s string) (ValueType, error) {
	switch s {
	case "table":
		return TypeTable, nil
	case "text":
		return TypeText, nil
	case "float64":
		return TypeFloat64, nil
	case "uint8":
		return TypeUint8, nil
	case "uint16":
		return TypeUint16, nil
	case "uint32":
		return TypeUint32, nil
	case "uint64":
		return TypeUint64, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrUnknownValueType)
	}
}

// FillValue returns the bit pattern marking a logically absent cell: the
// maximum representable value for unsigned widths, NaN for float64.
func (t ValueType) FillValue() uint64 {
	switch t {
	case TypeFloat64:
		return math.Float64bits(math.NaN())
	case TypeUint8:
		return math.MaxUint8
	case TypeUint16:
		return math.MaxUint16
	case TypeUint32:
		return math.MaxUint32
	case TypeUint64:
		return math.MaxUint64
	default:
		return 0
	}
}

// kind maps a scalar value type to its physical element kind.
func (t ValueType) kind() hstore.ElementKind {
	switch t {
	case TypeText:
		return hstore.KindText
	case TypeFloat64:
		return hstore.KindFloat64
	case TypeUint8:
		return hstore.KindUint8
	case TypeUint16:
		return hstore.KindUint16
	case TypeUint32:
		return hstore.KindUint32
	case TypeUint64:
		return hstore.KindUint64
	default:
		return 0
	}
}
