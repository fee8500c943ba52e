package hstore

// ElementKind identifies the physical element type of a dataset.
type ElementKind uint8

const (
	KindText ElementKind = iota + 1
	KindFloat64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
)

// Width returns the element size in bytes for numeric kinds, 0 for text.
func (k ElementKind) Width() int {
	switch k {
	case KindFloat64, KindUint64:
		return 8
	case KindUint32:
		return 4
	case KindUint16:
		return 2
	case KindUint8:
		return 1
	default:
		return 0
	}
}

// Numeric reports whether the kind holds fixed-width numeric elements.
func (k ElementKind) Numeric() bool {
	return k.Width() > 0
}

// DatasetOptions configures a numeric dataset.
type DatasetOptions struct {
	Fill  uint64 // bit pattern written into unused slots
	Chunk int    // allocation granularity in elements (0 = DefaultChunk)
}

// DefaultChunk is the allocation granularity used when none is given.
const DefaultChunk = 8

// Errors
var (
	ErrNodeNotFound = &StoreError{"node not found"}
	ErrAttrNotFound = &StoreError{"attribute not found"}
	ErrCorruption   = &StoreError{"dataset corruption detected"}
	ErrKindMismatch = &StoreError{"dataset kind mismatch"}
)

// StoreError represents a hierarchical store error
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}
