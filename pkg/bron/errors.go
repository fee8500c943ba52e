package bron

// Errors
var (
	// ErrVersionMismatch means the container root carries a BRON_VERSION
	// whose major version this package does not support, or whose marker
	// is malformed.
	ErrVersionMismatch = &CodecError{"container version mismatch"}

	// ErrUnsupportedColumnType means a column's content does not match any
	// known value type.
	ErrUnsupportedColumnType = &CodecError{"unsupported column type"}

	// ErrMalformedColumn means a table violates the model, e.g. columns
	// with differing row counts or metadata of the wrong length.
	ErrMalformedColumn = &CodecError{"malformed column"}

	// ErrMissingNode means a node the container layout requires is absent.
	ErrMissingNode = &CodecError{"missing node"}

	// ErrUnknownValueType means a stored value_type tag is not recognized
	// or does not match the stored data.
	ErrUnknownValueType = &CodecError{"unknown value type"}
)

// CodecError represents a Bron codec error
type CodecError struct {
	Message string
}

func (e *CodecError) Error() string {
	return e.Message
}
