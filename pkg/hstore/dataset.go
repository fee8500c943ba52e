package hstore

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/cockroachdb/pebble"
)

// Dataset framing, little-endian:
//
//	[CRC32(4)][Kind(1)][Chunk(2)][Count(4)][Capacity(4)][Fill(8)][payload]
//
// Text payloads are Count length-prefixed strings ([len(4)][bytes]).
// Numeric payloads are Capacity elements at the kind's width; slots at
// index >= Count hold the fill pattern. The CRC covers everything after
// the CRC field itself.
const (
	headerSize = 23

	offKind     = 4
	offChunk    = 5
	offCount    = 7
	offCapacity = 11
	offFill     = 15
)

type datasetHeader struct {
	Kind     ElementKind
	Chunk    int
	Count    int
	Capacity int
	Fill     uint64
}

func encodeDataset(hdr datasetHeader, payload []byte) []byte {
	buf := make([]byte, headerSize+len(payload))
	buf[offKind] = byte(hdr.Kind)
	binary.LittleEndian.PutUint16(buf[offChunk:], uint16(hdr.Chunk))
	binary.LittleEndian.PutUint32(buf[offCount:], uint32(hdr.Count))
	binary.LittleEndian.PutUint32(buf[offCapacity:], uint32(hdr.Capacity))
	binary.LittleEndian.PutUint64(buf[offFill:], hdr.Fill)
	copy(buf[headerSize:], payload)
	binary.LittleEndian.PutUint32(buf[0:], crc32.ChecksumIEEE(buf[4:]))
	return buf
}

func decodeDataset(data []byte) (datasetHeader, []byte, error) {
	if len(data) < headerSize {
		return datasetHeader{}, nil, ErrCorruption
	}
	if binary.LittleEndian.Uint32(data[0:4]) != crc32.ChecksumIEEE(data[4:]) {
		return datasetHeader{}, nil, ErrCorruption
	}
	hdr := datasetHeader{
		Kind:     ElementKind(data[offKind]),
		Chunk:    int(binary.LittleEndian.Uint16(data[offChunk:])),
		Count:    int(binary.LittleEndian.Uint32(data[offCount:])),
		Capacity: int(binary.LittleEndian.Uint32(data[offCapacity:])),
		Fill:     binary.LittleEndian.Uint64(data[offFill:]),
	}
	return hdr, data[headerSize:], nil
}

func (s *Store) putDataset(path string, buf []byte) error {
	path = normalize(path)
	if err := s.registerNode(path); err != nil {
		return err
	}
	if err := s.db.Set(dataKey(path), buf, pebble.NoSync); err != nil {
		return fmt.Errorf("failed to write dataset %q: %w", path, err)
	}
	return nil
}

func (s *Store) getDataset(path string) (datasetHeader, []byte, error) {
	path = normalize(path)
	value, closer, err := s.db.Get(dataKey(path))
	if err == pebble.ErrNotFound {
		return datasetHeader{}, nil, ErrNodeNotFound
	}
	if err != nil {
		return datasetHeader{}, nil, fmt.Errorf("failed to read dataset %q: %w", path, err)
	}
	defer closer.Close()

	buf := make([]byte, len(value))
	copy(buf, value)
	hdr, payload, err := decodeDataset(buf)
	if err != nil {
		return datasetHeader{}, nil, fmt.Errorf("dataset %q: %w", path, err)
	}
	return hdr, payload, nil
}

// WriteText stores a variable-length text array at path. A zero-length
// array is a valid dataset.
func (s *Store) WriteText(path string, values []string) error {
	size := 0
	for _, v := range values {
		size += 4 + len(v)
	}
	payload := make([]byte, 0, size)
	var lenbuf [4]byte
	for _, v := range values {
		binary.LittleEndian.PutUint32(lenbuf[:], uint32(len(v)))
		payload = append(payload, lenbuf[:]...)
		payload = append(payload, v...)
	}
	hdr := datasetHeader{
		Kind:     KindText,
		Count:    len(values),
		Capacity: len(values),
	}
	return s.putDataset(path, encodeDataset(hdr, payload))
}

// ReadText reads a variable-length text array from path.
func (s *Store) ReadText(path string) ([]string, error) {
	hdr, payload, err := s.getDataset(path)
	if err != nil {
		return nil, err
	}
	if hdr.Kind != KindText {
		return nil, fmt.Errorf("dataset %q: %w", path, ErrKindMismatch)
	}
	values := make([]string, 0, hdr.Count)
	for i := 0; i < hdr.Count; i++ {
		if len(payload) < 4 {
			return nil, fmt.Errorf("dataset %q: %w", path, ErrCorruption)
		}
		n := int(binary.LittleEndian.Uint32(payload))
		payload = payload[4:]
		if len(payload) < n {
			return nil, fmt.Errorf("dataset %q: %w", path, ErrCorruption)
		}
		values = append(values, string(payload[:n]))
		payload = payload[n:]
	}
	return values, nil
}

// WriteNumeric stores a fixed-width numeric sequence at path. Values are
// carried as 64-bit patterns; narrower kinds truncate to their width on
// write and zero-extend on read. Capacity is rounded up to the chunk
// granularity and trailing slots hold the fill pattern, which keeps the
// dataset append-capable without reallocation on every growth.
func (s *Store) WriteNumeric(path string, kind ElementKind, values []uint64, opts DatasetOptions) error {
	if !kind.Numeric() {
		return fmt.Errorf("dataset %q: %w", path, ErrKindMismatch)
	}
	chunk := opts.Chunk
	if chunk <= 0 {
		chunk = DefaultChunk
	}
	capacity := ((len(values) + chunk - 1) / chunk) * chunk
	if capacity == 0 {
		capacity = chunk
	}

	width := kind.Width()
	payload := make([]byte, capacity*width)
	for i := 0; i < capacity; i++ {
		v := opts.Fill
		if i < len(values) {
			v = values[i]
		}
		putElement(payload[i*width:], width, v)
	}
	hdr := datasetHeader{
		Kind:     kind,
		Chunk:    chunk,
		Count:    len(values),
		Capacity: capacity,
		Fill:     opts.Fill,
	}
	return s.putDataset(path, encodeDataset(hdr, payload))
}

// ReadNumeric reads a numeric sequence from path, returning the stored
// kind and the logical values (fill-padded capacity slots are not
// returned).
func (s *Store) ReadNumeric(path string) (ElementKind, []uint64, error) {
	hdr, payload, err := s.getDataset(path)
	if err != nil {
		return 0, nil, err
	}
	if !hdr.Kind.Numeric() {
		return 0, nil, fmt.Errorf("dataset %q: %w", path, ErrKindMismatch)
	}
	width := hdr.Kind.Width()
	if len(payload) < hdr.Count*width {
		return 0, nil, fmt.Errorf("dataset %q: %w", path, ErrCorruption)
	}
	values := make([]uint64, hdr.Count)
	for i := range values {
		values[i] = getElement(payload[i*width:], width)
	}
	return hdr.Kind, values, nil
}

// AppendNumeric extends an existing numeric dataset, growing its capacity
// by whole chunks when needed.
func (s *Store) AppendNumeric(path string, values []uint64) error {
	hdr, payload, err := s.getDataset(path)
	if err != nil {
		return err
	}
	if !hdr.Kind.Numeric() {
		return fmt.Errorf("dataset %q: %w", path, ErrKindMismatch)
	}
	width := hdr.Kind.Width()

	existing := make([]uint64, hdr.Count, hdr.Count+len(values))
	for i := range existing {
		existing[i] = getElement(payload[i*width:], width)
	}
	return s.WriteNumeric(path, hdr.Kind, append(existing, values...), DatasetOptions{
		Fill:  hdr.Fill,
		Chunk: hdr.Chunk,
	})
}

// DatasetKind returns the element kind of the dataset at path.
func (s *Store) DatasetKind(path string) (ElementKind, error) {
	hdr, _, err := s.getDataset(path)
	if err != nil {
		return 0, err
	}
	return hdr.Kind, nil
}

func putElement(buf []byte, width int, v uint64) {
	switch width {
	case 1:
		buf[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(v))
	default:
		binary.LittleEndian.PutUint64(buf, v)
	}
}

func getElement(buf []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(buf))
	case 4:
		return uint64(binary.LittleEndian.Uint32(buf))
	default:
		return binary.LittleEndian.Uint64(buf)
	}
}
