package bron

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwdata/bron2/pkg/hstore"
)

func openTestStore(t *testing.T) *hstore.Store {
	t.Helper()
	store, err := hstore.Open(t.TempDir() + "/wells.db")
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// testWell builds a record exercising every value type, nested tables
// and metadata.
func testWell() *GMW {
	screens := &Table{
		Columns: []Column{
			{Name: "ScreenTop", Data: Float64Data{11.5, 14.0}},
			{Name: "ScreenBottom", Data: Float64Data{12.5, math.NaN()}},
		},
		Units: []string{"m", "m"},
	}

	return &GMW{
		History: &Table{
			Columns: []Column{
				{Name: "Event", Data: TextData{"constructed", "inspected", "repaired"}},
				{Name: "Year", Data: Uint16Data{1998, 2015, 2021}},
				{Name: "Flag", Data: Uint8Data{0, 1, math.MaxUint8}},
			},
		},
		Tube: &Table{
			Columns: []Column{
				{Name: "TubeNumber", Data: Uint8Data{1, 2}},
				{Name: "Screens", Data: TableData{screens, nil}},
				{Name: "Diameter", Data: Uint32Data{32, 50}},
			},
			Descriptions: []string{"tube index", "screen intervals", "outer diameter"},
		},
		Well: &Table{
			Columns: []Column{
				{Name: "BroID", Data: TextData{"GMW000000041033"}},
				{Name: "SurfaceLevel", Data: Float64Data{12.82}},
				{Name: "Serial", Data: Uint64Data{math.MaxUint64}},
			},
			Descriptions: []string{"BRO identifier", "surface level NAP", "device serial"},
			Units:        []string{"", "m", ""},
		},
	}
}

func TestRoundTrip_Document(t *testing.T) {
	store := openTestStore(t)

	wells := []*GMW{
		testWell(),
		{History: &Table{}, Tube: &Table{}, Well: &Table{
			Columns: []Column{{Name: "BroID", Data: TextData{"GMW000000041034"}}},
		}},
	}

	require.NoError(t, Write(store, "", wells))

	decoded, err := Read(store, "")
	require.NoError(t, err)
	require.Len(t, decoded, len(wells))

	for i := range wells {
		assert.True(t, decoded[i].Equal(wells[i]), "well %d did not round-trip", i+1)
	}
}

func TestRoundTrip_RecordOrder(t *testing.T) {
	store := openTestStore(t)

	// Enough records that lexicographic ordering of the decimal group
	// names ("10" < "2") would scramble the result.
	wells := make([]*GMW, 12)
	for i := range wells {
		wells[i] = &GMW{
			History: &Table{},
			Tube:    &Table{},
			Well: &Table{
				Columns: []Column{{Name: "Index", Data: Uint32Data{uint32(i)}}},
			},
		}
	}

	require.NoError(t, Write(store, "", wells))

	decoded, err := Read(store, "")
	require.NoError(t, err)
	require.Len(t, decoded, len(wells))
	for i, gmw := range decoded {
		col, ok := gmw.Well.Column("Index")
		require.True(t, ok)
		assert.Equal(t, uint32(i), col.Data.(Uint32Data)[0])
	}
}

func TestRoundTrip_NestedTables(t *testing.T) {
	store := openTestStore(t)

	inner := &Table{
		Columns: []Column{
			{Name: "A", Data: TextData{"x"}},
			{Name: "B", Data: Float64Data{1.5}},
		},
	}
	table := &Table{
		Columns: []Column{
			{Name: "Nested", Data: TableData{&Table{}, inner}},
		},
	}

	require.NoError(t, encodeTable(store, "t", table))

	decoded, err := decodeTable(store, "t")
	require.NoError(t, err)
	require.Len(t, decoded.Columns, 1)

	data := decoded.Columns[0].Data.(TableData)
	require.Len(t, data, 2)
	assert.True(t, data[0].Empty(), "Element1 should decode as the empty table")
	assert.True(t, data[1].Equal(inner), "Element2 should round-trip")
}

func TestRoundTrip_DeepNesting(t *testing.T) {
	store := openTestStore(t)

	// Nesting depth is bounded only by the data.
	leaf := &Table{Columns: []Column{{Name: "V", Data: Uint8Data{7}}}}
	table := leaf
	for i := 0; i < 5; i++ {
		table = &Table{Columns: []Column{{Name: "Child", Data: TableData{table}}}}
	}

	require.NoError(t, encodeTable(store, "deep", table))

	decoded, err := decodeTable(store, "deep")
	require.NoError(t, err)
	assert.True(t, decoded.Equal(table))
}

func TestRoundTrip_CommentExcluded(t *testing.T) {
	store := openTestStore(t)

	table := &Table{
		Columns: []Column{
			{Name: "BroID", Data: TextData{"GMW1"}},
			{Name: "Comment", Data: TextData{"unreliable remark"}},
			{Name: "Depth", Data: Float64Data{3.5}},
		},
		Descriptions: []string{"id", "remark", "depth"},
		Units:        []string{"", "", "m"},
	}

	require.NoError(t, encodeTable(store, "t", table))

	// The column node is never written.
	exists, err := store.Exists("t/Comment")
	require.NoError(t, err)
	assert.False(t, exists)

	decoded, err := decodeTable(store, "t")
	require.NoError(t, err)

	_, ok := decoded.Column("Comment")
	assert.False(t, ok)
	require.Len(t, decoded.Columns, 2)
	assert.Equal(t, "BroID", decoded.Columns[0].Name)
	assert.Equal(t, "Depth", decoded.Columns[1].Name)

	// Metadata entries of the excluded column are dropped with it.
	assert.Equal(t, []string{"id", "depth"}, decoded.Descriptions)
	assert.Equal(t, []string{"", "m"}, decoded.Units)
}

func TestRoundTrip_FillSentinel(t *testing.T) {
	store := openTestStore(t)

	// A legitimately written maximum value and a fill-valued cell are
	// indistinguishable by design; the codec must pass both through.
	table := &Table{
		Columns: []Column{
			{Name: "Code", Data: Uint8Data{42, math.MaxUint8, math.MaxUint8}},
		},
	}

	require.NoError(t, encodeTable(store, "t", table))
	decoded, err := decodeTable(store, "t")
	require.NoError(t, err)

	data := decoded.Columns[0].Data.(Uint8Data)
	assert.Equal(t, Uint8Data{42, math.MaxUint8, math.MaxUint8}, data)
}

func TestRoundTrip_NaNPreserved(t *testing.T) {
	store := openTestStore(t)

	table := &Table{
		Columns: []Column{
			{Name: "Level", Data: Float64Data{1.25, math.NaN(), -3.5}},
		},
	}

	require.NoError(t, encodeTable(store, "t", table))
	decoded, err := decodeTable(store, "t")
	require.NoError(t, err)

	data := decoded.Columns[0].Data.(Float64Data)
	require.Len(t, data, 3)
	assert.Equal(t, 1.25, data[0])
	assert.True(t, math.IsNaN(data[1]), "NaN cell must stay NaN")
	assert.Equal(t, -3.5, data[2])
}

func TestWrite_EmptyDocument(t *testing.T) {
	store := openTestStore(t)

	// Nothing is created, not even the version marker.
	require.NoError(t, Write(store, "", nil))

	_, err := ReadVersion(store)
	assert.ErrorIs(t, err, ErrMissingNode)

	children, err := store.Children("")
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestWrite_NilRecord(t *testing.T) {
	store := openTestStore(t)

	// A nil record in the sequence encodes as three empty tables instead
	// of dereferencing the nil pointer.
	require.NoError(t, Write(store, "", []*GMW{nil, testWell()}))

	decoded, err := Read(store, "")
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.True(t, decoded[0].Equal(&GMW{}))
	assert.True(t, decoded[1].Equal(testWell()))
}

func TestWrite_SubPathScoping(t *testing.T) {
	store := openTestStore(t)

	wells := []*GMW{{History: &Table{}, Tube: &Table{}, Well: &Table{}}}
	require.NoError(t, Write(store, "import/batch7", wells))

	// The version marker lives at the container root, not under the
	// sub-path.
	_, err := store.Attr("import/batch7", attrVersion)
	assert.ErrorIs(t, err, hstore.ErrAttrNotFound)

	version, err := ReadVersion(store)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, version)

	decoded, err := Read(store, "import/batch7")
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.True(t, decoded[0].Equal(wells[0]))
}

func TestReadRecord_Single(t *testing.T) {
	store := openTestStore(t)

	wells := []*GMW{testWell(), {History: &Table{}, Tube: &Table{}, Well: &Table{}}}
	require.NoError(t, Write(store, "", wells))

	gmw, err := ReadRecord(store, "", "1")
	require.NoError(t, err)
	assert.True(t, gmw.Equal(wells[0]))

	_, err = ReadRecord(store, "", "99")
	assert.ErrorIs(t, err, ErrMissingNode)
}
