package bron

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_DocumentRoundTrip(t *testing.T) {
	wells := []*GMW{testWell()}

	data, err := json.Marshal(wells)
	require.NoError(t, err)

	var decoded []*GMW
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.True(t, decoded[0].Equal(wells[0]))
}

func TestJSON_NaNAsNull(t *testing.T) {
	table := &Table{
		Columns: []Column{
			{Name: "Level", Data: Float64Data{1.5, math.NaN()}},
		},
	}

	data, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[1.5,null]")

	var decoded Table
	require.NoError(t, json.Unmarshal(data, &decoded))
	values := decoded.Columns[0].Data.(Float64Data)
	assert.Equal(t, 1.5, values[0])
	assert.True(t, math.IsNaN(values[1]))
}

func TestJSON_Uint8AsNumbers(t *testing.T) {
	table := &Table{
		Columns: []Column{
			{Name: "Flags", Data: Uint8Data{0, 255}},
		},
	}

	data, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[0,255]", "uint8 columns are number arrays, not base64")

	var decoded Table
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Uint8Data{0, 255}, decoded.Columns[0].Data)
}

func TestJSON_EmptyTable(t *testing.T) {
	data, err := json.Marshal(&Table{})
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"columns":[]`))

	var decoded Table
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Empty())
}

func TestJSON_OutOfRangeValues(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{"uint8", `{"name":"Flags","type":"uint8","values":[300]}`},
		{"uint16", `{"name":"Year","type":"uint16","values":[70000]}`},
		{"uint32", `{"name":"Count","type":"uint32","values":[4294967296]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var col Column
			err := json.Unmarshal([]byte(tc.doc), &col)
			assert.ErrorIs(t, err, ErrMalformedColumn, "values wider than the column must be rejected, not truncated")
		})
	}
}

func TestJSON_UnknownColumnType(t *testing.T) {
	var col Column
	err := json.Unmarshal([]byte(`{"name":"X","type":"int64","values":[1]}`), &col)
	assert.ErrorIs(t, err, ErrUnknownValueType)
}
