package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwdata/bron2/pkg/bron"
	"github.com/gwdata/bron2/pkg/hstore"
)

// One metrics instance for the whole test binary: promauto registers
// into the default registry and duplicate registration panics.
var testMetrics = NewMetrics()

func newTestServer(t *testing.T) (*Server, *hstore.Store) {
	t.Helper()
	store, err := hstore.Open(t.TempDir() + "/wells.db")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	config := ServerConfig{
		APIKey:   "test-key",
		Operator: "test-operator",
	}
	return NewServer(store, config, testMetrics), store
}

func get(t *testing.T, router http.Handler, path, apiKey string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func testDocument() []*bron.GMW {
	return []*bron.GMW{
		{
			History: &bron.Table{},
			Tube:    &bron.Table{},
			Well: &bron.Table{
				Columns: []bron.Column{
					{Name: "BroID", Data: bron.TextData{"GMW000000041033"}},
				},
			},
		},
	}
}

func TestAPI_Auth(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	t.Run("missing key", func(t *testing.T) {
		rec := get(t, router, "/api/v1/health", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong key", func(t *testing.T) {
		rec := get(t, router, "/api/v1/health", "wrong")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid key", func(t *testing.T) {
		rec := get(t, router, "/api/v1/health", "test-key")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("metrics endpoint is unprotected", func(t *testing.T) {
		rec := get(t, router, "/metrics", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAPI_Health(t *testing.T) {
	server, _ := newTestServer(t)
	rec := get(t, server.Router(), "/api/v1/health", "test-key")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "test-operator", data["operator"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAPI_Version(t *testing.T) {
	server, store := newTestServer(t)
	router := server.Router()

	t.Run("no marker yet", func(t *testing.T) {
		rec := get(t, router, "/api/v1/version", "test-key")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	require.NoError(t, bron.Write(store, "", testDocument()))

	t.Run("stamped container", func(t *testing.T) {
		rec := get(t, router, "/api/v1/version", "test-key")
		require.Equal(t, http.StatusOK, rec.Code)

		data := decodeResponse(t, rec).Data.(map[string]interface{})
		assert.Equal(t, float64(2), data["major"])
		assert.Equal(t, float64(0), data["minor"])
	})
}

func TestAPI_Wells(t *testing.T) {
	server, store := newTestServer(t)
	router := server.Router()
	require.NoError(t, bron.Write(store, "", testDocument()))

	t.Run("list", func(t *testing.T) {
		rec := get(t, router, "/api/v1/wells", "test-key")
		require.Equal(t, http.StatusOK, rec.Code)

		data := decodeResponse(t, rec).Data.(map[string]interface{})
		assert.Equal(t, float64(1), data["count"])
		assert.Equal(t, []interface{}{"1"}, data["wells"])
	})

	t.Run("get one", func(t *testing.T) {
		rec := get(t, router, "/api/v1/wells/1", "test-key")
		require.Equal(t, http.StatusOK, rec.Code)

		raw, err := json.Marshal(decodeResponse(t, rec).Data)
		require.NoError(t, err)

		var gmw bron.GMW
		require.NoError(t, json.Unmarshal(raw, &gmw))
		assert.True(t, gmw.Equal(testDocument()[0]))
	})

	t.Run("get missing", func(t *testing.T) {
		rec := get(t, router, "/api/v1/wells/99", "test-key")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
