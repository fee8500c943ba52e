package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gwdata/bron2/pkg/bron"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{
		"status":   "healthy",
		"operator": s.config.Operator,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	version, err := bron.ReadVersion(s.store)
	if err != nil {
		if errors.Is(err, bron.ErrMissingNode) {
			sendError(w, "Container has no version marker", http.StatusNotFound)
			return
		}
		sendError(w, fmt.Sprintf("Failed to read version: %v", err), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]uint32{
		"major": version.Major,
		"minor": version.Minor,
	})
}

func (s *Server) handleListWells(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	keys, err := bron.RecordKeys(s.store, s.config.Root)
	if err != nil {
		s.metrics.RecordCodecOperation("list", false, time.Since(start))
		sendError(w, fmt.Sprintf("Failed to list records: %v", err), http.StatusInternalServerError)
		return
	}
	s.metrics.RecordCodecOperation("list", true, time.Since(start))

	if keys == nil {
		keys = []string{}
	}
	sendSuccess(w, map[string]interface{}{
		"wells": keys,
		"count": len(keys),
	})
}

func (s *Server) handleGetWell(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	key := chi.URLParam(r, "key")
	if key == "" {
		sendError(w, "Record key is required", http.StatusBadRequest)
		return
	}

	gmw, err := bron.ReadRecord(s.store, s.config.Root, key)
	if err != nil {
		s.metrics.RecordCodecOperation("decode", false, time.Since(start))
		switch {
		case errors.Is(err, bron.ErrMissingNode):
			sendError(w, fmt.Sprintf("Record %q not found", key), http.StatusNotFound)
		case errors.Is(err, bron.ErrVersionMismatch):
			sendError(w, fmt.Sprintf("Unsupported container version: %v", err), http.StatusConflict)
		default:
			sendError(w, fmt.Sprintf("Failed to decode record: %v", err), http.StatusInternalServerError)
		}
		return
	}
	s.metrics.RecordCodecOperation("decode", true, time.Since(start))

	sendSuccess(w, gmw)
}
