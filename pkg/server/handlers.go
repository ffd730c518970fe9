package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ds-wizard/fairsharing-proxy/pkg/proxy"
)

// maxSearchBodyBytes limits the accepted size of a search request body.
const maxSearchBodyBytes = 1 << 20 // 1 MiB

// handleRoot serves build information. The root pattern also catches every
// unknown path, which gets a 404.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found."})
		return
	}
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "Method not allowed."})
		return
	}
	writeJSON(w, http.StatusOK, s.info)
}

// handleSearch serves the canonical search endpoint: GET with URL query
// parameters or POST with a JSON body, credentials in Authorization.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var resp *proxy.Response
	switch r.Method {
	case http.MethodGet:
		resp = s.core.Search(r.Context(), r.Header, r.URL.Query(), nil, true)
	case http.MethodPost:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxSearchBodyBytes))
		if err != nil {
			resp = &proxy.Response{
				Status: http.StatusBadRequest,
				Body:   map[string]string{"message": "Could not read request body."},
			}
		} else {
			resp = s.core.Search(r.Context(), r.Header, nil, body, false)
		}
	default:
		resp = &proxy.Response{
			Status: http.StatusMethodNotAllowed,
			Body:   map[string]string{"message": "Method not allowed."},
		}
	}

	s.writeResponse(w, resp)
	if s.collector != nil {
		s.collector.RecordRequest("search", resp.Status, time.Since(start))
	}
}

// handleLegacySearch serves the v0.3 compatibility endpoint: GET with URL
// query parameters, credentials in Api-Key.
func (s *Server) handleLegacySearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var resp *proxy.Response
	if r.Method == http.MethodGet {
		resp = s.core.LegacySearch(r.Context(), r.Header, r.URL.Query())
	} else {
		resp = &proxy.Response{
			Status: http.StatusMethodNotAllowed,
			Body:   map[string]string{"message": "Method not allowed."},
		}
	}

	s.writeResponse(w, resp)
	if s.collector != nil {
		s.collector.RecordRequest("legacy_search", resp.Status, time.Since(start))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeResponse writes a search outcome: raw upstream bytes verbatim, or a
// JSON-encoded body.
func (s *Server) writeResponse(w http.ResponseWriter, resp *proxy.Response) {
	if resp.Raw != nil {
		contentType := resp.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(resp.Status)
		if _, err := w.Write(resp.Raw); err != nil {
			slog.Debug("writing passthrough response failed", "error", err)
		}
		return
	}
	writeJSON(w, resp.Status, resp.Body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Debug("encoding response failed", "error", err)
	}
}
