package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/realtor-intake/internal/model"
	"github.com/sells-group/realtor-intake/internal/ner"
	"github.com/sells-group/realtor-intake/internal/store"
	"github.com/sells-group/realtor-intake/internal/validate"
)

const maxBodyBytes = 1 << 20

type parseRequest struct {
	Text string `json:"text"`
}

type createListingRequest struct {
	Text string `json:"text"`
	// Listing is the reviewed listing. When absent the text is parsed.
	Listing json.RawMessage `json:"listing,omitempty"`
}

type createListingResponse struct {
	RawID string `json:"raw_id"`
	ID    string `json:"id"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) parse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	l, err := s.parser.Extract(r.Context(), req.Text)
	if err != nil {
		writeFailure(w, "parse", err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) createListing(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	var l *model.Listing
	if len(req.Listing) > 0 && string(req.Listing) != "null" {
		if err := validate.JSON(req.Listing); err != nil {
			writeFailure(w, "create listing", err)
			return
		}
		l = model.NewListing()
		if err := json.Unmarshal(req.Listing, l); err != nil {
			writeError(w, http.StatusBadRequest, "invalid listing")
			return
		}
	} else {
		var err error
		if l, err = s.parser.Extract(r.Context(), req.Text); err != nil {
			writeFailure(w, "create listing", err)
			return
		}
	}
	if err := validate.Listing(l); err != nil {
		writeFailure(w, "create listing", err)
		return
	}

	ctx := r.Context()
	rawID, err := s.store.SaveRawDescription(ctx, req.Text)
	if err != nil {
		writeFailure(w, "create listing", err)
		return
	}

	rec := model.NewPropertyRecord(rawID, l)
	if err := validate.Record(rec); err != nil {
		writeFailure(w, "create listing", err)
		return
	}
	id, err := s.store.SavePropertyRecord(ctx, rec)
	if err != nil {
		writeFailure(w, "create listing", err)
		return
	}

	zap.L().Info("listing saved", zap.String("raw_id", rawID), zap.String("id", id))
	writeJSON(w, http.StatusCreated, createListingResponse{RawID: rawID, ID: id})
}

func (s *Server) listListings(w http.ResponseWriter, r *http.Request) {
	limit := s.historyLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	recent, err := s.store.ListRecent(r.Context(), limit)
	if err != nil {
		writeFailure(w, "list listings", err)
		return
	}
	writeJSON(w, http.StatusOK, recent)
}

func (s *Server) getListing(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetPropertyRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, "get listing", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// decodeBody reads a size-limited JSON body into v, writing 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeFailure maps domain errors to status codes. Unexpected errors are
// logged and reported without detail.
func writeFailure(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ner.ErrModelUnavailable):
		writeError(w, http.StatusServiceUnavailable, "entity model unavailable")
	case errors.Is(err, validate.ErrInvalid):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		zap.L().Error(op+" failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
