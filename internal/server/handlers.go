package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/kamusis/coursematch/internal/catalog"
	"github.com/kamusis/coursematch/internal/rank"
	"github.com/kamusis/coursematch/internal/recommend"
)

type recommendResponse struct {
	Query   string             `json:"query"`
	K       int                `json:"k"`
	Results []recommend.Result `json:"results"`
}

type catalogResponse struct {
	Size     int              `json:"size"`
	Manifest catalog.Manifest `json:"manifest"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// handleRecommend handles GET /api/v1/recommend?q=<text>&k=<n>.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := recommendRequest{Query: q.Get("q"), K: s.topN}
	if raw := strings.TrimSpace(q.Get("k")); raw != "" {
		k, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, CodeValidation, "k must be an integer", "k")
			return
		}
		req.K = k
	}
	if verr := validateRequest(&req); verr != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, verr.Message, verr.Field)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	results, err := s.svc.Recommend(ctx, req.Query, req.K)
	switch {
	case err == nil:
	case errors.Is(err, recommend.ErrEmptyQuery):
		respondError(w, http.StatusBadRequest, CodeEmptyQuery, "query must not be empty", "q")
		return
	case errors.Is(err, rank.ErrDimensionMismatch):
		s.logger.Error().Err(err).Msg("catalog and provider disagree on dimension")
		respondError(w, http.StatusInternalServerError, CodeConfiguration, "embedding dimension does not match catalog", "")
		return
	default:
		s.logger.Warn().Err(err).Msg("recommendation failed")
		respondError(w, http.StatusBadGateway, CodeEmbeddingFailed, "cannot embed query", "")
		return
	}

	respondJSON(w, http.StatusOK, recommendResponse{
		Query:   strings.TrimSpace(req.Query),
		K:       req.K,
		Results: results,
	})
}

// handleCatalog handles GET /api/v1/catalog.
func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	cat := s.svc.Catalog()
	respondJSON(w, http.StatusOK, catalogResponse{Size: cat.Size(), Manifest: cat.Manifest()})
}

// handleLive reports that the process is serving.
func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// handleReady reports whether the server accepts traffic. It turns false once shutdown begins.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		respondError(w, http.StatusServiceUnavailable, CodeNotReady, "server is shutting down", "")
		return
	}
	respondJSON(w, http.StatusOK, healthResponse{Status: "ready"})
}
