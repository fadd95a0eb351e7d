package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ctsong73/fathom-microservice/internal/pipeline"
	"github.com/Ctsong73/fathom-microservice/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleMomentum(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if !s.orchestrator.Known(symbol) {
		writeError(w, http.StatusNotFound, "stock not found")
		return
	}

	summary, err := s.calculator.Momentum(r.Context(), symbol)
	if err != nil {
		var se *store.StorageError
		if errors.As(err, &se) {
			log.Printf("[ERROR] momentum %s: %v", symbol, err)
			writeError(w, http.StatusInternalServerError, "storage failure")
			return
		}
		log.Printf("[ERROR] momentum %s: %v", symbol, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if summary.DataPoints == 0 {
		writeError(w, http.StatusNotFound, "no data available")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleFetch(force bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := chi.URLParam(r, "symbol")
		count, err := s.orchestrator.FetchStock(r.Context(), symbol, force)
		if err != nil {
			if errors.Is(err, pipeline.ErrUnknownSymbol) {
				writeError(w, http.StatusNotFound, "stock not found")
				return
			}
			log.Printf("[ERROR] fetch %s: %v", symbol, err)
			writeError(w, http.StatusInternalServerError, "storage failure")
			return
		}

		resp := map[string]interface{}{"symbol": symbol, "records": count}
		if force {
			resp["refreshed"] = true
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleFetchAll(force bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := s.orchestrator.FetchAll(r.Context(), force)
		if force {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"message": "All stocks refreshed",
				"results": results,
			})
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cache.CacheStats(r.Context()))
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if !s.orchestrator.Known(symbol) {
		writeError(w, http.StatusNotFound, "stock not found")
		return
	}
	s.cache.Invalidate(r.Context(), symbol)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Cache cleared for %s", symbol),
	})
}

func (s *Server) handleCacheClearAll(w http.ResponseWriter, r *http.Request) {
	for _, symbol := range s.orchestrator.Symbols() {
		s.cache.Invalidate(r.Context(), symbol)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "All cache cleared"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stocks, err := s.store.Symbols()
	if err != nil {
		log.Printf("[ERROR] health: %v", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	symbols := make([]string, len(stocks))
	for i, st := range stocks {
		symbols[i] = st.Symbol
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"stocks": symbols,
	})
}
