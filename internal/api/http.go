// Package api exposes a running accumulator over HTTP: read-only root and
// peak queries, single-leaf proof lookup, and leaf append. It is an
// optional embedding surface — nothing in internal/mmr depends on it.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/base/mmr-token-accumulator/internal/mmr"
	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/mux"
)

// Server wraps a live MMR behind a mutex: concurrent reads (root, peaks,
// proof) share the read lock, but Append takes the write lock and is
// serialized against everything else.
type Server struct {
	mu  sync.RWMutex
	mmr *mmr.MMR

	httpServer *http.Server
}

// NewServer wraps an already-constructed MMR. The accumulator must have
// at least one leaf; there is no empty MMR state to serve.
func NewServer(m *mmr.MMR) *Server {
	return &Server{mmr: m}
}

// Router builds the mux router for this server, exported separately from
// ListenAndServe so tests can exercise it with httptest without binding a
// real socket.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/root", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/peaks", s.handlePeaks).Methods(http.MethodGet)
	r.HandleFunc("/proof/{leafIndex}", s.handleProof).Methods(http.MethodGet)
	r.HandleFunc("/append", s.handleAppend).Methods(http.MethodPost)
	return r
}

// ListenAndServe starts the HTTP server on listenAddr. It blocks until the
// server stops, returning nil on a graceful Shutdown.
func (s *Server) ListenAndServe(listenAddr string) error {
	s.httpServer = &http.Server{
		Addr:    listenAddr,
		Handler: s.Router(),
	}

	log.Info("starting proof service", "listenAddr", listenAddr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("proof service listen: %w", err)
	}
	return nil
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	root := s.mmr.Root()
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]string{"root": root.String()})
}

func (s *Server) handlePeaks(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	peaks := s.mmr.Peaks()
	s.mu.RUnlock()

	out := make([]string, len(peaks))
	for i, p := range peaks {
		out[i] = p.String()
	}
	writeJSON(w, http.StatusOK, map[string][]string{"peaks": out})
}

func (s *Server) handleProof(w http.ResponseWriter, r *http.Request) {
	leafIndexStr := mux.Vars(r)["leafIndex"]
	leafIndex, err := strconv.ParseUint(leafIndexStr, 10, 64)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid leafIndex: %v", err), http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if leafIndex >= s.mmr.Leaves() {
		http.Error(w, "leafIndex out of range", http.StatusNotFound)
		return
	}

	proof := s.mmr.GenProof(leafIndex)
	log.Info("proof service generated proof", "leafIndex", leafIndex)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(proof); err != nil {
		log.Error("failed to encode proof", "error", err)
	}
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Item string `json:"item"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	item, err := mmr.NewItemFromDecimal(body.Item)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid item: %v", err), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.mmr.Append(item)
	leafIndex := s.mmr.Leaves() - 1
	proof := s.mmr.GenProof(leafIndex)
	s.mu.Unlock()

	log.Info("proof service appended leaf", "leafIndex", leafIndex)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(proof); err != nil {
		log.Error("failed to encode proof", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}
