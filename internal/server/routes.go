package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	reply, sid, err := s.engine.Respond(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.log.Error("chat request failed",
			zap.String("session_id", req.SessionID),
			zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to generate a reply"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, SessionID: sid})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.turns == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session log is disabled"})
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	turns, err := s.turns.History(r.Context(), sessionID)
	if err != nil {
		s.log.Error("history lookup failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load history"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"turns":      turns,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
