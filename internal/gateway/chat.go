package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/todoevolve/server/internal/store"
)

type chatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

// handleChat runs the tool-calling loop for one message. Internal failures
// never surface as HTTP errors: the user always gets a chat-shaped answer.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}
	if req.Language == "" {
		req.Language = "en"
	}

	uid := userID(r)
	if !s.chatLimiter.Allow(uid) {
		writeError(w, http.StatusTooManyRequests, "Too many chat requests, slow down")
		return
	}

	reply, err := s.engine.Send(r.Context(), uid, req.Message, req.Language)
	if err != nil {
		s.logger.Error("chat loop failed", "error", err, "user_id", uid)
		s.metrics.ChatRequests.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusOK, map[string]any{
			"response": "Sorry, I encountered an error. Please try again.",
		})
		return
	}

	s.metrics.ChatRequests.WithLabelValues("ok").Inc()
	s.metrics.ProviderResults.WithLabelValues(reply.Model).Inc()
	if reply.Tool != "" {
		s.metrics.ToolExecutions.WithLabelValues(reply.Tool).Inc()
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.store.History.List(r.Context(), userID(r), 0)
	if err != nil {
		s.logger.Error("history fetch failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	if msgs == nil {
		msgs = []*store.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) handleClearChatHistory(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.History.Clear(r.Context(), userID(r)); err != nil {
		s.logger.Error("history clear failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to clear history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat history cleared"})
}
