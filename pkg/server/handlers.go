package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Nuccino92/food-helper/pkg/logger"
	"github.com/Nuccino92/food-helper/pkg/quota"
)

type feedbackRequest struct {
	Score          int    `json:"score"`
	SessionContext string `json:"sessionContext,omitempty"`
}

type feedbackResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	NewRemaining int64  `json:"newRemaining"`
}

// handleStatus returns the caller's current quota projection. An active
// abuse lock overrides the budget view.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identifier := identify(r)

	status := s.limiter.Status(ctx, identifier)
	lock := s.limiter.CheckLock(ctx, identifier)

	writeJSON(w, http.StatusOK, quota.ProjectStatus(status, lock, time.Now()))
}

// handleFeedback records an NPS score and grants the per-window token
// bonus. Locked callers cannot earn tokens back through feedback.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identifier := identify(r)

	if lock := s.limiter.CheckLock(ctx, identifier); lock.Locked {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"success": false,
			"message": "Feedback is unavailable during a lockout.",
		})
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if err := s.limiter.StoreFeedback(ctx, identifier, req.Score, req.SessionContext); err != nil {
		if errors.Is(err, quota.ErrInvalidScore) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "Score must be a number between 0 and 10",
			})
			return
		}
		logger.GetLogger().Error("failed to store feedback", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Failed to process feedback",
		})
		return
	}

	result := s.limiter.Grant(ctx, identifier)
	writeJSON(w, http.StatusOK, feedbackResponse{
		Success:      result.Success,
		Message:      result.Message,
		NewRemaining: result.NewRemaining,
	})
}
