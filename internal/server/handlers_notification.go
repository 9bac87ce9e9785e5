package server

import (
	"errors"
	"net/http"

	"gitlab.com/spendwatch/spendwatch/internal/models"
	"gitlab.com/spendwatch/spendwatch/internal/repository"
)

type unreadResponse struct {
	Success     bool                  `json:"success"`
	Count       int                   `json:"count"`
	TotalUnread int                   `json:"totalUnread"`
	Data        []models.Notification `json:"data"`
}

// handleUnreadNotifications returns the newest unread notifications (capped)
// plus the full unread count.
func (s *Server) handleUnreadNotifications(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	notifications, err := s.notifications.GetUnreadByUser(r.Context(), userID, repository.DefaultUnreadLimit)
	if err != nil {
		respondInternal(w, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	total, err := s.notifications.CountUnread(r.Context(), userID)
	if err != nil {
		respondInternal(w, err)
		return
	}

	writeJSON(w, http.StatusOK, unreadResponse{
		Success:     true,
		Count:       len(notifications),
		TotalUnread: total,
		Data:        notifications,
	})
}

// handleMarkRead marks one owned notification as read.
func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, codeNotFound, "notification not found")
		return
	}

	if err := s.notifications.MarkRead(r.Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "notification not found or not authorized")
			return
		}
		respondInternal(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}

// handleMarkAllRead marks every unread notification of the user as read.
func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	updated, err := s.notifications.MarkAllRead(r.Context(), userID)
	if err != nil {
		respondInternal(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"message": "all notifications marked as read",
		"updated": updated,
	})
}
