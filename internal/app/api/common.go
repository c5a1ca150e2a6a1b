package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// Authentication itself lives outside this service: the upstream gateway is
// trusted to resolve the user and forward the identity in these headers.
const (
	headerOwnerID       = "X-Owner-Id"
	headerOwnerEmail    = "X-Owner-Email"
	headerOwnerTelegram = "X-Owner-Telegram-Chat"
)

type errorResponse struct {
	Error string `json:"error"`
}

func ownerFromRequest(r *http.Request) (models.Owner, error) {
	owner := models.Owner{
		ID:    r.Header.Get(headerOwnerID),
		Email: r.Header.Get(headerOwnerEmail),
	}

	if value := r.Header.Get(headerOwnerTelegram); value != "" {
		chatID, err := cast.ToInt64E(value)
		if err != nil {
			return owner, fmt.Errorf("%w: header %s: %v", models.ErrInvalidInput, headerOwnerTelegram, err)
		}

		owner.TelegramChatID = lo.ToPtr(chatID)
	}

	return owner, nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("api: response encode failed: %v", err)
	}
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusForError(err), errorResponse{Error: err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized

	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest

	case errors.Is(err, models.ErrInvalidSnapshot):
		return http.StatusUnprocessableEntity

	case errors.Is(err, models.ErrExtractionFailed):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.
			WithFields(log.Fields{
				"request.method": r.Method,
				"request.path":   r.URL.Path,
			}).
			Info("api request")

		next.ServeHTTP(w, r)
	})
}
