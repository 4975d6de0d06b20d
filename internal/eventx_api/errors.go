package eventx_api

import (
	"errors"
	"net/http"

	"eventx/internal/engine"
	"eventx/internal/utils"
)

// writeEngineError maps the engine's error taxonomy onto HTTP status codes.
// Every engine failure is terminal for its operation, so nothing here retries.
func (h *Handler) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, engine.ErrNotInitialized):
		status = http.StatusServiceUnavailable
	case errors.Is(err, engine.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, engine.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrEventNotActive),
		errors.Is(err, engine.ErrSoldOut),
		errors.Is(err, engine.ErrAlreadyCancelled),
		errors.Is(err, engine.ErrNotOwner),
		errors.Is(err, engine.ErrTicketUsed),
		errors.Is(err, engine.ErrTicketRefunded),
		errors.Is(err, engine.ErrEventCancelled):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.Logger.Error("API", err.Error())
	}

	utils.WriteJSON(w, r, status, utils.ErrorResponse("operation rejected", err.Error()))
}
