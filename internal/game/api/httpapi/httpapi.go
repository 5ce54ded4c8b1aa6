// Package httpapi exposes the action router as a thin JSON transport. It
// owns no game semantics: requests name an action, responses carry the
// ordered message sequence the action produced.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/tianji-games/ascension/internal/game/actions"
	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
)

// ActionRequest is the JSON body of an action invocation.
type ActionRequest struct {
	UserID string            `json:"user_id"`
	Args   map[string]string `json:"args,omitempty"`
}

// ActionResponse carries one action's ordered output lines.
type ActionResponse struct {
	Messages []string `json:"messages"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody names the failure code and message.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// New builds the HTTP mux serving the game action API.
func New(router *actions.Router) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /v1/actions/{action}", func(w http.ResponseWriter, r *http.Request) {
		var req ActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, apperrors.CodeInvalidState, "request body must be valid JSON", nil)
			return
		}
		if req.UserID == "" {
			writeError(w, http.StatusBadRequest, apperrors.CodeInvalidState, "user_id is required", nil)
			return
		}

		action := r.PathValue("action")
		messages, err := router.Dispatch(r.Context(), action, actions.Request{UserID: req.UserID, Args: req.Args})
		if err != nil {
			writeActionError(w, err)
			return
		}

		lines := make([]string, len(messages))
		for i, message := range messages {
			lines[i] = string(message)
		}
		writeJSON(w, http.StatusOK, ActionResponse{Messages: lines})
	})
	return mux
}

// writeActionError maps action failures onto HTTP statuses. User-correctable
// codes normally surface as messages upstream; anything arriving here is
// either a missing route or an internal fault.
func writeActionError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch {
	case code == apperrors.CodeNotFound:
		status = http.StatusNotFound
	case code.UserFacing():
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		log.Printf("action failed: %v", err)
	}

	var details map[string]string
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		details = appErr.Metadata
	}
	writeError(w, status, code, publicMessage(status, err), details)
}

func publicMessage(status int, err error) string {
	if status == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

func writeError(w http.ResponseWriter, status int, code apperrors.Code, message string, details map[string]string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{Code: string(code), Message: message, Details: details}})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}
