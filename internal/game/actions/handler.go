package actions

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/tianji-games/ascension/internal/game/storage"
	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
)

// Message is one user-visible output line. Actions produce an ordered, finite
// sequence of messages; the transport drains them in order.
type Message string

// Request carries one action invocation.
type Request struct {
	UserID string
	Args   map[string]string
}

// Arg returns a named argument, empty when absent.
func (r Request) Arg(key string) string {
	return r.Args[key]
}

// IntArg parses a named integer argument, returning fallback when absent and
// INVALID_STATE when malformed.
func (r Request) IntArg(key string, fallback int64) (int64, error) {
	raw, ok := r.Args[key]
	if !ok || raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.WithMetadata(apperrors.CodeInvalidState,
			"argument must be a whole number", map[string]string{"argument": key, "value": raw})
	}
	return value, nil
}

// Handler executes one action.
type Handler interface {
	Handle(ctx context.Context, req Request) ([]Message, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req Request) ([]Message, error)

func (f HandlerFunc) Handle(ctx context.Context, req Request) ([]Message, error) {
	return f(ctx, req)
}

// Middleware wraps a handler with cross-cutting behavior.
type Middleware func(Handler) Handler

// Chain applies middleware so the first listed runs outermost.
func Chain(h Handler, mw ...Middleware) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// RequirePlayer rejects invocations from users without a player record,
// producing the onboarding hint instead of escalating NOT_FOUND.
func RequirePlayer(store storage.Store) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
			if _, err := store.GetPlayerByUser(ctx, req.UserID); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return []Message{"You have not begun cultivating. Start your journey first."}, nil
				}
				return nil, err
			}
			return next.Handle(ctx, req)
		})
	}
}

// ConvertUserErrors turns user-correctable error codes into failure messages.
// Internal failures pass through untouched.
func ConvertUserErrors() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
			messages, err := next.Handle(ctx, req)
			if err == nil {
				return messages, nil
			}
			if apperrors.CodeOf(err).UserFacing() {
				return []Message{Message(userMessage(err))}, nil
			}
			return nil, err
		})
	}
}

// RetryConflict retries a handler exactly once when the storage layer
// reports a write conflict.
func RetryConflict() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
			messages, err := next.Handle(ctx, req)
			if err == nil || apperrors.CodeOf(err) != apperrors.CodePersistenceConflict {
				return messages, err
			}
			return next.Handle(ctx, req)
		})
	}
}

// LogAction logs every invocation and its outcome with the process logger.
func LogAction(name string) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
			messages, err := next.Handle(ctx, req)
			if err != nil {
				log.Printf("action %s user=%s error: %v", name, req.UserID, err)
				return messages, err
			}
			log.Printf("action %s user=%s messages=%d", name, req.UserID, len(messages))
			return messages, nil
		})
	}
}

func userMessage(err error) string {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
