package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/brazzaeats/brazzaeats-backend/api/middleware"
	"github.com/brazzaeats/brazzaeats-backend/api/responses"
	"github.com/brazzaeats/brazzaeats-backend/internal/session"
	pkgAuth "github.com/brazzaeats/brazzaeats-backend/pkg/auth"
	"github.com/brazzaeats/brazzaeats-backend/pkg/config"
	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
	"github.com/brazzaeats/brazzaeats-backend/pkg/logger"
)

// SessionStore is the part of the session manager the session endpoints need.
type SessionStore interface {
	Create(ctx context.Context) (session.Snapshot, error)
	Get(ctx context.Context, id string) (session.Snapshot, error)
	Delete(ctx context.Context, id string) error
}

type sessionCreatedResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Session   session.Snapshot `json:"session"`
}

// CreateSession starts an anonymous session and returns its signed token.
func CreateSession(store SessionStore, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session store unavailable"))
			return
		}

		snap, err := store.Create(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		now := time.Now().UTC()
		token, err := pkgAuth.MintSessionToken(cfg, now, snap.ID)
		if err != nil {
			if delErr := store.Delete(r.Context(), snap.ID); delErr != nil && logg != nil {
				logg.Error(logg.WithSessionID(r.Context(), snap.ID), "session.cleanup_failed", delErr)
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token"))
			return
		}

		if logg != nil {
			logg.Info(logg.WithSessionID(r.Context(), snap.ID), "session.created")
		}
		w.Header().Set(middleware.SessionHeader, token)
		responses.WriteSuccessStatus(w, http.StatusCreated, sessionCreatedResponse{
			Token:     token,
			ExpiresAt: now.Add(cfg.TTL()),
			Session:   snap,
		})
	}
}

// CurrentSession returns the full snapshot of the calling session.
func CurrentSession(store SessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session store unavailable"))
			return
		}
		snap, err := store.Get(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// EndSession discards the calling session.
func EndSession(store SessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session store unavailable"))
			return
		}
		if err := store.Delete(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
