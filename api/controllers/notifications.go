package controllers

import (
	"net/http"

	"github.com/brazzaeats/brazzaeats-backend/api/middleware"
	"github.com/brazzaeats/brazzaeats-backend/api/responses"
	"github.com/brazzaeats/brazzaeats-backend/api/validators"
	"github.com/brazzaeats/brazzaeats-backend/internal/notifications"
	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
	"github.com/brazzaeats/brazzaeats-backend/pkg/logger"
)

// ListNotifications returns the session inbox, newest first, with the unread count.
func ListNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}
		listing, err := svc.List(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

func MarkNotificationRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}
		id, err := validators.PathParam(r, "notificationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		note, err := svc.MarkRead(r.Context(), middleware.SessionIDFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, note)
	}
}
