package controllers

import (
	"net/http"

	"github.com/brazzaeats/brazzaeats-backend/api/middleware"
	"github.com/brazzaeats/brazzaeats-backend/api/responses"
	"github.com/brazzaeats/brazzaeats-backend/api/validators"
	"github.com/brazzaeats/brazzaeats-backend/internal/checkout"
	"github.com/brazzaeats/brazzaeats-backend/pkg/enums"
	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
	"github.com/brazzaeats/brazzaeats-backend/pkg/logger"
)

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=MOBILE_MONEY AIRTEL_MONEY"`
}

// Checkout turns the session cart into an order.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), middleware.SessionIDFromContext(r.Context()), checkout.Input{
			PaymentMethod: enums.PaymentMethod(payload.PaymentMethod),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
