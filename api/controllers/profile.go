package controllers

import (
	"net/http"

	"github.com/brazzaeats/brazzaeats-backend/api/middleware"
	"github.com/brazzaeats/brazzaeats-backend/api/responses"
	"github.com/brazzaeats/brazzaeats-backend/api/validators"
	"github.com/brazzaeats/brazzaeats-backend/internal/catalog"
	"github.com/brazzaeats/brazzaeats-backend/internal/profile"
	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
	"github.com/brazzaeats/brazzaeats-backend/pkg/logger"
)

const (
	maxProfileFieldLength = 120
	maxRecommendations    = 20
)

type profileUpdateRequest struct {
	Name   *string `json:"name" validate:"omitempty,max=120"`
	Phone  *string `json:"phone" validate:"omitempty,max=32"`
	Email  *string `json:"email" validate:"omitempty,max=120"`
	Avatar *string `json:"avatar" validate:"omitempty,max=512"`
}

func (p profileUpdateRequest) toUpdate() profile.Update {
	return profile.Update{
		Name:   validators.SanitizeOptional(p.Name, maxProfileFieldLength),
		Phone:  validators.SanitizeOptional(p.Phone, maxProfileFieldLength),
		Email:  validators.SanitizeOptional(p.Email, maxProfileFieldLength),
		Avatar: p.Avatar,
	}
}

type preferencesRequest struct {
	Preferences []string `json:"preferences" validate:"max=20,dive,max=40"`
}

func GetProfile(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}
		account, err := svc.Get(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, account)
	}
}

// UpdateProfile applies a partial update; omitted fields are left alone.
func UpdateProfile(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}
		var payload profileUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		account, err := svc.Update(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.toUpdate())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, account)
	}
}

// SetPreferences stores the onboarding tags picked by the user.
func SetPreferences(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}
		var payload preferencesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		account, err := svc.SetPreferences(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.Preferences)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, account)
	}
}

// Recommendations suggests dishes matching the profile preferences.
func Recommendations(profiles profile.Service, dishes catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if profiles == nil || dishes == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recommendation services unavailable"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", catalog.DefaultRecommendationLimit, 1, maxRecommendations)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		account, err := profiles.Get(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listings, err := dishes.Recommend(r.Context(), account.Profile.Preferences, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"preferences": account.Profile.Preferences,
			"dishes":      listings,
		})
	}
}

// Login signs the session in with the supplied profile data.
func Login(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}
		var payload profileUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		account, err := svc.Login(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.toUpdate())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, account)
	}
}

// Logout resets the profile. The cart and order history stay with the session.
func Logout(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}
		account, err := svc.Logout(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, account)
	}
}
