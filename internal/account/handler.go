// AngelaMos | 2026
// handler.go

package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/angelamos/referral-service/internal/core"
	"github.com/angelamos/referral-service/internal/middleware"
	"github.com/angelamos/referral-service/internal/referral"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Post("/register", h.Register)
	r.Post("/token", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/referrals", h.ListReferrals)
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailExists):
			core.JSONError(w, core.DuplicateError("email"))
		case errors.Is(err, referral.ErrCodeInvalid):
			core.BadRequest(w, "invalid referral code")
		case errors.Is(err, referral.ErrCodeExpired):
			core.BadRequest(w, "referral code expired")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, resp)
}

// Login accepts OAuth2-password-style form credentials.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		core.BadRequest(w, "invalid form body")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		core.BadRequest(w, "username and password are required")
		return
	}

	resp, err := h.service.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.BadRequest(w, "invalid credentials")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) ListReferrals(w http.ResponseWriter, r *http.Request) {
	referrerID := r.URL.Query().Get("referrer_id")
	if referrerID == "" {
		referrerID = middleware.GetAccountID(r.Context())
	} else if _, err := uuid.Parse(referrerID); err != nil {
		core.BadRequest(w, "invalid referrer_id")
		return
	}

	if referrerID == "" {
		core.Unauthorized(w, "")
		return
	}

	referees, err := h.service.ListReferrals(r.Context(), referrerID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, referees)
}
