// AngelaMos | 2026
// handler.go

package referral

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/referral-service/internal/core"
	"github.com/angelamos/referral-service/internal/middleware"
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
	r.Get("/referral-code", h.GetByEmail)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/referral-code", h.Create)
		r.Delete("/referral-code", h.Deactivate)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetAccountID(r.Context())
	if ownerID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req CreateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	code, err := h.service.Generate(r.Context(), ownerID, req.Expiry)
	if err != nil {
		if errors.Is(err, ErrActiveCodeExists) {
			core.BadRequest(w, "active referral code already exists")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToCodeResponse(code))
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetAccountID(r.Context())
	if ownerID == "" {
		core.Unauthorized(w, "")
		return
	}

	if err := h.service.Deactivate(r.Context(), ownerID); err != nil {
		if errors.Is(err, ErrNoActiveCode) {
			core.JSONError(w, core.NotFoundError("no active referral code found"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, DetailResponse{Detail: "referral code deactivated"})
}

func (h *Handler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		core.BadRequest(w, "email query parameter is required")
		return
	}

	code, err := h.service.GetByOwnerEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.JSONError(w, core.NotFoundError("account not found"))
			return
		}
		if errors.Is(err, ErrNoActiveCode) {
			core.JSONError(w, core.NotFoundError(
				"no active referral code for this account",
			))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToCodeResponse(code))
}
