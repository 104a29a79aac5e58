package companies

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/guidepost-hq/guidepost/internal/platform/httpx"
	"github.com/guidepost-hq/guidepost/internal/shared"
)

// Handler manages company endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers company routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listCompanies)
	r.Post("/", h.createCompany)
	r.Get("/{companyID}", h.getCompany)
}

type createCompanyRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

type companyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (h *Handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	list, err := h.service.ListCompanies(r.Context(), actor)
	if err != nil {
		h.respondError(w, "list companies", err)
		return
	}
	out := make([]companyResponse, 0, len(list))
	for _, c := range list {
		out = append(out, companyResponse{ID: c.ID, Name: c.Name})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"companies": out})
}

func (h *Handler) getCompany(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	company, err := h.service.GetCompany(r.Context(), actor, id)
	if err != nil {
		h.respondError(w, "get company", err)
		return
	}
	httpx.JSON(w, http.StatusOK, companyResponse{ID: company.ID, Name: company.Name})
}

func (h *Handler) createCompany(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req createCompanyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	company, err := h.service.CreateCompany(r.Context(), actor, req.Name)
	if err != nil {
		h.respondError(w, "create company", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, companyResponse{ID: company.ID, Name: company.Name})
}

func (h *Handler) respondError(w http.ResponseWriter, action string, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if !errors.Is(err, httpx.ErrForbidden) && !errors.Is(err, httpx.ErrValidation) {
		h.logger.Error(action, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
