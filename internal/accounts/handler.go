package accounts

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/guidepost-hq/guidepost/internal/authz"
	"github.com/guidepost-hq/guidepost/internal/platform/httpx"
	"github.com/guidepost-hq/guidepost/internal/shared"
)

// Handler manages the company roster endpoints. Owner pages and guide
// pages share the same flow; only the stamped role tag differs.
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

// MountRoutes registers roster routes nested under a company.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/{companyID}/owners", func(r chi.Router) {
		h.mountRoster(r, authz.RoleCompanyOwner)
	})
	r.Route("/{companyID}/guides", func(r chi.Router) {
		h.mountRoster(r, authz.RoleGuide)
	})
}

func (h *Handler) mountRoster(r chi.Router, role authz.Role) {
	r.Get("/", h.list(role))
	r.Post("/", h.create(role))
	r.Put("/{accountID}", h.update)
	r.Delete("/{accountID}", h.delete)
	r.Delete("/{accountID}/purge", h.purge)
}

type createAccountRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type updateAccountRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=120"`
	Email string `json:"email" validate:"required,email"`
}

type accountResponse struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"company_id"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

func toResponse(a Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		CompanyID: a.CompanyID,
		Role:      a.Role.DisplayName(),
		Name:      a.Name,
		Email:     a.Email,
	}
}

func (h *Handler) list(role authz.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, companyID, ok := h.requestScope(w, r)
		if !ok {
			return
		}
		accounts, err := h.service.ListAccounts(r.Context(), actor, companyID, role)
		if err != nil {
			h.respondError(w, "list accounts", err)
			return
		}
		out := make([]accountResponse, 0, len(accounts))
		for _, a := range accounts {
			out = append(out, toResponse(a))
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"accounts": out})
	}
}

func (h *Handler) create(role authz.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, companyID, ok := h.requestScope(w, r)
		if !ok {
			return
		}
		var req createAccountRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.RespondError(w, httpx.ErrValidation)
			return
		}
		if err := h.validator.Struct(req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		account, err := h.service.CreateAccount(r.Context(), actor, companyID, role, NewAccount{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			h.respondError(w, "create account", err)
			return
		}
		httpx.JSON(w, http.StatusCreated, toResponse(account))
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, companyID, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}
	var req updateAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	account, err := h.service.UpdateAccount(r.Context(), actor, companyID, accountID, AccountUpdate{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.respondError(w, "update account", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(account))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actor, companyID, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteAccount(r.Context(), actor, companyID, accountID); err != nil {
		h.respondError(w, "delete account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) purge(w http.ResponseWriter, r *http.Request) {
	actor, companyID, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}
	if err := h.service.PurgeAccount(r.Context(), actor, companyID, accountID); err != nil {
		h.respondError(w, "purge account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) requestScope(w http.ResponseWriter, r *http.Request) (authz.Actor, int64, bool) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return authz.Actor{}, 0, false
	}
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil || companyID <= 0 {
		httpx.RespondError(w, httpx.ErrNotFound)
		return authz.Actor{}, 0, false
	}
	return actor, companyID, true
}

func (h *Handler) accountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	accountID, err := strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
	if err != nil || accountID <= 0 {
		httpx.RespondError(w, httpx.ErrNotFound)
		return 0, false
	}
	return accountID, true
}

func (h *Handler) respondError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		// Out-of-company targets resolve to not-found; existence of
		// records in other companies is never leaked.
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, shared.ErrDuplicateEmail):
		httpx.RespondError(w, httpx.ErrDuplicate)
	case errors.Is(err, httpx.ErrForbidden), errors.Is(err, httpx.ErrNotImplemented), errors.Is(err, httpx.ErrValidation):
		httpx.RespondError(w, err)
	default:
		h.logger.Error(action, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
