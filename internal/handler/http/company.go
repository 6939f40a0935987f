package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/torqsight/maintenance-backend-go/internal/access"
	"github.com/torqsight/maintenance-backend-go/internal/domain/company"
	"github.com/torqsight/maintenance-backend-go/internal/handler/http/response"
	companyservice "github.com/torqsight/maintenance-backend-go/internal/service/company"
)

type CompanyHandler interface {
	Onboard(w http.ResponseWriter, r *http.Request)
	GetMy(w http.ResponseWriter, r *http.Request)
	UpdateMy(w http.ResponseWriter, r *http.Request)
	Licenses(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	companyService companyservice.Service
}

func NewCompanyHandler(companyService companyservice.Service) CompanyHandler {
	return &CompanyHandlerImpl{companyService: companyService}
}

func toCompanyResponse(c company.Company) company.CompanyResponse {
	return company.CompanyResponse{
		ID:                 c.ID,
		Name:               c.Name,
		SubscriptionStatus: string(c.SubscriptionStatus),
		CreatedAt:          c.CreatedAt.Format(time.RFC3339),
	}
}

// Onboard implements CompanyHandler.
func (h *CompanyHandlerImpl) Onboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	var onboardReq company.OnboardRequest
	if err := json.NewDecoder(r.Body).Decode(&onboardReq); err != nil {
		slog.Error("Onboard decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	c, err := h.companyService.Onboard(r.Context(), actor, onboardReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Company created", toCompanyResponse(c))
}

// GetMy implements CompanyHandler.
func (h *CompanyHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	c, err := h.companyService.Get(r.Context(), actor, actor.Tenant())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toCompanyResponse(c))
}

// UpdateMy implements CompanyHandler.
func (h *CompanyHandlerImpl) UpdateMy(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	var updateReq company.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("UpdateMy decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	c, err := h.companyService.Update(r.Context(), actor, actor.Tenant(), updateReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toCompanyResponse(c))
}

// Licenses implements CompanyHandler.
func (h *CompanyHandlerImpl) Licenses(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	usage, err := h.companyService.Licenses(r.Context(), actor, actor.Tenant())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, usage)
}

// List implements CompanyHandler. Platform operations surface.
func (h *CompanyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	companies, err := h.companyService.List(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]company.CompanyResponse, 0, len(companies))
	for _, c := range companies {
		result = append(result, toCompanyResponse(c))
	}
	response.Success(w, result)
}

// GetByID implements CompanyHandler. Platform operations surface.
func (h *CompanyHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	c, err := h.companyService.Get(r.Context(), actor, chi.URLParam(r, "companyID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toCompanyResponse(c))
}
