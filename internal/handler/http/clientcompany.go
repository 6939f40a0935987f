package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/torqsight/maintenance-backend-go/internal/access"
	"github.com/torqsight/maintenance-backend-go/internal/domain/clientcompany"
	"github.com/torqsight/maintenance-backend-go/internal/handler/http/response"
	clientcompanyservice "github.com/torqsight/maintenance-backend-go/internal/service/clientcompany"
)

type ClientCompanyHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type ClientCompanyHandlerImpl struct {
	clientService clientcompanyservice.Service
}

func NewClientCompanyHandler(clientService clientcompanyservice.Service) ClientCompanyHandler {
	return &ClientCompanyHandlerImpl{clientService: clientService}
}

func toClientCompanyResponse(cc clientcompany.ClientCompany) clientcompany.ClientCompanyResponse {
	return clientcompany.ClientCompanyResponse{
		ID:           cc.ID,
		Name:         cc.Name,
		ContactEmail: cc.ContactEmail,
		CreatedAt:    cc.CreatedAt.Format(time.RFC3339),
	}
}

// Create implements ClientCompanyHandler.
func (h *ClientCompanyHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	var createReq clientcompany.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Client company create decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	cc, err := h.clientService.Create(r.Context(), actor, createReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Client company created", toClientCompanyResponse(cc))
}

// List implements ClientCompanyHandler.
func (h *ClientCompanyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	clients, err := h.clientService.List(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]clientcompany.ClientCompanyResponse, 0, len(clients))
	for _, cc := range clients {
		result = append(result, toClientCompanyResponse(cc))
	}
	response.Success(w, result)
}

// Get implements ClientCompanyHandler.
func (h *ClientCompanyHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	cc, err := h.clientService.Get(r.Context(), actor, chi.URLParam(r, "clientID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toClientCompanyResponse(cc))
}

// Update implements ClientCompanyHandler.
func (h *ClientCompanyHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	var updateReq clientcompany.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Client company update decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	cc, err := h.clientService.Update(r.Context(), actor, chi.URLParam(r, "clientID"), updateReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toClientCompanyResponse(cc))
}

// Delete implements ClientCompanyHandler.
func (h *ClientCompanyHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	if err := h.clientService.Delete(r.Context(), actor, chi.URLParam(r, "clientID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Client company deleted", nil)
}
