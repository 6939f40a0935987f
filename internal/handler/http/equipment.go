package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/torqsight/maintenance-backend-go/internal/access"
	"github.com/torqsight/maintenance-backend-go/internal/domain/equipment"
	"github.com/torqsight/maintenance-backend-go/internal/handler/http/response"
	equipmentservice "github.com/torqsight/maintenance-backend-go/internal/service/equipment"
)

type EquipmentHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type EquipmentHandlerImpl struct {
	equipmentService equipmentservice.Service
}

func NewEquipmentHandler(equipmentService equipmentservice.Service) EquipmentHandler {
	return &EquipmentHandlerImpl{equipmentService: equipmentService}
}

func toEquipmentResponse(e equipment.Equipment) equipment.EquipmentResponse {
	return equipment.EquipmentResponse{
		ID:              e.ID,
		Name:            e.Name,
		AssetTag:        e.AssetTag,
		Location:        e.Location,
		Status:          e.Status,
		ClientCompanyID: e.ClientCompanyID,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
	}
}

// Create implements EquipmentHandler.
func (h *EquipmentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	var createReq equipment.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Equipment create decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	e, err := h.equipmentService.Create(r.Context(), actor, createReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Equipment created", toEquipmentResponse(e))
}

// List implements EquipmentHandler.
func (h *EquipmentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	items, err := h.equipmentService.List(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]equipment.EquipmentResponse, 0, len(items))
	for _, e := range items {
		result = append(result, toEquipmentResponse(e))
	}
	response.Success(w, result)
}

// Get implements EquipmentHandler.
func (h *EquipmentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	e, err := h.equipmentService.Get(r.Context(), actor, chi.URLParam(r, "equipmentID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toEquipmentResponse(e))
}

// Update implements EquipmentHandler.
func (h *EquipmentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	var updateReq equipment.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Equipment update decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	e, err := h.equipmentService.Update(r.Context(), actor, chi.URLParam(r, "equipmentID"), updateReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toEquipmentResponse(e))
}

// Delete implements EquipmentHandler.
func (h *EquipmentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	if err := h.equipmentService.Delete(r.Context(), actor, chi.URLParam(r, "equipmentID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Equipment deleted", nil)
}
