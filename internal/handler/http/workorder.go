package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/torqsight/maintenance-backend-go/internal/access"
	"github.com/torqsight/maintenance-backend-go/internal/domain/workorder"
	"github.com/torqsight/maintenance-backend-go/internal/handler/http/response"
	workorderservice "github.com/torqsight/maintenance-backend-go/internal/service/workorder"
)

type WorkOrderHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type WorkOrderHandlerImpl struct {
	workOrderService workorderservice.Service
}

func NewWorkOrderHandler(workOrderService workorderservice.Service) WorkOrderHandler {
	return &WorkOrderHandlerImpl{workOrderService: workOrderService}
}

func toWorkOrderResponse(wo workorder.WorkOrder) workorder.WorkOrderResponse {
	resp := workorder.WorkOrderResponse{
		ID:              wo.ID,
		EquipmentID:     wo.EquipmentID,
		ClientCompanyID: wo.ClientCompanyID,
		Title:           wo.Title,
		Description:     wo.Description,
		Priority:        wo.Priority,
		Status:          wo.Status,
		AssignedUserID:  wo.AssignedUserID,
		CreatedAt:       wo.CreatedAt.Format(time.RFC3339),
	}
	if wo.DueAt != nil {
		due := wo.DueAt.Format(time.RFC3339)
		resp.DueAt = &due
	}
	return resp
}

// Create implements WorkOrderHandler.
func (h *WorkOrderHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	var createReq workorder.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Work order create decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	wo, err := h.workOrderService.Create(r.Context(), actor, createReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Work order created", toWorkOrderResponse(wo))
}

// List implements WorkOrderHandler.
func (h *WorkOrderHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	orders, err := h.workOrderService.List(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]workorder.WorkOrderResponse, 0, len(orders))
	for _, wo := range orders {
		result = append(result, toWorkOrderResponse(wo))
	}
	response.Success(w, result)
}

// Get implements WorkOrderHandler.
func (h *WorkOrderHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	wo, err := h.workOrderService.Get(r.Context(), actor, chi.URLParam(r, "workOrderID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toWorkOrderResponse(wo))
}

// Update implements WorkOrderHandler.
func (h *WorkOrderHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	var updateReq workorder.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Work order update decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	wo, err := h.workOrderService.Update(r.Context(), actor, chi.URLParam(r, "workOrderID"), updateReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toWorkOrderResponse(wo))
}

// Delete implements WorkOrderHandler.
func (h *WorkOrderHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	if err := h.workOrderService.Delete(r.Context(), actor, chi.URLParam(r, "workOrderID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Work order deleted", nil)
}
