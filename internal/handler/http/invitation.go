package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/torqsight/maintenance-backend-go/internal/access"
	"github.com/torqsight/maintenance-backend-go/internal/domain/invitation"
	"github.com/torqsight/maintenance-backend-go/internal/handler/http/response"
	invitationservice "github.com/torqsight/maintenance-backend-go/internal/service/invitation"
)

type InvitationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Preview(w http.ResponseWriter, r *http.Request)
	Accept(w http.ResponseWriter, r *http.Request)
	Revoke(w http.ResponseWriter, r *http.Request)
	Resend(w http.ResponseWriter, r *http.Request)
}

type InvitationHandlerImpl struct {
	invitationService invitationservice.Service
}

func NewInvitationHandler(invitationService invitationservice.Service) InvitationHandler {
	return &InvitationHandlerImpl{invitationService: invitationService}
}

func toInvitationResponse(inv invitation.Invitation) invitation.InvitationResponse {
	return invitation.InvitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		Role:      inv.Role,
		Status:    string(inv.EffectiveStatus()),
		ExpiresAt: inv.ExpiresAt.Format(time.RFC3339),
		CreatedAt: inv.CreatedAt.Format(time.RFC3339),
	}
}

// Create implements InvitationHandler.
func (h *InvitationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	var createReq invitation.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Invitation create decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	inv, err := h.invitationService.Create(r.Context(), actor, createReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Invitation sent", toInvitationResponse(inv))
}

// List implements InvitationHandler.
func (h *InvitationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	invitations, err := h.invitationService.List(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]invitation.InvitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		result = append(result, toInvitationResponse(inv))
	}
	response.Success(w, result)
}

// ListMine implements InvitationHandler. Pending invitations addressed to the
// authenticated user's email, for the onboarding screen.
func (h *InvitationHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	invitations, err := h.invitationService.ListMine(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]invitation.MyInvitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		result = append(result, invitation.MyInvitationResponse{
			Token:       inv.Token,
			CompanyName: inv.CompanyName,
			Role:        inv.Role,
			InviterName: inv.InviterName,
			ExpiresAt:   inv.ExpiresAt.Format(time.RFC3339),
			CreatedAt:   inv.CreatedAt.Format(time.RFC3339),
		})
	}
	response.Success(w, result)
}

// Preview implements InvitationHandler. Unauthenticated token lookup for the
// accept page.
func (h *InvitationHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	d, err := h.invitationService.Preview(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]string{
		"company_name": d.CompanyName,
		"role":         d.Role,
		"email":        d.Email,
		"expires_at":   d.ExpiresAt.Format(time.RFC3339),
	})
}

// Accept implements InvitationHandler.
func (h *InvitationHandlerImpl) Accept(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	d, err := h.invitationService.Accept(r.Context(), actor, chi.URLParam(r, "token"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, invitation.AcceptResponse{
		Message:     "Invitation accepted",
		CompanyID:   d.CompanyID,
		CompanyName: d.CompanyName,
		Role:        d.Role,
	})
}

// Revoke implements InvitationHandler.
func (h *InvitationHandlerImpl) Revoke(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	if err := h.invitationService.Revoke(r.Context(), actor, chi.URLParam(r, "invitationID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Invitation revoked", nil)
}

// Resend implements InvitationHandler.
func (h *InvitationHandlerImpl) Resend(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	if err := h.invitationService.Resend(r.Context(), actor, chi.URLParam(r, "invitationID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Invitation resent", nil)
}
