package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/torqsight/maintenance-backend-go/internal/access"
	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
	"github.com/torqsight/maintenance-backend-go/internal/handler/http/response"
	userservice "github.com/torqsight/maintenance-backend-go/internal/service/user"
)

type UserHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ChangeRole(w http.ResponseWriter, r *http.Request)
	Remove(w http.ResponseWriter, r *http.Request)
	Bind(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type UserHandlerImpl struct {
	userService userservice.Service
}

func NewUserHandler(userService userservice.Service) UserHandler {
	return &UserHandlerImpl{userService: userService}
}

func toMemberResponse(u user.User) user.MemberResponse {
	return user.MemberResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// Me implements UserHandler.
func (h *UserHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	u, err := h.userService.Me(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := map[string]interface{}{
		"id":        u.ID,
		"email":     u.Email,
		"full_name": u.FullName,
		"role":      u.Role,
	}
	if u.CompanyID != nil {
		resp["company_id"] = *u.CompanyID
	}
	if u.PlatformRole != nil {
		resp["platform_role"] = *u.PlatformRole
	}
	response.Success(w, resp)
}

// List implements UserHandler.
func (h *UserHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	members, err := h.userService.ListMembers(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]user.MemberResponse, 0, len(members))
	for _, m := range members {
		result = append(result, toMemberResponse(m))
	}
	response.Success(w, result)
}

// Get implements UserHandler.
func (h *UserHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	u, err := h.userService.GetMember(r.Context(), actor, chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toMemberResponse(u))
}

// ChangeRole implements UserHandler.
func (h *UserHandlerImpl) ChangeRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	var roleReq user.ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&roleReq); err != nil {
		slog.Error("ChangeRole decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	roleReq.UserID = chi.URLParam(r, "userID")

	u, err := h.userService.ChangeRole(r.Context(), actor, roleReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Role updated", toMemberResponse(u))
}

// Remove implements UserHandler.
func (h *UserHandlerImpl) Remove(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	if err := h.userService.RemoveMember(r.Context(), actor, chi.URLParam(r, "userID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Member removed", nil)
}

// Bind implements UserHandler. Platform operations surface.
func (h *UserHandlerImpl) Bind(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	var bindReq user.BindRequest
	if err := json.NewDecoder(r.Body).Decode(&bindReq); err != nil {
		slog.Error("Bind decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	bindReq.UserID = chi.URLParam(r, "userID")

	u, err := h.userService.BindToCompany(r.Context(), actor, bindReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User bound to company", toMemberResponse(u))
}

// Delete implements UserHandler. Platform operations surface.
func (h *UserHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(r)
	if !ok {
		response.HandleError(w, access.ErrUnauthenticated)
		return
	}

	if err := h.userService.DeleteAccount(r.Context(), actor, chi.URLParam(r, "userID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Account deleted", nil)
}
