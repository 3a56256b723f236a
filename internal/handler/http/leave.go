package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/leave"
	"github.com/cmlabs-hris/hris-admin-console/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-admin-console/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	State(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	CleanupOrphans(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	sessions leave.ReconcilerSessions
}

func NewLeaveHandler(sessions leave.ReconcilerSessions) LeaveHandler {
	return &LeaveHandlerImpl{
		sessions: sessions,
	}
}

// session resolves the caller's own reconciler. It writes 401 and returns
// false when the request carries no claims.
func (l *LeaveHandlerImpl) session(w http.ResponseWriter, r *http.Request) (leave.LeaveReconciler, jwt.Claims, bool) {
	claims, err := middleware.ClaimsFromRequest(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return nil, jwt.Claims{}, false
	}
	return l.sessions.For(claims.UserID), claims, true
}

// List implements LeaveHandler. Fetch failures are part of the returned
// state, so this always answers 200.
func (l *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	reconciler, _, ok := l.session(w, r)
	if !ok {
		return
	}

	filter := leave.ListFilter{
		Status: leave.StatusFilter(r.URL.Query().Get("status")),
		Search: r.URL.Query().Get("search"),
	}

	state := reconciler.List(r.Context(), filter)
	response.Success(w, leave.NewConsoleStateResponse(state))
}

// State implements LeaveHandler.
func (l *LeaveHandlerImpl) State(w http.ResponseWriter, r *http.Request) {
	reconciler, _, ok := l.session(w, r)
	if !ok {
		return
	}
	response.Success(w, leave.NewConsoleStateResponse(reconciler.State()))
}

// UpdateStatus implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	reconciler, _, ok := l.session(w, r)
	if !ok {
		return
	}

	var req leave.UpdateStatusRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateStatus decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	state, err := reconciler.TransitionStatus(r.Context(), req.ID, req.Status)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := leave.NewConsoleStateResponse(state)
	message := ""
	if state.Notice != nil {
		message = state.Notice.Message
	}
	response.SuccessWithMessage(w, message, resp)
}

// CleanupOrphans implements LeaveHandler.
func (l *LeaveHandlerImpl) CleanupOrphans(w http.ResponseWriter, r *http.Request) {
	reconciler, claims, ok := l.session(w, r)
	if !ok {
		return
	}

	result, err := reconciler.CleanupOrphans(r.Context(), claims.IsAdmin)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := leave.CleanupResponse{
		DeletedCount: result.DeletedCount,
		State:        leave.NewConsoleStateResponse(result.State),
	}
	message := ""
	if result.State.Notice != nil {
		message = result.State.Notice.Message
	}
	response.SuccessWithMessage(w, message, resp)
}
