package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-admin-console/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/notice"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/sse"
)

const (
	eventNotice        = "notice"
	eventNoticeCleared = "notice_cleared"
)

// NoticeHandler streams console notices to connected admin sessions
type NoticeHandler interface {
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type noticeHandlerImpl struct {
	board      *notice.Board
	hub        *sse.Hub
	jwtService jwt.Service
	keepalive  time.Duration
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// NewNoticeHandler wires board changes into the hub so every post, clear and
// expiry reaches the stream.
func NewNoticeHandler(board *notice.Board, hub *sse.Hub, jwtService jwt.Service) NoticeHandler {
	board.OnChange(func(n *notice.Notice) {
		hub.Publish(noticeEvent(n))
	})
	return &noticeHandlerImpl{
		board:      board,
		hub:        hub,
		jwtService: jwtService,
		keepalive:  30 * time.Second,
	}
}

func noticeEvent(n *notice.Notice) sse.Event {
	if n == nil {
		return sse.Event{Topic: sse.TopicNotices, Name: eventNoticeCleared, Data: struct{}{}}
	}
	return sse.Event{Topic: sse.TopicNotices, Name: eventNotice, Data: n}
}

// GetSSEToken generates a short-lived token for SSE connections
func (h *noticeHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromRequest(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(claims)
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream handles the SSE connection. The current notice, if any, is sent
// right after the connected event.
func (h *noticeHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// SSE doesn't support custom headers
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(sse.TopicNotices)
	defer cleanup()

	_ = sse.WriteEvent(w, sse.Event{Name: "connected", Data: map[string]string{
		"status":  "connected",
		"user_id": claims.UserID,
	}})
	if current := h.board.Current(); current != nil {
		_ = sse.WriteEvent(w, noticeEvent(current))
	}
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := sse.WriteEvent(w, event); err != nil {
				return
			}
			flusher.Flush()

		case <-keepalive.C:
			_ = sse.WriteEvent(w, sse.Event{Name: "ping", Data: map[string]int64{"timestamp": time.Now().Unix()}})
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
