package handlers

import (
	"net/http"
	"time"

	"hr-portal/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Subscriber hands out per-principal event streams.
type Subscriber interface {
	Subscribe(principalID uuid.UUID) *notify.Subscription
}

// NotificationHandler streams notifications over websockets.
type NotificationHandler struct {
	hub      Subscriber
	upgrader websocket.Upgrader
}

// NewNotificationHandler creates a new NotificationHandler. allowOrigin
// decides which browser origins may open a stream.
func NewNotificationHandler(hub Subscriber, allowOrigin func(origin string) bool) *NotificationHandler {
	return &NotificationHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowOrigin(origin)
			},
		},
	}
}

// StreamNotifications godoc
// @Summary      Notification stream
// @Description  Upgrades to a websocket that receives the caller's events as JSON. The token may be passed as access_token.
// @Tags         notifications
// @Param        access_token query string false "Bearer token for clients that cannot set headers"
// @Success      101 "Switching Protocols"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Router       /notifications/ws [get]
// @Security     BearerAuth
func (h *NotificationHandler) StreamNotifications(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Error upgrading notification stream for %s: %v", p.ID, err)
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe(p.ID)
	defer sub.Close()

	// The read loop only services control frames and detects disconnects.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-sub.C:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("Error writing notification to %s: %v", p.ID, err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
