package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tribeshub/backend/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

func NewHandler(logger *slog.Logger, broker *Broker, membershipService membershipService) Handler {
	return Handler{
		logger:            logger,
		broker:            broker,
		membershipService: membershipService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type membershipService interface {
	IsMember(ctx context.Context, communityID uint, userID uint) (bool, error)
}

type Handler struct {
	logger            *slog.Logger
	broker            *Broker
	membershipService membershipService
	upgrader          websocket.Upgrader
}

// clientCommand is what a connected client may send: joining or leaving a
// community channel it is currently viewing.
type clientCommand struct {
	Action      string `json:"action" binding:"required"`
	CommunityID uint   `json:"communityId"`
}

// Subscribe upgrades the request to a websocket connection, joins the user's
// own channel and relays broadcast events until the client goes away.
func (h Handler) Subscribe(c *gin.Context) {
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error response
		h.logger.WarnContext(c, "Websocket upgrade failed", "error", err)
		return
	}

	subscriber := h.broker.Subscribe()
	subscriber.Join(UserChannel(user.ID))

	go h.writePump(conn, subscriber)
	h.readPump(c.Request.Context(), conn, subscriber, user.ID)
}

func (h Handler) readPump(ctx context.Context, conn *websocket.Conn, subscriber *Subscriber, userID uint) {
	defer func() {
		h.broker.Unsubscribe(subscriber)
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WarnContext(ctx, "Websocket read failed", "error", err)
			}
			return
		}

		var command clientCommand
		if err := json.Unmarshal(raw, &command); err != nil {
			h.logger.WarnContext(ctx, "Invalid websocket command", "error", err)
			continue
		}

		switch command.Action {
		case "join":
			member, err := h.membershipService.IsMember(ctx, command.CommunityID, userID)
			if err != nil {
				h.logger.ErrorContext(ctx, "Failed to check community membership", "community", command.CommunityID, "error", err)
				continue
			}
			if !member {
				h.logger.WarnContext(ctx, "Join refused for non-member", "community", command.CommunityID, "user", userID)
				continue
			}
			subscriber.Join(CommunityChannel(command.CommunityID))
		case "leave":
			subscriber.Leave(CommunityChannel(command.CommunityID))
		default:
			h.logger.WarnContext(ctx, "Unknown websocket action", "action", command.Action)
		}
	}
}

func (h Handler) writePump(conn *websocket.Conn, subscriber *Subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case event, ok := <-subscriber.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
