package handlers

import (
	"time"

	"github.com/dimitrije/cms-api/internal/sse"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/websocket"
	"go.uber.org/zap"
)

const (
	streamPingInterval = 30 * time.Second
	streamWriteTimeout = 10 * time.Second
)

// StreamHandler serves the content change stream over a WebSocket for
// clients that cannot consume Server-Sent Events.
// Dead peers are noticed when a ping write fails; there is no read deadline
// because pongs never surface from ReadMessage.
type StreamHandler struct {
	contentService ContentServiceInterface
	hub            HubInterface
	logger         *zap.Logger
	pingInterval   time.Duration
}

func NewStreamHandler(contentService ContentServiceInterface, hub HubInterface, logger *zap.Logger) *StreamHandler {
	return &StreamHandler{
		contentService: contentService,
		hub:            hub,
		logger:         logger,
		pingInterval:   streamPingInterval,
	}
}

func (h *StreamHandler) Connect(c *drift.Context) {
	content, err := h.contentService.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, h.logger, err, "failed to get content")
		return
	}

	conn, err := websocket.Upgrade(c)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	clientID := uuid.New().String()
	client := &sse.Client{
		ID:       clientID,
		Contents: map[int64]bool{content.ID: true},
		Send:     make(chan []byte, 256),
	}

	h.hub.Register(client)

	_ = conn.WriteJSON(map[string]any{
		"type":       "connected",
		"client_id":  clientID,
		"content_id": content.ID,
	})

	done := make(chan struct{})

	// Write pump
	go func() {
		ticker := time.NewTicker(h.pingInterval)
		defer ticker.Stop()
		defer func() {
			if err := conn.Close(websocket.CloseNormalClosure, ""); err != nil {
				h.logger.Debug("websocket close", zap.Error(err))
			}
		}()

		for {
			select {
			case msg, ok := <-client.Send:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
				if err := conn.WriteText(string(msg)); err != nil {
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
				if err := conn.Ping(nil); err != nil {
					h.logger.Debug("websocket ping failed", zap.String("client_id", clientID), zap.Error(err))
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Read pump: the stream is one-way, so incoming frames are discarded
	// and only serve to notice the disconnect.
	defer func() {
		close(done)
		h.hub.Unregister(client)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
