package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"clubportal/internal/adapters/http/middleware"
	"clubportal/internal/core/domain"
	"clubportal/internal/core/services"
	"clubportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

const sessionHeartbeat = 30 * time.Second

// SessionHandler serves the session snapshot and its live stream
type SessionHandler struct {
	hub *services.SessionHub
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(hub *services.SessionHub) *SessionHandler {
	return &SessionHandler{hub: hub}
}

// Get returns the caller's session snapshot
// @Summary Session snapshot
// @Tags Session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /session [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	session := middleware.GetSession(c)
	if session == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	return response.Success(c, "Session retrieved successfully", session)
}

// Stream pushes identity changes for the caller until the client leaves or is signed out
// @Summary Session event stream
// @Description Server-sent events: connected, account.updated, signed_out
// @Tags Session
// @Produce text/event-stream
// @Security BearerAuth
// @Router /session/stream [get]
func (h *SessionHandler) Stream(c *fiber.Ctx) error {
	session := middleware.GetSession(c)
	if session == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	client := &services.SessionClient{
		ID:        uuid.New().String(),
		AccountID: session.AccountID,
		Channel:   make(chan domain.SessionEvent, 16),
	}
	initial := domain.SessionEvent{
		Event:     domain.EventConnected,
		AccountID: session.AccountID,
		Session:   session,
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(h.streamWriter(client, initial))

	return nil
}

func (h *SessionHandler) streamWriter(client *services.SessionClient, initial domain.SessionEvent) fasthttp.StreamWriter {
	return func(w *bufio.Writer) {
		h.hub.Register(client)
		defer h.hub.Unregister(client.ID)

		if err := writeSessionEvent(w, initial); err != nil {
			return
		}

		heartbeat := time.NewTicker(sessionHeartbeat)
		defer heartbeat.Stop()

		for {
			select {
			case event, ok := <-client.Channel:
				if !ok {
					return
				}
				if err := writeSessionEvent(w, event); err != nil {
					log.Printf("📡 Session stream client disconnected: %s", client.ID)
					return
				}
				if event.Event == domain.EventSignedOut {
					return
				}

			case <-heartbeat.C:
				fmt.Fprintf(w, ": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					log.Printf("📡 Session stream client disconnected: %s", client.ID)
					return
				}
			}
		}
	}
}

// writeSessionEvent writes one SSE frame and flushes it
func writeSessionEvent(w *bufio.Writer, event domain.SessionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
	return w.Flush()
}
