package services

import (
	"context"
	"log"
	"sync"

	"clubportal/internal/core/domain"
	"clubportal/internal/pkg/metrics"
)

// SessionRelay fans session events out to every API instance
type SessionRelay interface {
	Publish(ctx context.Context, event domain.SessionEvent) error
}

// SessionClient is one open /session/stream connection
type SessionClient struct {
	ID        string
	AccountID uint
	Channel   chan domain.SessionEvent
}

// SessionHub manages all session stream connections
type SessionHub struct {
	mu        sync.RWMutex
	clients   map[string]*SessionClient
	relay     SessionRelay
	listeners []func(domain.SessionEvent)
}

// NewSessionHub creates a new session hub
func NewSessionHub() *SessionHub {
	return &SessionHub{
		clients: make(map[string]*SessionClient),
	}
}

// SetRelay routes published events through a cross-instance relay
func (h *SessionHub) SetRelay(relay SessionRelay) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relay = relay
}

// OnDeliver registers a callback run for every delivered event
func (h *SessionHub) OnDeliver(fn func(domain.SessionEvent)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Register adds a new stream client
func (h *SessionHub) Register(client *SessionClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	metrics.SessionStreamsActive.Inc()
	log.Printf("📡 Session stream registered: %s (account=%d) | total=%d",
		client.ID, client.AccountID, len(h.clients))
}

// Unregister removes a stream client
func (h *SessionHub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Channel)
		delete(h.clients, clientID)
		metrics.SessionStreamsActive.Dec()
		log.Printf("📡 Session stream unregistered: %s | total=%d", clientID, len(h.clients))
	}
}

// Publish sends an event through the relay when one is set, otherwise delivers locally
func (h *SessionHub) Publish(ctx context.Context, event domain.SessionEvent) {
	metrics.SessionEventsTotal.WithLabelValues(event.Event).Inc()

	h.mu.RLock()
	relay := h.relay
	h.mu.RUnlock()

	if relay != nil {
		err := relay.Publish(ctx, event)
		if err == nil {
			return
		}
		log.Printf("⚠️ Session relay publish failed, delivering locally: %v", err)
	}
	h.Deliver(event)
}

// Deliver runs listeners and pushes the event to the account's open streams
func (h *SessionHub) Deliver(event domain.SessionEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, fn := range h.listeners {
		fn(event)
	}

	for _, client := range h.clients {
		if client.AccountID != event.AccountID {
			continue
		}
		select {
		case client.Channel <- event:
			log.Printf("📡 Session event [%s] sent to account %d", event.Event, event.AccountID)
		default:
			log.Printf("⚠️ Session stream full for client %s, skipping", client.ID)
		}
	}
}

// GetClientCount returns the number of connected clients
func (h *SessionHub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
