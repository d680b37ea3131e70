/*
Package tabs handles the WebSocket connections of same-origin browser tabs.

This file defines the Hub struct, the central coordinator for all connected tabs. It
fans record-changed and thinking events out to every tab; the events carry no payload
beyond the record key, so each tab re-reads the record over the HTTP API.
*/
package tabs

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"friendhub/internal/app/store"
	"friendhub/internal/pkg/logx"
)

const broadcastChannelBuffer = 256

// Event types pushed to connected tabs.
const (
	// EventRecordChanged signals that a persisted record changed; the tab must
	// re-read it.
	EventRecordChanged = "RECORD_CHANGED"

	// EventThinking signals that the bot-reply thinking indicator flipped.
	EventThinking = "THINKING"
)

// Event is one notification pushed to every connected tab.
type Event struct {
	Type     string       `json:"type"`
	Record   store.Record `json:"record,omitempty"`
	Thinking bool         `json:"thinking,omitempty"`
}

// Hub coordinates all connected tab clients and broadcasts events to them.
type Hub struct {
	// clients holds the currently connected tabs.
	clients map[*Client]struct{}

	// register is the channel for tabs requesting to connect.
	register chan *Client

	// unregister is the channel for tabs requesting to disconnect.
	unregister chan *Client

	// broadcast is the buffered channel of events to fan out.
	broadcast chan Event

	// stopChan signals the Hub to stop its Run loop.
	stopChan chan struct{}

	// mu protects access to the clients map.
	mu sync.RWMutex

	// wg waits for the Run loop to finish during shutdown.
	wg sync.WaitGroup

	logger zerolog.Logger
}

// NewHub creates a Hub and starts its event loop.
func NewHub() *Hub {
	hubLogger := logx.Logger().With().Str("component", "Hub").Logger()

	h := &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, broadcastChannelBuffer),
		stopChan:   make(chan struct{}),
		logger:     hubLogger,
	}

	h.wg.Add(1)
	go h.run()

	return h
}

// BindStore subscribes the Hub to record-change notifications from the store.
// It returns the cancel function of the subscription.
func (h *Hub) BindStore(st *store.Store) func() {
	return st.Subscribe(func(rec store.Record) {
		h.Broadcast(Event{Type: EventRecordChanged, Record: rec})
	})
}

// Broadcast queues an event for delivery to all connected tabs.
// The event is dropped when the broadcast queue is full.
func (h *Hub) Broadcast(event Event) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn().Str("event_type", event.Type).Msg("Broadcast channel full, dropping event.")
	}
}

// RegisterClient queues a tab client for registration.
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	case <-h.stopChan:
	}
}

// run is the main event loop: it handles tab registration, deregistration, and event
// fan-out until the Hub is shut down.
func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()

			h.logger.Info().Int("total_tabs", total).Msg("Tab connected.")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
			}
			total := len(h.clients)
			h.mu.Unlock()

			h.logger.Info().Int("total_tabs", total).Msg("Tab disconnected.")

		case event := <-h.broadcast:
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error().Err(err).Msg("Error marshaling event for broadcast.")
				continue
			}

			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					h.logger.Warn().Msg("Tab send channel full, scheduling disconnect.")

					select {
					case h.unregister <- client:
					default:
						h.logger.Warn().Msg("Unregister channel full, skipping tab cleanup.")
					}
				}
			}
			h.mu.RUnlock()

		case <-h.stopChan:
			return
		}
	}
}

// Shutdown stops the event loop and closes all tab connections.
func (h *Hub) Shutdown() {
	h.logger.Info().Msg("Shutting down Hub...")

	close(h.stopChan)
	h.wg.Wait()

	h.mu.Lock()
	for client := range h.clients {
		client.closeSend()
	}
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()

	h.logger.Info().Msg("Hub shutdown complete.")
}
