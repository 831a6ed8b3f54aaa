package sse

import (
	"encoding/json"
	"sync"
)

const (
	EventContentCreated    = "content_created"
	EventContentRenamed    = "content_renamed"
	EventFieldAdded        = "field_added"
	EventFieldRemoved      = "field_removed"
	EventFieldRenamed      = "field_renamed"
	EventFieldsReplaced    = "fields_replaced"
	EventCollectionCreated = "collection_created"
	EventCollectionUpdated = "collection_updated"
	EventCollectionDeleted = "collection_deleted"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type ContentEvent struct {
	ContentID int64    `json:"content_id"`
	Name      string   `json:"name,omitempty"`
	Fields    []string `json:"fields,omitempty"`
}

type CollectionEvent struct {
	CollectionID int64 `json:"collection_id"`
	ContentID    int64 `json:"content_id"`
}

type Client struct {
	ID       string
	Contents map[int64]bool
	Send     chan []byte
}

type ContentMessage struct {
	ContentID int64
	Event     Event
}

// Hub fans change events out to the clients subscribed to a content.
// Slow clients whose buffer is full miss events.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *ContentMessage
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *ContentMessage, 256),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Event)
			if err != nil {
				continue
			}
			h.mu.RLock()
			for _, client := range h.clients {
				if client.Contents[msg.ContentID] {
					select {
					case client.Send <- data:
					default:
					}
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			return
		}
	}
}

// Stop ends Run. It must be called at most once.
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) BroadcastContent(eventType string, contentID int64, name string, fields []string) {
	h.send(&ContentMessage{
		ContentID: contentID,
		Event: Event{
			Type: eventType,
			Data: ContentEvent{
				ContentID: contentID,
				Name:      name,
				Fields:    fields,
			},
		},
	})
}

func (h *Hub) BroadcastCollection(eventType string, contentID, collectionID int64) {
	h.send(&ContentMessage{
		ContentID: contentID,
		Event: Event{
			Type: eventType,
			Data: CollectionEvent{
				CollectionID: collectionID,
				ContentID:    contentID,
			},
		},
	})
}

// send never blocks the request path: when the queue is full the event is dropped.
func (h *Hub) send(msg *ContentMessage) {
	select {
	case h.broadcast <- msg:
	default:
	}
}
