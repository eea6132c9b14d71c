package realtime

import (
	"encoding/json"
	"sync"
)

// Topics clients can subscribe to
const (
	TopicOrganizations = "organizations"
	TopicProjects      = "projects"
	TopicTasks         = "tasks"
	TopicTaskComments  = "taskcomments"
)

// ValidTopic reports whether topic is one of the known resource feeds
func ValidTopic(topic string) bool {
	switch topic {
	case TopicOrganizations, TopicProjects, TopicTasks, TopicTaskComments:
		return true
	}
	return false
}

// Client represents a single websocket client connection.
// The actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Event is the change notification broadcast after a successful write
type Event struct {
	Type     string `json:"type"`
	ID       uint   `json:"id"`
	ParentID uint   `json:"parent_id,omitempty"`
	Version  int    `json:"version"`
}

// Publisher is what the HTTP and GraphQL adapters depend on
type Publisher interface {
	Publish(topic string, evt Event)
}

// Hub maintains active connections per topic and broadcasts events to them.
type Hub struct {
	mu             sync.RWMutex
	topicToClients map[string]map[Client]struct{}
}

// NewHub returns an empty hub
func NewHub() *Hub {
	return &Hub{topicToClients: make(map[string]map[Client]struct{})}
}

// Register adds a client under a topic.
func (h *Hub) Register(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.topicToClients[topic]; !ok {
		h.topicToClients[topic] = make(map[Client]struct{})
	}
	h.topicToClients[topic][client] = struct{}{}
}

// Unregister removes a client; if the topic has no more clients, cleans up map.
func (h *Hub) Unregister(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.topicToClients[topic]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.topicToClients, topic)
		}
	}
}

// Subscribers returns the number of clients on a topic
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topicToClients[topic])
}

// Broadcast sends a message to all clients of a topic. Failed writes are left
// for the owning handler to clean up.
func (h *Hub) Broadcast(topic string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.topicToClients[topic] {
		_ = c.Send(message)
	}
}

// Publish encodes evt and broadcasts it on topic
func (h *Hub) Publish(topic string, evt Event) {
	if evt.Version == 0 {
		evt.Version = 1
	}
	if bytes, err := json.Marshal(evt); err == nil {
		h.Broadcast(topic, bytes)
	}
}

var _ Publisher = (*Hub)(nil)
