package realtime

import (
	"fmt"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
	"github.com/champi-dev/live-football/internal/platform/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxCommandSize = 512
	sendBufferSize = 32
)

// MatchTopic and TeamTopic build the topic names clients subscribe to.
func MatchTopic(id int64) string {
	return fmt.Sprintf("match:%d", id)
}

func TeamTopic(id int64) string {
	return fmt.Sprintf("team:%d", id)
}

// envelope is the frame sent to subscribers.
type envelope struct {
	Event   string `json:"event"`
	Topic   string `json:"topic"`
	Payload any    `json:"payload"`
}

// command is what clients send to manage their subscriptions.
type command struct {
	Type    string `json:"type"`
	MatchID int64  `json:"matchId,omitempty"`
	TeamID  int64  `json:"teamId,omitempty"`
}

// Hub fans encoded frames out to clients by topic. Payloads are encoded
// once per broadcast; clients whose outbound buffer is full are dropped
// rather than allowed to stall the hub.
type Hub struct {
	logger *logging.Logger

	mu       sync.RWMutex
	byTopic  map[string]map[*Client]struct{}
	byClient map[*Client]map[string]struct{}
}

func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		logger:   logger,
		byTopic:  make(map[string]map[*Client]struct{}),
		byClient: make(map[*Client]map[string]struct{}),
	}
}

// Publish encodes the payload and queues it to every subscriber of topic.
// It never blocks.
func (h *Hub) Publish(topic, event string, payload any) {
	h.mu.RLock()
	subscribers := make([]*Client, 0, len(h.byTopic[topic]))
	for client := range h.byTopic[topic] {
		subscribers = append(subscribers, client)
	}
	h.mu.RUnlock()

	if len(subscribers) == 0 {
		return
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	encoder := sonic.ConfigDefault.NewEncoder(buf)
	if err := encoder.Encode(envelope{Event: event, Topic: topic, Payload: payload}); err != nil {
		h.logger.Error("encode broadcast frame", "topic", topic, "event", event, "error", err)
		return
	}

	frame := append([]byte(nil), buf.Bytes()...)
	for _, client := range subscribers {
		if !client.enqueue(frame) {
			h.logger.Warn("dropping slow websocket client", "topic", topic)
			h.remove(client)
			client.close()
		}
	}
}

// Subscribers reports how many clients are joined to a topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byTopic[topic])
}

func (h *Hub) subscribe(client *Client, topic string) {
	if topic == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.byTopic[topic] == nil {
		h.byTopic[topic] = make(map[*Client]struct{})
	}
	h.byTopic[topic][client] = struct{}{}

	if h.byClient[client] == nil {
		h.byClient[client] = make(map[string]struct{})
	}
	h.byClient[client][topic] = struct{}{}
}

func (h *Hub) unsubscribe(client *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detach(client, topic)
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for topic := range h.byClient[client] {
		h.detach(client, topic)
	}
	delete(h.byClient, client)
}

// detach assumes h.mu is held.
func (h *Hub) detach(client *Client, topic string) {
	if subs := h.byTopic[topic]; subs != nil {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.byTopic, topic)
		}
	}
	if topics := h.byClient[client]; topics != nil {
		delete(topics, topic)
	}
}
