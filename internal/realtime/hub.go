package realtime

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// slowReactionThresholdMs triggers the heuristic analysis notice when a
// relayed trial event reports a slower reaction time.
const slowReactionThresholdMs = 1000

// Message is the wire format on the session channel. Clients send session
// events and analysis messages; the server relays them within the room.
type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type envelope struct {
	room    string
	sender  *Client
	payload []byte
}

// Hub maintains one lightweight room per screening-session id and relays
// messages to the other members of the same room in arrival order. No
// persistence, no ordering beyond arrival at the relay.
type Hub struct {
	log        *zap.Logger
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	relay      chan envelope
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:        log,
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		relay:      make(chan envelope),
	}
}

// Run processes registrations and relays until the process exits. Call it
// in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if h.rooms[client.room] == nil {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.log.Debug("Client joined session room",
				zap.String("room", client.room),
				zap.Int("members", len(h.rooms[client.room])))

		case client := <-h.unregister:
			h.drop(client)

		case env := <-h.relay:
			h.broadcast(env)
		}
	}
}

// broadcast relays the payload to every other member of the sender's room.
// A member whose send buffer is full is dropped rather than blocking the
// room.
func (h *Hub) broadcast(env envelope) {
	for client := range h.rooms[env.room] {
		if client == env.sender {
			continue
		}
		select {
		case client.send <- env.payload:
		default:
			h.log.Warn("Dropping slow session channel consumer", zap.String("room", env.room))
			h.drop(client)
		}
	}

	if notice, ok := analysisNotice(env.payload); ok {
		for client := range h.rooms[env.room] {
			select {
			case client.send <- notice:
			default:
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	members, ok := h.rooms[client.room]
	if !ok {
		return
	}
	if _, ok := members[client]; !ok {
		return
	}
	delete(members, client)
	close(client.send)
	if len(members) == 0 {
		delete(h.rooms, client.room)
	}
}

// analysisNotice inspects a relayed event and produces a heuristic analysis
// message when a trial result reports a markedly slow reaction.
func analysisNotice(payload []byte) ([]byte, bool) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, false
	}
	if msg.Type != "trial-result" {
		return nil, false
	}

	var trial struct {
		ReactionTime float64 `json:"reactionTime"`
	}
	if err := json.Unmarshal(msg.Data, &trial); err != nil {
		return nil, false
	}
	if trial.ReactionTime < slowReactionThresholdMs {
		return nil, false
	}

	note := fmt.Sprintf("Slow response observed (%.0fms). Consider a short break before the next trial.", trial.ReactionTime)
	data, _ := json.Marshal(map[string]string{"note": note})
	out, _ := json.Marshal(Message{Type: "analysis", SessionID: msg.SessionID, Data: data})
	return out, true
}
