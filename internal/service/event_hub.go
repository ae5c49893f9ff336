package service

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"learnhub_portal/internal/state"
	"learnhub_portal/pkg/logger"
	"learnhub_portal/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	shardCount     = 32

	// EventChannel carries state events between instances.
	EventChannel = "app:state-events"

	EventState = "STATE"
	EventSync  = "SYNC"
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// StateSource returns a client's current state, used to answer SYNC
// requests.
type StateSource func(ctx context.Context, clientID string) (state.AppState, error)

// EventClient is one websocket connection of a browser client. A client
// may hold several connections (tabs).
type EventClient struct {
	Hub      *EventHub
	Conn     *websocket.Conn
	Send     chan []byte
	ClientID string
	Limiter  *rate.Limiter
}

func (c *EventClient) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.ctx.Done():
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.String("clientId", c.ClientID))
			}
			break
		}
		if !c.Limiter.Allow() {
			continue
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if msg.Type == EventSync {
			c.Hub.sync(c)
		}
	}
}

func (c *EventClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type eventShard struct {
	clients map[string]map[*EventClient]struct{}
	mu      sync.RWMutex
}

// EventHub pushes state changes to the websocket connections of a
// client. With Redis configured every instance publishes to
// EventChannel and delivers to its own connections, so a state change
// reaches the client wherever its socket is.
type EventHub struct {
	shards     [shardCount]*eventShard
	register   chan *EventClient
	unregister chan *EventClient
	Redis      *redis.Client
	source     StateSource
	upgrader   websocket.Upgrader
	ctx        context.Context
	cancel     context.CancelFunc

	originMu sync.RWMutex
	origins  map[string]struct{}
}

type eventEnvelope struct {
	ClientID string          `json:"clientId"`
	Payload  json.RawMessage `json:"payload"`
}

func NewEventHub(rdb *redis.Client, source StateSource) *EventHub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &EventHub{
		register:   make(chan *EventClient),
		unregister: make(chan *EventClient),
		Redis:      rdb,
		source:     source,
		ctx:        ctx,
		cancel:     cancel,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.CheckOrigin,
	}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &eventShard{clients: make(map[string]map[*EventClient]struct{})}
	}
	return h
}

// SetAllowedOrigins replaces the cross-origin pages allowed to open a
// socket. Same-host pages are always allowed.
func (h *EventHub) SetAllowedOrigins(origins []string) {
	set := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		set[strings.TrimRight(strings.ToLower(o), "/")] = struct{}{}
	}
	h.originMu.Lock()
	h.origins = set
	h.originMu.Unlock()
}

// CheckOrigin accepts requests without an Origin header, from the
// serving host, or from an allowed origin.
func (h *EventHub) CheckOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	h.originMu.RLock()
	defer h.originMu.RUnlock()
	_, ok := h.origins[strings.ToLower(u.Scheme+"://"+u.Host)]
	return ok
}

func (h *EventHub) getShard(clientID string) *eventShard {
	f := fnv.New32a()
	f.Write([]byte(clientID))
	return h.shards[f.Sum32()%shardCount]
}

// Run processes registrations and, with Redis, relays events published
// by other instances. It returns when Stop is called.
func (h *EventHub) Run() {
	if h.Redis != nil {
		pubsub := h.Redis.Subscribe(h.ctx, EventChannel)
		defer pubsub.Close()
		go func() {
			for msg := range pubsub.Channel() {
				var env eventEnvelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					logger.Log.Error("PubSub unmarshal error", zap.Error(err))
					continue
				}
				h.deliverLocal(env.ClientID, env.Payload)
			}
		}()
	}

	for {
		select {
		case <-h.ctx.Done():
			return
		case client := <-h.register:
			s := h.getShard(client.ClientID)
			s.mu.Lock()
			if s.clients[client.ClientID] == nil {
				s.clients[client.ClientID] = make(map[*EventClient]struct{})
			}
			s.clients[client.ClientID][client] = struct{}{}
			s.mu.Unlock()
			monitoring.ConnectedClients.Inc()

		case client := <-h.unregister:
			s := h.getShard(client.ClientID)
			s.mu.Lock()
			if conns, ok := s.clients[client.ClientID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.Send)
					monitoring.ConnectedClients.Dec()
				}
				if len(conns) == 0 {
					delete(s.clients, client.ClientID)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Stop closes every connection.
func (h *EventHub) Stop() {
	logger.Log.Info("EventHub stopping: closing connections...")
	h.cancel()

	closed := 0
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.Lock()
		for clientID, conns := range s.clients {
			for c := range conns {
				close(c.Send)
				closed++
			}
			delete(s.clients, clientID)
		}
		s.mu.Unlock()
	}
	monitoring.ConnectedClients.Set(0)
	logger.Log.Info("EventHub stopped", zap.Int("closedConnections", closed))
}

// PublishState satisfies StatePublisher.
func (h *EventHub) PublishState(clientID string, st state.AppState) {
	h.Push(clientID, WSMessage{Type: EventState, Data: st})
}

// Push sends msg to every connection of clientID on any instance.
func (h *EventHub) Push(clientID string, msg WSMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Error("Failed to encode event", zap.Error(err))
		return
	}
	monitoring.PushedEvents.WithLabelValues(msg.Type).Inc()

	if h.Redis == nil {
		h.deliverLocal(clientID, payload)
		return
	}
	env, _ := json.Marshal(eventEnvelope{ClientID: clientID, Payload: payload})
	if err := h.Redis.Publish(h.ctx, EventChannel, env).Err(); err != nil {
		logger.Log.Error("Failed to publish event, delivering locally", zap.Error(err))
		h.deliverLocal(clientID, payload)
	}
}

func (h *EventHub) deliverLocal(clientID string, payload []byte) {
	s := h.getShard(clientID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients[clientID] {
		select {
		case c.Send <- payload:
		default:
		}
	}
}

// Connections returns how many local connections clientID has.
func (h *EventHub) Connections(clientID string) int {
	s := h.getShard(clientID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients[clientID])
}

func (h *EventHub) sync(c *EventClient) {
	if h.source == nil {
		return
	}
	st, err := h.source(h.ctx, c.ClientID)
	if err != nil {
		logger.Log.Error("Failed to load state for sync", zap.String("clientId", c.ClientID), zap.Error(err))
		return
	}
	payload, err := json.Marshal(WSMessage{Type: EventState, Data: st})
	if err != nil {
		return
	}
	s := h.getShard(c.ClientID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.clients[c.ClientID][c]; !ok {
		return
	}
	select {
	case c.Send <- payload:
	default:
	}
}

// ServeWs upgrades the request and attaches the connection to clientID.
func ServeWs(hub *EventHub, w http.ResponseWriter, r *http.Request, clientID string) {
	conn, err := hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.String("clientId", clientID))
		return
	}
	client := &EventClient{
		Hub:      hub,
		Conn:     conn,
		Send:     make(chan []byte, 16),
		ClientID: clientID,
		Limiter:  rate.NewLimiter(rate.Limit(5), 10),
	}
	select {
	case hub.register <- client:
	case <-hub.ctx.Done():
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
