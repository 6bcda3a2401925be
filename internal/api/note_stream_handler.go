package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kingrain94/notes-saas-api/internal/domain"
)

const (
	websocketReadBufferSize        = 1024
	websocketWriteBufferSize       = 1024
	websocketSendChannelBufferSize = 256

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// EventSubscriber delivers a tenant's note events from every API instance.
type EventSubscriber interface {
	Subscribe(ctx context.Context, tenantSlug string, callback func(*domain.NoteEvent)) error
	Unsubscribe(tenantSlug string)
	Close()
}

// OriginChecker decides whether a browser origin may open a stream.
type OriginChecker interface {
	IsAllowed(origin string) bool
}

type streamClient struct {
	conn      *websocket.Conn
	principal domain.Principal
	send      chan []byte
	// closed is set once send has been closed for a slow consumer.
	closed bool
}

// wants reports whether the client may see event. Members only see their own notes.
func (c *streamClient) wants(event *domain.NoteEvent) bool {
	if event.TenantSlug != c.principal.TenantSlug {
		return false
	}
	return c.principal.IsAdmin() || event.UserID == c.principal.UserID
}

// NoteStreamHandler upgrades authenticated requests to websockets and pushes the
// caller's tenant note events to them. One Redis subscription is held per tenant
// while at least one of its clients is connected.
type NoteStreamHandler struct {
	*BaseHandler
	subscriber    EventSubscriber
	upgrader      websocket.Upgrader
	clients       map[*streamClient]struct{}
	tenantClients map[string]int
	register      chan *streamClient
	unregister    chan *streamClient
	mutex         sync.Mutex
	ctx           context.Context
	cancel        context.CancelFunc
}

func NewNoteStreamHandler(base *BaseHandler, subscriber EventSubscriber, origins OriginChecker) *NoteStreamHandler {
	ctx, cancel := context.WithCancel(context.Background())
	return &NoteStreamHandler{
		BaseHandler: base,
		subscriber:  subscriber,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  websocketReadBufferSize,
			WriteBufferSize: websocketWriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Non-browser clients send no Origin.
				return origin == "" || origins == nil || origins.IsAllowed(origin)
			},
		},
		clients:       make(map[*streamClient]struct{}),
		tenantClients: make(map[string]int),
		register:      make(chan *streamClient),
		unregister:    make(chan *streamClient),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Stream godoc
// @Summary Live note events
// @Description Websocket of note.created, note.updated and note.deleted events for the caller's tenant. Browsers may pass the token as ?token=.
// @Tags    notes
// @Security BearerAuth
// @Success 101
// @Failure 401 {object} dto.Error
// @Router  /notes/stream [get]
func (h *NoteStreamHandler) Stream(c *gin.Context) {
	principal, ok := h.Principal(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the handshake error.
		h.logger.Warn("websocket upgrade failed", zap.String("tenant", principal.TenantSlug), zap.Error(err))
		return
	}

	client := &streamClient{
		conn:      conn,
		principal: principal,
		send:      make(chan []byte, websocketSendChannelBufferSize),
	}

	select {
	case h.register <- client:
	case <-h.ctx.Done():
		conn.Close()
		return
	}

	go h.writePump(client)
	go h.readPump(client)
}

// Start runs the hub until Stop is called.
func (h *NoteStreamHandler) Start() {
	for {
		select {
		case client := <-h.register:
			slug := client.principal.TenantSlug

			h.mutex.Lock()
			h.clients[client] = struct{}{}
			h.tenantClients[slug]++
			first := h.tenantClients[slug] == 1
			h.mutex.Unlock()

			if first {
				if err := h.subscriber.Subscribe(h.ctx, slug, h.broadcast); err != nil {
					h.logger.Error("failed to subscribe to tenant events", err, zap.String("tenant", slug))
				}
			}

		case client := <-h.unregister:
			h.remove(client)

		case <-h.ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				if !client.closed {
					close(client.send)
					client.closed = true
				}
			}
			h.mutex.Unlock()
			return
		}
	}
}

func (h *NoteStreamHandler) remove(client *streamClient) {
	slug := client.principal.TenantSlug

	h.mutex.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mutex.Unlock()
		return
	}
	delete(h.clients, client)
	if !client.closed {
		close(client.send)
		client.closed = true
	}
	h.tenantClients[slug]--
	last := h.tenantClients[slug] == 0
	if last {
		delete(h.tenantClients, slug)
	}
	h.mutex.Unlock()

	if last {
		h.subscriber.Unsubscribe(slug)
	}
}

func (h *NoteStreamHandler) Stop() {
	h.cancel()
	h.subscriber.Close()
}

// ClientCount returns the number of connected clients of a tenant.
func (h *NoteStreamHandler) ClientCount(tenantSlug string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.tenantClients[tenantSlug]
}

// broadcast runs on the subscription goroutine for each event of a tenant.
func (h *NoteStreamHandler) broadcast(event *domain.NoteEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to encode note event", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if client.closed || !client.wants(event) {
			continue
		}
		select {
		case client.send <- message:
		default:
			// Slow consumer: its writePump exits and readPump unregisters it.
			close(client.send)
			client.closed = true
			h.logger.Warn("dropping slow websocket client",
				zap.String("tenant", client.principal.TenantSlug),
				zap.String("user_id", client.principal.UserID))
		}
	}
}

func (h *NoteStreamHandler) writePump(client *streamClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *NoteStreamHandler) readPump(client *streamClient) {
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.ctx.Done():
		}
		client.conn.Close()
	}()

	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Clients only listen; inbound frames are read to process control messages.
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("unexpected websocket close",
					zap.String("tenant", client.principal.TenantSlug), zap.Error(err))
			}
			return
		}
	}
}
