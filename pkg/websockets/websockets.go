package websockets

import (
	"net/http"
	"sync"
	"time"

	"github.com/gamedb/gridview/pkg/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = time.Second * 10
	sendBuffer = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// client is one connection. Payloads are queued on send and written by the
// connection's own goroutine, so a slow browser only holds up itself.
type client struct {
	conn *websocket.Conn
	send chan interface{}
}

func (c *client) writeLoop() {

	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {

		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

		err := c.conn.WriteJSON(payload)
		if err != nil {
			log.Debug("dropping websocket", zap.Error(err))
			return
		}
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// Hub holds the open connections of each browser session
type Hub struct {
	sessions map[string]map[uuid.UUID]*client
	lock     sync.Mutex
}

func NewHub() *Hub {
	return &Hub{sessions: map[string]map[uuid.UUID]*client{}}
}

// Serve upgrades the request and blocks until the connection closes
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, session string) error {

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{conn: conn, send: make(chan interface{}, sendBuffer)}
	go c.writeLoop()

	id := h.add(session, c)
	defer h.remove(session, id)

	// Nothing is read from the browser, reading just notices the close
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return nil
		}
	}
}

func (h *Hub) add(session string, c *client) uuid.UUID {

	h.lock.Lock()
	defer h.lock.Unlock()

	id := uuid.New()

	if h.sessions[session] == nil {
		h.sessions[session] = map[uuid.UUID]*client{}
	}
	h.sessions[session][id] = c

	return id
}

func (h *Hub) remove(session string, id uuid.UUID) {

	h.lock.Lock()
	defer h.lock.Unlock()

	h.drop(session, id)
}

// drop must be called with the lock held
func (h *Hub) drop(session string, id uuid.UUID) {

	if c, ok := h.sessions[session][id]; ok {
		close(c.send)
		delete(h.sessions[session], id)
	}

	if len(h.sessions[session]) == 0 {
		delete(h.sessions, session)
	}
}

func (h *Hub) HasConnections(session string) bool {

	h.lock.Lock()
	defer h.lock.Unlock()

	return len(h.sessions[session]) > 0
}

// Send queues the payload for every connection of the session without waiting
// on the network. A connection whose queue is full is dropped.
func (h *Hub) Send(session string, payload interface{}) {

	h.lock.Lock()
	defer h.lock.Unlock()

	for id, c := range h.sessions[session] {
		select {
		case c.send <- payload:
		default:
			log.Debug("dropping slow websocket", zap.String("session", session))
			_ = c.conn.Close()
			h.drop(session, id)
		}
	}
}

// Len is the number of open connections
func (h *Hub) Len() (count int) {

	h.lock.Lock()
	defer h.lock.Unlock()

	for _, conns := range h.sessions {
		count += len(conns)
	}
	return count
}
