package server

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// wsSubscriber delivers broadcast text over one websocket connection.
// gorilla allows a single concurrent writer, hence the lock.
type wsSubscriber struct {
	id   string
	conn *websocket.Conn
	lock sync.Mutex
}

func newWSSubscriber(conn *websocket.Conn) *wsSubscriber {
	return &wsSubscriber{id: uuid.NewString(), conn: conn}
}

func (s *wsSubscriber) ID() string {
	return s.id
}

func (s *wsSubscriber) Send(text string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

func (s *wsSubscriber) Close() error {
	return s.conn.Close()
}

func (s *Server) websocketHandler(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	sub := newWSSubscriber(conn)
	s.sockets.Store(sub.ID(), sub)
	s.hub.Connect(sub)

	// incoming messages are keep-alives only
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.hub.Disconnect(sub)
	s.sockets.Delete(sub.ID())
	_ = sub.Close()
}
