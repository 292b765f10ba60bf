package notifier

import (
	"sync"

	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map"
)

// Subscriber is a live connection receiving broadcast status text
type Subscriber interface {
	ID() string
	Send(text string) error
}

// Hub keeps the connected subscribers in registration order and fans out
// status text to all of them.
type Hub struct {
	subscribers *orderedmap.OrderedMap
	lock        sync.RWMutex
	log         logrus.FieldLogger
}

// NewHub creates an empty Hub
func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		subscribers: orderedmap.New(),
		log:         log,
	}
}

// Connect registers sub. Connecting the same ID twice keeps its original position.
func (h *Hub) Connect(sub Subscriber) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.subscribers.Set(sub.ID(), sub)
	h.log.WithField("subscriber", sub.ID()).Debug("subscriber connected")
}

// Disconnect removes sub. Unknown subscribers are ignored.
func (h *Hub) Disconnect(sub Subscriber) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if _, ok := h.subscribers.Delete(sub.ID()); ok {
		h.log.WithField("subscriber", sub.ID()).Debug("subscriber disconnected")
	}
}

// Len returns the number of registered subscribers
func (h *Hub) Len() int {
	h.lock.RLock()
	defer h.lock.RUnlock()

	return h.subscribers.Len()
}

// Broadcast sends text to every subscriber registered at call time.
// Send errors are logged and swallowed; the failing subscriber stays registered.
func (h *Hub) Broadcast(text string) {
	for _, sub := range h.snapshot() {
		if err := sub.Send(text); err != nil {
			h.log.WithError(err).WithField("subscriber", sub.ID()).Debug("broadcast send failed")
		}
	}
}

// snapshot copies the registry so sends happen without holding the lock
func (h *Hub) snapshot() []Subscriber {
	h.lock.RLock()
	defer h.lock.RUnlock()

	subs := make([]Subscriber, 0, h.subscribers.Len())
	for pair := h.subscribers.Oldest(); pair != nil; pair = pair.Next() {
		subs = append(subs, pair.Value.(Subscriber))
	}
	return subs
}
