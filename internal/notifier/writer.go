package notifier

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// WriterSubscriber prints every broadcast as a line on an io.Writer.
// The CLI uses it to show job progress on stdout.
type WriterSubscriber struct {
	id   string
	w    io.Writer
	lock sync.Mutex
}

// NewWriterSubscriber creates a subscriber writing to w
func NewWriterSubscriber(w io.Writer) *WriterSubscriber {
	return &WriterSubscriber{id: uuid.NewString(), w: w}
}

func (s *WriterSubscriber) ID() string {
	return s.id
}

func (s *WriterSubscriber) Send(text string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	_, err := fmt.Fprintln(s.w, text)
	return err
}
