package testutil

import (
	"context"
	"sync"

	"github.com/roach88/stockroom/internal/notify"
)

// RecordingNotifier captures every message it is asked to deliver.
// Set Err to make Notify fail after recording.
type RecordingNotifier struct {
	mu       sync.Mutex
	messages []notify.Message
	Err      error
}

func (n *RecordingNotifier) Notify(_ context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return n.Err
}

// Messages returns a copy of the recorded messages.
func (n *RecordingNotifier) Messages() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notify.Message, len(n.messages))
	copy(out, n.messages)
	return out
}
