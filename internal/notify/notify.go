// Package notify delivers low-stock alerts.
//
// A Notifier accepts a title and a body and displays them immediately.
// There is no scheduling or retry: the caller decides what a failed
// delivery means.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Message is a single alert.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notifier delivers messages to the user.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Writer prints messages to a terminal stream, one alert per line.
// Safe for concurrent use.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a Writer notifier for w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Notify writes "<title> <body>" followed by a newline.
func (n *Writer) Notify(_ context.Context, msg Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, err := fmt.Fprintf(n.w, "%s %s\n", msg.Title, msg.Body); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	return nil
}

// Log emits messages as structured log records at warn level.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a Log notifier. A nil logger uses slog.Default().
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

func (n *Log) Notify(ctx context.Context, msg Message) error {
	n.logger.WarnContext(ctx, msg.Title, "body", msg.Body)
	return nil
}

// Discard drops every message.
type Discard struct{}

func (Discard) Notify(context.Context, Message) error { return nil }

// Multi fans a message out to several notifiers. Every notifier is tried;
// the failures are joined.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
