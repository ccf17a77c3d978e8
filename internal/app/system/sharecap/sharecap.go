// Package sharecap abstracts the share conveniences a client offers
// (native share sheet, clipboard) so the completion share flow can run
// against a real environment, a fallback, or a test double.
package sharecap

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AckDuration is how long the "copied" acknowledgment stays visible.
const AckDuration = 2 * time.Second

// ErrAborted is returned by Share when the user dismisses the share sheet.
// It is not a failure.
var ErrAborted = errors.New("share aborted")

// ErrUnsupported is returned by Share on environments without a share sheet.
var ErrUnsupported = errors.New("native share not supported")

// Payload is what gets handed to a native share sheet.
type Payload struct {
	Title string
	Text  string
}

// Capabilities is the set of environment services the share flow uses.
type Capabilities interface {
	CanShare() bool
	Share(ctx context.Context, p Payload) error
	WriteText(ctx context.Context, text string) error
}

// Controller drives the copy/share actions for one completion view.
// Close must be called when the view goes away.
type Controller struct {
	caps  Capabilities
	log   *zap.Logger
	title string
	text  string
	ack   time.Duration

	mu     sync.Mutex
	copied bool
	timer  *time.Timer
	closed bool
}

// NewController returns a Controller sharing text under title.
func NewController(caps Capabilities, title, text string, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		caps:  caps,
		log:   logger,
		title: title,
		text:  text,
		ack:   AckDuration,
	}
}

// SetAckDuration overrides AckDuration.
func (c *Controller) SetAckDuration(d time.Duration) {
	c.mu.Lock()
	c.ack = d
	c.mu.Unlock()
}

// Copied reports whether the copy acknowledgment is showing.
func (c *Controller) Copied() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copied
}

// Copy writes the share text to the clipboard. Failures are logged and leave
// the acknowledgment unset.
func (c *Controller) Copy(ctx context.Context) {
	if err := c.caps.WriteText(ctx, c.text); err != nil {
		c.log.Error("failed to copy text", zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.copied = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.ack, c.clearAck)
}

// Share uses the native share sheet when there is one, otherwise it copies.
func (c *Controller) Share(ctx context.Context) {
	if !c.caps.CanShare() {
		c.Copy(ctx)
		return
	}
	err := c.caps.Share(ctx, Payload{Title: c.title, Text: c.text})
	if err != nil && !errors.Is(err, ErrAborted) {
		c.log.Error("error sharing", zap.Error(err))
	}
}

// ShareLabel is the button caption for the current environment.
func (c *Controller) ShareLabel() string {
	if c.caps.CanShare() {
		return "Share"
	}
	return "Copy Share Text"
}

// Close cancels a pending acknowledgment reset. The acknowledgment no longer
// changes once the controller is closed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) clearAck() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.copied = false
	c.timer = nil
}
