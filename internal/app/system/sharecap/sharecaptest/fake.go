// Package sharecaptest provides a scripted sharecap.Capabilities.
package sharecaptest

import (
	"context"
	"sync"

	"github.com/asceticjourney/journey/internal/app/system/sharecap"
)

// Fake records calls and returns the configured errors.
type Fake struct {
	Native   bool
	ShareErr error
	WriteErr error

	mu      sync.Mutex
	Shared  []sharecap.Payload
	Written []string
}

func (f *Fake) CanShare() bool { return f.Native }

func (f *Fake) Share(_ context.Context, p sharecap.Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Shared = append(f.Shared, p)
	return f.ShareErr
}

func (f *Fake) WriteText(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Written = append(f.Written, text)
	return f.WriteErr
}

// Writes returns how many clipboard writes were attempted.
func (f *Fake) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Written)
}

// Shares returns how many native shares were attempted.
func (f *Fake) Shares() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Shared)
}
