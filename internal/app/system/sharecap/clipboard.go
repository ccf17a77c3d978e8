package sharecap

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
)

// Clipboard uses the operating system clipboard. It has no share sheet, so
// Controller.Share falls back to copying.
type Clipboard struct{}

// ClipboardAvailable reports whether a system clipboard utility was found.
func ClipboardAvailable() bool {
	return !clipboard.Unsupported
}

func (Clipboard) CanShare() bool { return false }

func (Clipboard) Share(context.Context, Payload) error { return ErrUnsupported }

func (Clipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
