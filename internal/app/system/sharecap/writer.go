package sharecap

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Writer is the fallback used where no clipboard exists: the text is
// written to W so it can be copied by hand.
type Writer struct {
	W io.Writer
}

func (Writer) CanShare() bool { return false }

func (Writer) Share(context.Context, Payload) error { return ErrUnsupported }

func (w Writer) WriteText(ctx context.Context, text string) error {
	if w.W == nil {
		return errors.New("no output writer")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w.W, text)
	return err
}
