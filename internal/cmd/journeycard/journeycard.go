// Package journeycard renders the journey completion card from an exported
// state file, and optionally copies or shares the share text.
package journeycard

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/asceticjourney/journey/internal/app/system/sharecap"
	"github.com/asceticjourney/journey/internal/app/system/sharecard"
	"github.com/asceticjourney/journey/internal/app/system/themes"
	"github.com/asceticjourney/journey/internal/domain/journey"
	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
)

// Config holds journeycard command configuration.
type Config struct {
	In    string
	Theme string `env:"JOURNEYCARD_THEME" envDefault:"light"`
	Out   string `env:"JOURNEYCARD_OUT" envDefault:"journey-complete.png"`
	Copy  bool
	Share bool
}

// ParseConfig parses environment and flags into Config. Flags win.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	fs.StringVar(&cfg.In, "in", cfg.In, "State JSON file ({practiceCompletions, journalEntries, startDate}); - reads stdin")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "Card theme: light, dark or monastic")
	fs.StringVar(&cfg.Out, "out", cfg.Out, "PNG output path (empty skips the card)")
	fs.BoolVar(&cfg.Copy, "copy", cfg.Copy, "Copy the share text to the clipboard")
	fs.BoolVar(&cfg.Share, "share", cfg.Share, "Share the text natively, falling back to the clipboard")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.In == "" {
		return Config{}, errors.New("-in is required")
	}
	return cfg, nil
}

// now is the clock used for statistics.
var now = time.Now

// stdin is read when -in is "-".
var stdin io.Reader = os.Stdin

// Run computes statistics for cfg.In, prints them to out, writes the card and
// performs the requested copy or share. A nil caps selects the system
// clipboard when one exists, otherwise out.
func Run(ctx context.Context, cfg Config, out io.Writer, caps sharecap.Capabilities, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := readInput(cfg.In)
	if err != nil {
		return err
	}
	state, err := journey.ParseState(data)
	if err != nil {
		return err
	}

	stats := journey.Compute(state, now())
	printStats(out, stats)

	if cfg.Out != "" {
		if err := writeCard(cfg.Out, stats, themes.Parse(cfg.Theme)); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nCard written to %s\n", cfg.Out)
	}

	if !cfg.Copy && !cfg.Share {
		return nil
	}

	if caps == nil {
		caps = defaultCapabilities(out)
	}
	ctrl := sharecap.NewController(caps, journey.ShareTitle, journey.ShareText(stats), logger)
	defer ctrl.Close()

	if cfg.Share {
		ctrl.Share(ctx)
	} else {
		ctrl.Copy(ctx)
	}
	if ctrl.Copied() {
		fmt.Fprintln(out, "✓ Copied to clipboard!")
	}
	return nil
}

func defaultCapabilities(out io.Writer) sharecap.Capabilities {
	if sharecap.ClipboardAvailable() {
		return sharecap.Clipboard{}
	}
	return sharecap.Writer{W: out}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	return data, nil
}

func printStats(w io.Writer, s journey.Statistics) {
	fmt.Fprintf(w, "Your Journey: %s - %s (%d days)\n\n", s.StartDate, s.EndDate, s.DaysSinceStart)
	fmt.Fprintf(w, "  Days Completed             %d/%d\n", s.CompletedDays, journey.ProgramDays)
	fmt.Fprintf(w, "  Journal Entries            %d\n", s.JournalEntries)
	fmt.Fprintf(w, "  Words Written              %s\n", journey.FormatCount(s.TotalWords))
	fmt.Fprintf(w, "  Average per Entry          %d\n", s.AverageWords)
	fmt.Fprintf(w, "  Total Practices Completed  %d\n", s.TotalPracticesCompleted)
}

func writeCard(path string, s journey.Statistics, theme themes.Theme) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create card: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close card: %w", cerr)
		}
	}()
	if err := sharecard.Render(f, s, theme); err != nil {
		return fmt.Errorf("render card: %w", err)
	}
	return nil
}
