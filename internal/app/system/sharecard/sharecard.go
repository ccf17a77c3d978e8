// Package sharecard paints the downloadable "journey complete" image.
package sharecard

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/asceticjourney/journey/internal/app/system/themes"
	"github.com/asceticjourney/journey/internal/domain/journey"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	Width    = 1200
	Height   = 630
	Filename = "journey-complete.png"

	statsY   = 250
	statsX0  = 200
	statsGap = 250
)

var (
	fontsOnce sync.Once
	fontsErr  error
	regular   *truetype.Font
	bold      *truetype.Font
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if regular, fontsErr = truetype.Parse(goregular.TTF); fontsErr != nil {
			return
		}
		bold, fontsErr = truetype.Parse(gobold.TTF)
	})
	return fontsErr
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size})
}

type stat struct {
	label string
	value string
}

// Render writes the card for s as a PNG in the palette of theme.
func Render(w io.Writer, s journey.Statistics, theme themes.Theme) error {
	if err := loadFonts(); err != nil {
		return fmt.Errorf("load fonts: %w", err)
	}
	p := theme.Palette()

	dc := gg.NewContext(Width, Height)

	grad := gg.NewLinearGradient(0, 0, Width, Height)
	grad.AddColorStop(0, hexColor(p.GradientFrom))
	grad.AddColorStop(1, hexColor(p.GradientTo))
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, Width, Height)
	dc.Fill()

	centerX := float64(Width) / 2

	dc.SetColor(hexColor(p.Text))
	dc.SetFontFace(face(bold, 64))
	dc.DrawStringAnchored("84-Day Journey", centerX, 100, 0.5, 0)

	dc.SetColor(hexColor(p.Accent))
	dc.SetFontFace(face(regular, 32))
	dc.DrawStringAnchored("Ascetic Practice", centerX, 160, 0.5, 0)

	for i, st := range cardStats(s) {
		x := float64(statsX0 + i*statsGap)

		dc.SetColor(hexColor(p.Text))
		dc.SetFontFace(face(bold, 56))
		dc.DrawStringAnchored(st.value, x, statsY, 0.5, 0)

		dc.SetColor(hexColor(p.Accent))
		dc.SetFontFace(face(regular, 24))
		dc.DrawStringAnchored(st.label, x, statsY+40, 0.5, 0)
	}

	dc.SetColor(hexColor(p.Accent))
	dc.SetFontFace(face(regular, 24))
	dc.DrawStringAnchored(s.StartDate+" - "+s.EndDate, centerX, 500, 0.5, 0)

	dc.SetColor(hexColor(p.Text))
	dc.SetFontFace(face(regular, 28))
	dc.DrawStringAnchored(journey.SiteHost, centerX, 580, 0.5, 0)

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func cardStats(s journey.Statistics) []stat {
	return []stat{
		{"Days", strconv.Itoa(s.CompletedDays)},
		{"Entries", strconv.Itoa(s.JournalEntries)},
		{"Words", journey.FormatCount(s.TotalWords)},
		{"Practices", strconv.Itoa(s.TotalPracticesCompleted)},
	}
}

// hexColor parses "#rrggbb"; malformed input yields black.
func hexColor(h string) color.Color {
	h = strings.TrimPrefix(h, "#")
	if len(h) != 6 {
		return color.Black
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.Black
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
