// internal/app/features/completion/handler.go
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	uierrors "github.com/asceticjourney/journey/internal/app/features/errors"
	"github.com/asceticjourney/journey/internal/app/system/auth"
	"github.com/asceticjourney/journey/internal/app/system/sharecard"
	"github.com/asceticjourney/journey/internal/app/system/themes"
	"github.com/asceticjourney/journey/internal/app/system/timeouts"
	"github.com/asceticjourney/journey/internal/app/system/viewdata"
	"github.com/asceticjourney/journey/internal/domain/journey"
	"github.com/asceticjourney/journey/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Message closes the completion view.
const Message = "You've journeyed through 84 days of intentional practice. " +
	"Every day completed, every word written, and every practice attempted " +
	"has contributed to your growth. Share your journey and inspire others to begin their own."

// JourneyStore loads (or lazily starts) a user's journey.
type JourneyStore interface {
	Ensure(ctx context.Context, userID primitive.ObjectID) (*models.Journey, error)
}

type Handler struct {
	Journeys JourneyStore
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
	now      func() time.Time
	render   func(w http.ResponseWriter, r *http.Request, name string, data any)
}

func NewHandler(journeys JourneyStore, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Journeys: journeys,
		ErrLog:   errLog,
		Log:      logger,
		now:      time.Now,
		render:   templates.Render,
	}
}

type tile struct {
	Value string
	Label string
}

type completionData struct {
	viewdata.BaseVM

	Stats     journey.Statistics
	Tiles     []tile
	Message   string
	ShareText string
	CardURL   string
	CardName  string
}

// stats recomputes the user's statistics from the stored journey. Nothing is
// cached between requests.
func (h *Handler) stats(r *http.Request) (journey.Statistics, error) {
	u, _ := auth.CurrentUser(r)
	uid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return journey.Statistics{}, err
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load journey")
	defer cancel()

	j, err := h.Journeys.Ensure(ctx, uid)
	if err != nil {
		return journey.Statistics{}, err
	}
	return journey.Compute(j.State(), h.now()), nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /journey/complete                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeComplete(w http.ResponseWriter, r *http.Request) {
	s, err := h.stats(r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "compute statistics failed", err, "We couldn't load your journey.", "/dashboard")
		return
	}

	h.render(w, r, "completion", completionData{
		BaseVM:    viewdata.NewBaseVM(r, "Journey Complete"),
		Stats:     s,
		Tiles:     tiles(s),
		Message:   Message,
		ShareText: journey.ShareText(s),
		CardURL:   "/journey/complete/card.png",
		CardName:  sharecard.Filename,
	})
}

func tiles(s journey.Statistics) []tile {
	return []tile{
		{strconv.Itoa(s.CompletedDays), "Days Completed"},
		{strconv.Itoa(s.JournalEntries), "Journal Entries"},
		{journey.FormatCount(s.TotalWords), "Words Written"},
		{strconv.Itoa(s.AverageWords), "Average per Entry"},
		{strconv.Itoa(s.TotalPracticesCompleted), "Total Practices Completed"},
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /journey/complete/share.txt                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeShareText(w http.ResponseWriter, r *http.Request) {
	s, err := h.stats(r)
	if err != nil {
		h.ErrLog.PlainServerError(w, r, "compute statistics failed", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(journey.ShareText(s)))
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /journey/complete/card.png                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeCard renders the stats card in the visitor's theme as a download.
func (h *Handler) ServeCard(w http.ResponseWriter, r *http.Request) {
	s, err := h.stats(r)
	if err != nil {
		h.ErrLog.PlainServerError(w, r, "compute statistics failed", err)
		return
	}

	theme := themes.FromRequest(r)
	var buf bytes.Buffer
	if err := sharecard.Render(&buf, s, theme); err != nil {
		h.ErrLog.PlainServerError(w, r, "render share card failed", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="`+sharecard.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)

	h.Log.Debug("share card rendered", zap.String("theme", string(theme)), zap.Int("bytes", buf.Len()))
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /journey/complete/stats.json                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeStatsJSON(w http.ResponseWriter, r *http.Request) {
	s, err := h.stats(r)
	if err != nil {
		h.ErrLog.PlainServerError(w, r, "compute statistics failed", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(s); err != nil {
		h.Log.Warn("encode statistics failed", zap.Error(err))
	}
}
