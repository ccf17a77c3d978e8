// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/asceticjourney/journey/internal/app/features/errors"
	"github.com/asceticjourney/journey/internal/app/system/auth"
	"github.com/asceticjourney/journey/internal/app/system/timeouts"
	"github.com/asceticjourney/journey/internal/app/system/viewdata"
	"github.com/asceticjourney/journey/internal/domain/journey"
	"github.com/asceticjourney/journey/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// JourneyStore loads (or lazily starts) a user's journey.
type JourneyStore interface {
	Ensure(ctx context.Context, userID primitive.ObjectID) (*models.Journey, error)
}

type Handler struct {
	Journeys JourneyStore
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
	now      func() time.Time
}

func NewHandler(journeys JourneyStore, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Journeys: journeys, ErrLog: errLog, Log: logger, now: time.Now}
}

type dashboardData struct {
	viewdata.BaseVM

	CurrentDay     int
	CurrentWeek    int
	ProgramDays    int
	ProgramWeeks   int
	CompletedDays  int
	DaysSinceStart int
	StartDate      string
	TodayComplete  bool
	Finished       bool // the full program has elapsed
}

// ServeDashboard shows where the user is in the program.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	uid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad user id in session", err, "Please sign in again.", "/logout")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	j, err := h.Journeys.Ensure(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load journey failed", err, "We couldn't load your journey.", "/")
		return
	}

	data := h.buildData(r, j)
	h.Log.Debug("dashboard served", zap.String("user_id", u.ID), zap.Int("day", data.CurrentDay))

	templates.Render(w, r, "dashboard", data)
}

func (h *Handler) buildData(r *http.Request, j *models.Journey) dashboardData {
	now := h.now()
	state := j.State()
	stats := journey.Compute(state, now)
	day := journey.CurrentDay(j.StartDate, now)

	return dashboardData{
		BaseVM:         viewdata.NewBaseVM(r, "Dashboard"),
		CurrentDay:     day,
		CurrentWeek:    journey.WeekOf(day),
		ProgramDays:    journey.ProgramDays,
		ProgramWeeks:   journey.ProgramWeeks,
		CompletedDays:  stats.CompletedDays,
		DaysSinceStart: stats.DaysSinceStart,
		StartDate:      stats.StartDate,
		TodayComplete:  journey.IsCompleted(state, day),
		Finished:       stats.DaysSinceStart >= journey.ProgramDays,
	}
}
