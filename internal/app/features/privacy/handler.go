package privacy

import (
	"net/http"
	"time"

	"github.com/asceticjourney/journey/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ContactEmail receives privacy and data-rights requests.
const ContactEmail = "privacy@asceticjourney.com"

type pageData struct {
	viewdata.BaseVM
	LastUpdated  string
	ContactEmail string
}

type Handler struct {
	Log *zap.Logger
	now func() time.Time
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger, now: time.Now}
}

// ServePrivacy renders the GDPR privacy notice. The "last updated" line
// shows the current date.
func (h *Handler) ServePrivacy(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "privacy", h.pageData(r))
}

func (h *Handler) pageData(r *http.Request) pageData {
	return pageData{
		BaseVM:       viewdata.NewBaseVM(r, "Privacy Policy"),
		LastUpdated:  h.now().Format("1/2/2006"),
		ContactEmail: ContactEmail,
	}
}
