package consent

import (
	"net/http"
	"time"

	consentsys "github.com/asceticjourney/journey/internal/app/system/consent"
	"github.com/asceticjourney/journey/internal/app/system/navigation"
	"go.uber.org/zap"
)

// AcceptedEvent is sent in HX-Trigger once consent is stored.
const AcceptedEvent = "consent-accepted"

type Handler struct {
	Log     *zap.Logger
	Consent *consentsys.Manager
	now     func() time.Time
}

func NewHandler(mgr *consentsys.Manager, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Consent: mgr, now: time.Now}
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /consent                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleAccept stores the consent record. HTMX callers get 204 and remove
// the banner client-side; plain form posts are redirected back.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Consent.Accept(w, h.now()); err != nil {
		// The banner stays up and the visitor can try again.
		h.Log.Error("store consent failed", zap.Error(err))
		http.Error(w, "could not save consent", http.StatusInternalServerError)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Trigger", AcceptedEvent)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	dest := navigation.SafeBackURL(r, navigation.AfterConsent)
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
