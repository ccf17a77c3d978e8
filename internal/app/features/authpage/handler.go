// internal/app/features/authpage/handler.go
package authpage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	uierrors "github.com/asceticjourney/journey/internal/app/features/errors"
	"github.com/asceticjourney/journey/internal/app/store/emailverify"
	"github.com/asceticjourney/journey/internal/app/system/auth"
	"github.com/asceticjourney/journey/internal/app/system/mailer"
	"github.com/asceticjourney/journey/internal/app/system/navigation"
	"github.com/asceticjourney/journey/internal/app/system/ratelimit"
	"github.com/asceticjourney/journey/internal/app/system/timeouts"
	"github.com/asceticjourney/journey/internal/app/system/viewdata"
	"github.com/asceticjourney/journey/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/validate"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Users is the subset of the user store the sign-in flow needs.
type Users interface {
	FindOrCreate(ctx context.Context, email string) (*models.User, bool, error)
	TouchLogin(ctx context.Context, id primitive.ObjectID) error
}

// Verifications issues and consumes magic links and codes.
type Verifications interface {
	Create(ctx context.Context, userID primitive.ObjectID, email string) (*emailverify.CreateResult, error)
	VerifyCode(ctx context.Context, userID primitive.ObjectID, code string) (*emailverify.Verification, error)
	VerifyToken(ctx context.Context, token string) (*emailverify.Verification, error)
	Expiry() time.Duration
}

// Journeys starts a journey the first time a user signs in.
type Journeys interface {
	Ensure(ctx context.Context, userID primitive.ObjectID) (*models.Journey, error)
}

type Handler struct {
	Log           *zap.Logger
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	Users         Users
	Verifications Verifications
	Journeys      Journeys
	Mail          mailer.Sender
	Limiter       *ratelimit.AuthLimiter
	BaseURL       string // scheme://host used in magic links

	render func(w http.ResponseWriter, r *http.Request, name string, data any)
}

func NewHandler(
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	users Users,
	verifications Verifications,
	journeys Journeys,
	mail mailer.Sender,
	limiter *ratelimit.AuthLimiter,
	baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		Users:         users,
		Verifications: verifications,
		Journeys:      journeys,
		Mail:          mail,
		Limiter:       limiter,
		BaseURL:       strings.TrimRight(baseURL, "/"),
		render:        templates.Render,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// Messages shown on the sign-in form.
const (
	MsgEmailRequired = "Please enter your email address"
	MsgEmailInvalid  = "Please enter a valid email address"
	MsgSendFailed    = "We couldn't send your magic link. Please try again."
	MsgLinkSent      = "Check your email for a magic link to access your account!"
	MsgLinkInvalid   = "This sign-in link is invalid or has expired. Please request a new one."
	MsgCodeRequired  = "Please enter the code from your email."
	MsgCodeInvalid   = "Invalid or expired code. Please try again."
	MsgCodeLocked    = "Too many incorrect attempts. Please request a new magic link."
)

type authFormData struct {
	viewdata.BaseVM
	Email     string
	ReturnURL string
	Error     string
	Message   string
}

type verifyFormData struct {
	viewdata.BaseVM
	Email string
	Error string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeAuth shows the email form. Signed-in users go straight to their dashboard.
func (h *Handler) ServeAuth(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.renderForm(w, r, authFormData{ReturnURL: navigation.SafeBackURL(r, navigation.AfterSignIn)})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /auth                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleAuthPost signs the visitor up or in by email: the account is created
// on first use and a magic link is sent either way.
func (h *Handler) HandleAuthPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/auth")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	returnURL := navigation.SafeBackURL(r, navigation.AfterSignIn)
	form := authFormData{Email: email, ReturnURL: returnURL}

	if email == "" {
		form.Error = MsgEmailRequired
		h.renderForm(w, r, form)
		return
	}
	if !validate.SimpleEmailValid(email) {
		form.Error = MsgEmailInvalid
		h.renderForm(w, r, form)
		return
	}

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, email); !ok {
			h.Log.Warn("magic link rate limited", zap.String("email", email), zap.String("ip", ratelimit.ClientIP(r)))
			w.WriteHeader(http.StatusTooManyRequests)
			form.Error = msg
			h.renderForm(w, r, form)
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "magic link request")
	defer cancel()

	u, created, err := h.Users.FindOrCreate(ctx, email)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find or create user failed", err, "A server error occurred.", "/auth")
		return
	}
	if created {
		h.Log.Info("new journeyer signed up", zap.String("user_id", u.ID.Hex()))
	}

	result, err := h.Verifications.Create(ctx, u.ID, u.Email)
	if err != nil {
		if errors.Is(err, emailverify.ErrTooManyResends) {
			form.Error = ratelimit.MsgTooManyForEmail
		} else {
			h.Log.Error("create verification failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
			form.Error = MsgSendFailed
		}
		h.renderForm(w, r, form)
		return
	}

	msg := mailer.BuildMagicLinkEmail(mailer.MagicLinkData{
		SiteName:  viewdata.SiteName,
		Code:      result.Code,
		MagicLink: h.magicLink(result.Token),
		ExpiresIn: mailer.FormatExpiry(int(h.Verifications.Expiry().Minutes())),
	})
	msg.To = u.Email

	if err := h.Mail.Send(ctx, msg); err != nil {
		h.Log.Error("send magic link failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		form.Error = MsgSendFailed
		h.renderForm(w, r, form)
		return
	}

	h.Log.Info("magic link sent", zap.String("user_id", u.ID.Hex()), zap.Int("resend_count", result.ResendCount))

	sess := h.session(r)
	sess.Values[auth.PendingUserIDKey] = u.ID.Hex()
	sess.Values[auth.PendingEmailKey] = u.Email
	sess.Values[auth.PendingReturnKey] = returnURL
	if err := sess.Save(r, w); err != nil {
		h.Log.Error("save session failed", zap.Error(err))
	}

	form.Message = MsgLinkSent
	h.renderForm(w, r, form)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/verify                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeVerify consumes a magic-link token, or shows the code form when the
// link was opened without one.
func (h *Handler) ServeVerify(w http.ResponseWriter, r *http.Request) {
	token := query.Get(r, "token")
	if token == "" {
		sess := h.session(r)
		email, _ := sess.Values[auth.PendingEmailKey].(string)
		if email == "" {
			http.Redirect(w, r, "/auth", http.StatusSeeOther)
			return
		}
		h.renderVerify(w, r, verifyFormData{Email: email})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	v, err := h.Verifications.VerifyToken(ctx, token)
	if err != nil {
		h.Log.Warn("magic link rejected", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		h.renderForm(w, r, authFormData{Error: MsgLinkInvalid})
		return
	}

	h.completeSignIn(ctx, w, r, v.UserID, v.Email)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /auth/verify                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleVerifyPost accepts the emailed code for the pending sign-in held in
// the session.
func (h *Handler) HandleVerifyPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/auth")
		return
	}

	sess := h.session(r)
	pendingID, _ := sess.Values[auth.PendingUserIDKey].(string)
	email, _ := sess.Values[auth.PendingEmailKey].(string)
	uid, err := primitive.ObjectIDFromHex(pendingID)
	if err != nil {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return
	}

	code := strings.TrimSpace(r.FormValue("code"))
	if code == "" {
		h.renderVerify(w, r, verifyFormData{Email: email, Error: MsgCodeRequired})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Verifications.VerifyCode(ctx, uid, code); err != nil {
		h.Log.Warn("sign-in code rejected", zap.Error(err), zap.String("user_id", pendingID))
		msg := MsgCodeInvalid
		if errors.Is(err, emailverify.ErrTooManyAttempts) {
			msg = MsgCodeLocked
		}
		h.renderVerify(w, r, verifyFormData{Email: email, Error: msg})
		return
	}

	h.completeSignIn(ctx, w, r, uid, email)
}

// completeSignIn starts the journey if needed, then authenticates the session.
func (h *Handler) completeSignIn(ctx context.Context, w http.ResponseWriter, r *http.Request, uid primitive.ObjectID, email string) {
	if _, err := h.Journeys.Ensure(ctx, uid); err != nil {
		h.ErrLog.LogServerError(w, r, "start journey failed", err, "We couldn't start your journey. Please try again.", "/auth")
		return
	}
	if err := h.Users.TouchLogin(ctx, uid); err != nil {
		h.Log.Warn("touch login failed", zap.Error(err), zap.String("user_id", uid.Hex()))
	}

	sess := h.session(r)
	returnURL, _ := sess.Values[auth.PendingReturnKey].(string)
	auth.SignIn(sess, uid.Hex(), email)
	if err := sess.Save(r, w); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Unable to create session. Please try again.", "/auth")
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}
	h.Log.Info("journeyer signed in", zap.String("user_id", uid.Hex()))

	http.Redirect(w, r, navigation.Clean(returnURL, navigation.AfterSignIn), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// session returns the visitor's session. A cookie that no longer decodes
// (rotated key, tampering) yields a fresh session rather than an error page.
func (h *Handler) session(r *http.Request) *sessions.Session {
	sess, err := h.SessionMgr.GetSession(r)
	if err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			h.Log.Warn("session cookie invalid, using fresh session", zap.Error(err))
		} else {
			h.Log.Error("session store error, using fresh session", zap.Error(err))
		}
	}
	return sess
}

func (h *Handler) magicLink(token string) string {
	return fmt.Sprintf("%s/auth/verify?token=%s", h.BaseURL, url.QueryEscape(token))
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, data authFormData) {
	data.BaseVM = viewdata.NewBaseVM(r, "Sign in")
	h.render(w, r, "auth", data)
}

func (h *Handler) renderVerify(w http.ResponseWriter, r *http.Request, data verifyFormData) {
	data.BaseVM = viewdata.NewBaseVM(r, "Enter your code")
	h.render(w, r, "auth_verify", data)
}
