package authpage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	uierrors "github.com/asceticjourney/journey/internal/app/features/errors"
	"github.com/asceticjourney/journey/internal/app/store/emailverify"
	"github.com/asceticjourney/journey/internal/app/system/auth"
	"github.com/asceticjourney/journey/internal/app/system/mailer"
	"github.com/asceticjourney/journey/internal/app/system/ratelimit"
	"github.com/asceticjourney/journey/internal/domain/models"
	"github.com/asceticjourney/journey/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| fakes                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

type fakeUsers struct {
	user    *models.User
	touched []primitive.ObjectID
}

func (f *fakeUsers) FindOrCreate(_ context.Context, email string) (*models.User, bool, error) {
	if f.user == nil {
		f.user = &models.User{ID: primitive.NewObjectID(), Email: email}
		return f.user, true, nil
	}
	return f.user, false, nil
}

func (f *fakeUsers) TouchLogin(_ context.Context, id primitive.ObjectID) error {
	f.touched = append(f.touched, id)
	return nil
}

type fakeVerifications struct {
	createErr error
	codeErr   error
	token     string
	userID    primitive.ObjectID
	email     string
}

func (f *fakeVerifications) Create(_ context.Context, userID primitive.ObjectID, email string) (*emailverify.CreateResult, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.userID, f.email = userID, email
	f.token = "tok123"
	return &emailverify.CreateResult{Code: "123456", Token: f.token}, nil
}

func (f *fakeVerifications) VerifyCode(_ context.Context, userID primitive.ObjectID, code string) (*emailverify.Verification, error) {
	if f.codeErr != nil {
		return nil, f.codeErr
	}
	if userID != f.userID || code != "123456" {
		return nil, emailverify.ErrInvalidCode
	}
	return &emailverify.Verification{UserID: userID, Email: f.email}, nil
}

func (f *fakeVerifications) VerifyToken(_ context.Context, token string) (*emailverify.Verification, error) {
	if token == "" || token != f.token {
		return nil, emailverify.ErrNotFound
	}
	f.token = ""
	return &emailverify.Verification{UserID: f.userID, Email: f.email}, nil
}

func (f *fakeVerifications) Expiry() time.Duration { return 10 * time.Minute }

type fakeJourneys struct {
	started []primitive.ObjectID
	err     error
}

func (f *fakeJourneys) Ensure(_ context.Context, id primitive.ObjectID) (*models.Journey, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.started = append(f.started, id)
	return &models.Journey{UserID: id, StartDate: time.Now()}, nil
}

type recordingSender struct {
	sent []mailer.Email
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg mailer.Email) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type rendered struct {
	name string
	data any
}

type fixture struct {
	h        *Handler
	users    *fakeUsers
	verify   *fakeVerifications
	journeys *fakeJourneys
	mail     *recordingSender
	last     *rendered
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	f := &fixture{
		users:    &fakeUsers{},
		verify:   &fakeVerifications{},
		journeys: &fakeJourneys{},
		mail:     &recordingSender{},
	}
	limiter := ratelimit.NewAuthLimiter(100, time.Minute, 100, time.Minute)
	t.Cleanup(limiter.Stop)

	f.h = NewHandler(sm, uierrors.NewErrorLogger(zap.NewNop()), f.users, f.verify, f.journeys, f.mail, limiter, "https://journey.test/", zap.NewNop())
	f.h.render = func(_ http.ResponseWriter, _ *http.Request, name string, data any) {
		f.last = &rendered{name: name, data: data}
	}
	return f
}

func (f *fixture) lastForm(t *testing.T) authFormData {
	t.Helper()
	if f.last == nil || f.last.name != "auth" {
		t.Fatalf("expected auth form to render, got %+v", f.last)
	}
	return f.last.data.(authFormData)
}

func withCookies(req *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

/*─────────────────────────────────────────────────────────────────────────────*
| tests                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func TestServeAuth_SignedInRedirects(t *testing.T) {
	f := newFixture(t)
	rec := testutil.NewRecorder()

	f.h.ServeAuth(rec, testutil.NewAuthenticatedRequest("GET", "/auth", testutil.Journeyer()))

	rec.AssertRedirect(t, "/dashboard")
}

func TestServeAuth_KeepsReturnURL(t *testing.T) {
	f := newFixture(t)

	f.h.ServeAuth(httptest.NewRecorder(), httptest.NewRequest("GET", "/auth?return=/journey/complete", nil))

	if got := f.lastForm(t).ReturnURL; got != "/journey/complete" {
		t.Errorf("ReturnURL = %q", got)
	}
}

func TestHandleAuthPost_Validation(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"empty", "", MsgEmailRequired},
		{"blank", "   ", MsgEmailRequired},
		{"invalid", "not-an-email", MsgEmailInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := testutil.NewFormRequest("/auth", map[string]string{"email": tt.email})

			f.h.HandleAuthPost(httptest.NewRecorder(), req)

			if got := f.lastForm(t).Error; got != tt.want {
				t.Errorf("Error = %q, want %q", got, tt.want)
			}
			if len(f.mail.sent) != 0 {
				t.Error("no email should be sent")
			}
		})
	}
}

func TestHandleAuthPost_SendsMagicLink(t *testing.T) {
	f := newFixture(t)
	req := testutil.NewFormRequest("/auth", map[string]string{"email": "seeker@example.com"})
	rec := httptest.NewRecorder()

	f.h.HandleAuthPost(rec, req)

	form := f.lastForm(t)
	if form.Message != MsgLinkSent || form.Error != "" {
		t.Fatalf("form = %+v", form)
	}
	if len(f.mail.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(f.mail.sent))
	}
	msg := f.mail.sent[0]
	if msg.To != "seeker@example.com" {
		t.Errorf("To = %q", msg.To)
	}
	if !strings.Contains(msg.TextBody, "https://journey.test/auth/verify?token=tok123") {
		t.Errorf("magic link missing from body:\n%s", msg.TextBody)
	}
	if !strings.Contains(msg.TextBody, "123456") {
		t.Error("code missing from body")
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected pending session cookie")
	}
}

func TestHandleAuthPost_RateLimited(t *testing.T) {
	f := newFixture(t)
	f.h.Limiter = ratelimit.NewAuthLimiter(100, time.Minute, 1, time.Minute)
	t.Cleanup(f.h.Limiter.Stop)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		f.h.HandleAuthPost(rec, testutil.NewFormRequest("/auth", map[string]string{"email": "seeker@example.com"}))
		if i == 1 && rec.Code != http.StatusTooManyRequests {
			t.Errorf("second request status = %d, want 429", rec.Code)
		}
	}

	if got := f.lastForm(t).Error; got != ratelimit.MsgTooManyForEmail {
		t.Errorf("Error = %q", got)
	}
	if len(f.mail.sent) != 1 {
		t.Errorf("sent %d emails, want 1", len(f.mail.sent))
	}
}

func TestHandleAuthPost_SendFailureShowsError(t *testing.T) {
	f := newFixture(t)
	f.mail.err = errors.New("smtp down")

	f.h.HandleAuthPost(httptest.NewRecorder(), testutil.NewFormRequest("/auth", map[string]string{"email": "seeker@example.com"}))

	if got := f.lastForm(t).Error; got != MsgSendFailed {
		t.Errorf("Error = %q", got)
	}
}

func TestServeVerify_TokenSignsInAndStartsJourney(t *testing.T) {
	f := newFixture(t)

	postRec := httptest.NewRecorder()
	f.h.HandleAuthPost(postRec, testutil.NewFormRequest("/auth", map[string]string{
		"email":  "seeker@example.com",
		"return": "/journey/complete",
	}))

	req := withCookies(httptest.NewRequest("GET", "/auth/verify?token=tok123", nil), postRec)
	rec := testutil.NewRecorder()
	f.h.ServeVerify(rec, req)

	rec.AssertRedirect(t, "/journey/complete")
	if len(f.journeys.started) != 1 || f.journeys.started[0] != f.users.user.ID {
		t.Errorf("journey started for %v", f.journeys.started)
	}
	if len(f.users.touched) != 1 {
		t.Error("expected last login to be recorded")
	}

	// The new session cookie must authenticate the user.
	var signedIn bool
	check := f.h.SessionMgr.LoadSessionUser(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, signedIn = auth.CurrentUser(r)
	}))
	check.ServeHTTP(httptest.NewRecorder(), withCookies(httptest.NewRequest("GET", "/dashboard", nil), rec.ResponseRecorder))
	if !signedIn {
		t.Error("expected session to be signed in after verification")
	}
}

func TestServeVerify_TokenIsSingleUse(t *testing.T) {
	f := newFixture(t)
	f.h.HandleAuthPost(httptest.NewRecorder(), testutil.NewFormRequest("/auth", map[string]string{"email": "seeker@example.com"}))

	f.h.ServeVerify(httptest.NewRecorder(), httptest.NewRequest("GET", "/auth/verify?token=tok123", nil))

	rec := httptest.NewRecorder()
	f.h.ServeVerify(rec, httptest.NewRequest("GET", "/auth/verify?token=tok123", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if got := f.lastForm(t).Error; got != MsgLinkInvalid {
		t.Errorf("Error = %q", got)
	}
}

func TestServeVerify_NoTokenNoPendingRedirects(t *testing.T) {
	f := newFixture(t)
	rec := testutil.NewRecorder()

	f.h.ServeVerify(rec, httptest.NewRequest("GET", "/auth/verify", nil))

	rec.AssertRedirect(t, "/auth")
}

func TestHandleVerifyPost_CodeFallback(t *testing.T) {
	f := newFixture(t)
	postRec := httptest.NewRecorder()
	f.h.HandleAuthPost(postRec, testutil.NewFormRequest("/auth", map[string]string{"email": "seeker@example.com"}))

	// Wrong code first.
	bad := withCookies(testutil.NewFormRequest("/auth/verify", map[string]string{"code": "000000"}), postRec)
	f.h.HandleVerifyPost(httptest.NewRecorder(), bad)
	if f.last.name != "auth_verify" || f.last.data.(verifyFormData).Error != MsgCodeInvalid {
		t.Fatalf("expected invalid code form, got %+v", f.last)
	}

	good := withCookies(testutil.NewFormRequest("/auth/verify", map[string]string{"code": "123456"}), postRec)
	rec := testutil.NewRecorder()
	f.h.HandleVerifyPost(rec, good)

	rec.AssertRedirect(t, "/dashboard")
	if len(f.journeys.started) != 1 {
		t.Error("expected journey to be ensured")
	}
}

func TestHandleVerifyPost_TooManyAttempts(t *testing.T) {
	f := newFixture(t)
	postRec := httptest.NewRecorder()
	f.h.HandleAuthPost(postRec, testutil.NewFormRequest("/auth", map[string]string{"email": "seeker@example.com"}))
	f.verify.codeErr = emailverify.ErrTooManyAttempts

	req := withCookies(testutil.NewFormRequest("/auth/verify", map[string]string{"code": "123456"}), postRec)
	f.h.HandleVerifyPost(httptest.NewRecorder(), req)

	if got := f.last.data.(verifyFormData).Error; got != MsgCodeLocked {
		t.Errorf("Error = %q", got)
	}
}

func TestCompleteSignIn_JourneyErrorIs500(t *testing.T) {
	f := newFixture(t)
	f.h.HandleAuthPost(httptest.NewRecorder(), testutil.NewFormRequest("/auth", map[string]string{"email": "seeker@example.com"}))
	f.journeys.err = errors.New("db down")

	rec := httptest.NewRecorder()
	func() {
		defer func() { _ = recover() }()
		f.h.ServeVerify(rec, httptest.NewRequest("GET", "/auth/verify?token=tok123", nil))
	}()

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
