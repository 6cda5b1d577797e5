package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/makehaven/profile-membership/internal/domain/entity"
	"github.com/makehaven/profile-membership/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeAuthService struct {
	userByToken   map[string]*entity.User
	registerCalls int
}

func (s *fakeAuthService) Register(ctx context.Context, create *entity.UserCreate) (*entity.User, string, error) {
	s.registerCalls++
	user := &entity.User{ID: uuid.New(), Email: create.Email, Username: create.Username}
	s.userByToken["tok-"+user.ID.String()] = user
	return user, "tok-" + user.ID.String(), nil
}

func (s *fakeAuthService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	for token, user := range s.userByToken {
		if user.Email == email {
			return user, token, nil
		}
	}
	return nil, "", assert.AnError
}

func (s *fakeAuthService) Logout(ctx context.Context, token string) error {
	delete(s.userByToken, token)
	return nil
}

func (s *fakeAuthService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	return s.userByToken[token], nil
}

type fakeMembershipService struct {
	initiateStep   service.InitiateStep
	initiateErr    error
	finalizeResult *service.FinalizeResult
	finalizeErr    error
	gotSessionID   string
	gotParams      url.Values
}

func (s *fakeMembershipService) Initiate(ctx context.Context, sessionID string, current *entity.User, email string, params url.Values) (service.InitiateStep, error) {
	s.gotSessionID = sessionID
	s.gotParams = params
	return s.initiateStep, s.initiateErr
}

func (s *fakeMembershipService) Finalize(ctx context.Context, sessionID string, current *entity.User) (*service.FinalizeResult, error) {
	s.gotSessionID = sessionID
	return s.finalizeResult, s.finalizeErr
}

type fakeProfileService struct {
	profile *entity.Profile
	updated *entity.ProfileUpdate
}

func (s *fakeProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	return s.profile, nil
}

func (s *fakeProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, update *entity.ProfileUpdate) (*entity.Profile, error) {
	s.updated = update
	return &entity.Profile{ID: uuid.New(), UserID: userID, Goals: update.Goals, Entrepreneurship: update.Entrepreneurship}, nil
}

type fakeSettingsRepo struct {
	settings *entity.FollowupSettings
	saved    *entity.FollowupSettings
}

func (r *fakeSettingsRepo) Get(ctx context.Context) (*entity.FollowupSettings, error) {
	if r.settings == nil {
		return entity.DefaultFollowupSettings(), nil
	}
	return r.settings, nil
}

func (r *fakeSettingsRepo) Save(ctx context.Context, settings *entity.FollowupSettings) error {
	r.saved = settings
	return nil
}

type handlerFixture struct {
	handler    *Handler
	auth       *fakeAuthService
	membership *fakeMembershipService
	profiles   *fakeProfileService
	settings   *fakeSettingsRepo
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	auth := &fakeAuthService{userByToken: make(map[string]*entity.User)}
	membership := &fakeMembershipService{}
	profiles := &fakeProfileService{}
	settings := &fakeSettingsRepo{}

	return &handlerFixture{
		handler:    NewHandler(auth, membership, profiles, settings, zaptest.NewLogger(t)),
		auth:       auth,
		membership: membership,
		profiles:   profiles,
		settings:   settings,
	}
}

// loginAs registers a user with the fake auth service and returns the
// matching auth cookie
func (f *handlerFixture) loginAs(user *entity.User) *http.Cookie {
	token := "tok-" + user.ID.String()
	f.auth.userByToken[token] = user
	return &http.Cookie{Name: AuthCookieName, Value: token}
}

func decodeFlash(t *testing.T, rec *httptest.ResponseRecorder) Flash {
	t.Helper()

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == FlashCookieName && cookie.MaxAge >= 0 && cookie.Value != "" {
			decoded, err := base64.RawURLEncoding.DecodeString(cookie.Value)
			require.NoError(t, err)
			var flash Flash
			require.NoError(t, json.Unmarshal(decoded, &flash))
			return flash
		}
	}
	t.Fatal("no flash cookie set")
	return Flash{}
}

func TestInitiate_MissingEmail(t *testing.T) {
	f := newHandlerFixture(t)
	f.membership.initiateErr = entity.ErrMissingEmail

	req := httptest.NewRequest(http.MethodGet, "/membership/initiate", nil)
	rec := httptest.NewRecorder()
	f.handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	flash := decodeFlash(t, rec)
	assert.Equal(t, FlashError, flash.Kind)
	assert.Contains(t, flash.Message, "Missing email information")
}

func TestInitiate_UnknownEmailRedirectsToRegister(t *testing.T) {
	f := newHandlerFixture(t)
	f.membership.initiateStep = service.StepRegister

	req := httptest.NewRequest(http.MethodGet, "/membership/initiate?email=new%40example.com&plan=gold", nil)
	rec := httptest.NewRecorder()
	f.handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/register", location.Path)
	assert.Equal(t, "new@example.com", location.Query().Get("email"))
	assert.Equal(t, "gold", location.Query().Get("plan"), "payment parameters survive the redirect")
}

func TestInitiate_MintsFlowCookie(t *testing.T) {
	f := newHandlerFixture(t)
	f.membership.initiateStep = service.StepLogin

	req := httptest.NewRequest(http.MethodGet, "/membership/initiate?email=m%40example.com", nil)
	rec := httptest.NewRecorder()
	f.handler.Routes().ServeHTTP(rec, req)

	var flowCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == FlowCookieName {
			flowCookie = cookie
		}
	}
	require.NotNil(t, flowCookie, "anonymous visitors get a flow session cookie")
	assert.Equal(t, flowCookie.Value, f.membership.gotSessionID)
	assert.Equal(t, "/login?destination=/membership/finalize", rec.Header().Get("Location"))
}

func TestInitiate_LoginMismatchWarns(t *testing.T) {
	f := newHandlerFixture(t)
	f.membership.initiateStep = service.StepLoginMismatch

	req := httptest.NewRequest(http.MethodGet, "/membership/initiate?email=m%40example.com", nil)
	rec := httptest.NewRecorder()
	f.handler.Routes().ServeHTTP(rec, req)

	flash := decodeFlash(t, rec)
	assert.Equal(t, FlashWarning, flash.Kind)
	assert.Contains(t, flash.Message, "logged in as a different user")
	assert.Equal(t, "/login?destination=/membership/finalize", rec.Header().Get("Location"))
}

func TestFinalize_NotAuthenticated(t *testing.T) {
	f := newHandlerFixture(t)
	f.membership.finalizeErr = entity.ErrNotAuthenticated

	req := httptest.NewRequest(http.MethodGet, "/membership/finalize", nil)
	rec := httptest.NewRecorder()
	f.handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, "/login?destination=/membership/finalize", rec.Header().Get("Location"))

	flash := decodeFlash(t, rec)
	assert.Contains(t, flash.Message, "must be logged in to finalize")
}

func TestFinalize_Expired(t *testing.T) {
	f := newHandlerFixture(t)
	f.membership.finalizeErr = entity.ErrActivationExpired

	req := httptest.NewRequest(http.MethodGet, "/membership/finalize", nil)
	rec := httptest.NewRecorder()
	f.handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, "/", rec.Header().Get("Location"))

	flash := decodeFlash(t, rec)
	assert.Contains(t, flash.Message, "missing or expired")
}

func TestFinalize_WrongAccount(t *testing.T) {
	f := newHandlerFixture(t)
	f.membership.finalizeErr = entity.ErrWrongAccount

	req := httptest.NewRequest(http.MethodGet, "/membership/finalize", nil)
	rec := httptest.NewRecorder()
	f.handler.Routes().ServeHTTP(rec, req)

	flash := decodeFlash(t, rec)
	assert.Contains(t, flash.Message, "does not match the account")
}

func TestFinalize_SuccessRedirectsToProfile(t *testing.T) {
	f := newHandlerFixture(t)
	user := &entity.User{ID: uuid.New(), Email: "m@example.com", Username: "m"}
	f.membership.finalizeResult = &service.FinalizeResult{
		User:   user,
		Params: url.Values{"plan": {"gold"}},
	}

	req := httptest.NewRequest(http.MethodGet, "/membership/finalize", nil)
	rec := httptest.NewRecorder()
	f.handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/user/"+user.ID.String()+"/main", location.Path)
	assert.Equal(t, "gold", location.Query().Get("plan"))
}

func TestProfile_RequiresLogin(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/user/"+uuid.New().String()+"/main", nil)
	rec := httptest.NewRecorder()
	f.handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/login?destination=")
}

func TestProfile_DeniesOtherUsers(t *testing.T) {
	f := newHandlerFixture(t)
	current := &entity.User{ID: uuid.New(), Email: "a@example.com", Username: "a"}

	req := httptest.NewRequest(http.MethodGet, "/user/"+uuid.New().String()+"/main", nil)
	req.AddCookie(f.loginAs(current))
	rec := httptest.NewRecorder()
	f.handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProfile_AdminCanViewAny(t *testing.T) {
	f := newHandlerFixture(t)
	admin := &entity.User{ID: uuid.New(), Email: "a@example.com", Username: "a", Roles: []string{entity.RoleAdmin}}

	req := httptest.NewRequest(http.MethodGet, "/user/"+uuid.New().String()+"/main", nil)
	req.AddCookie(f.loginAs(admin))
	rec := httptest.NewRecorder()
	f.handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateProfile_SavesSelections(t *testing.T) {
	f := newHandlerFixture(t)
	user := &entity.User{ID: uuid.New(), Email: "a@example.com", Username: "a"}

	form := url.Values{
		"goals":            {entity.GoalEntrepreneur},
		"entrepreneurship": {entity.EntrepreneurshipPatent},
	}
	req := httptest.NewRequest(http.MethodPost, "/user/"+user.ID.String()+"/main", nil)
	req.URL.RawQuery = ""
	req.PostForm = form
	req.Form = form
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(f.loginAs(user))

	rec := httptest.NewRecorder()
	f.handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.NotNil(t, f.profiles.updated)
	assert.Equal(t, []string{entity.GoalEntrepreneur}, f.profiles.updated.Goals)
	assert.Equal(t, []string{entity.EntrepreneurshipPatent}, f.profiles.updated.Entrepreneurship)
}

func TestRegister_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{
			name: "malformed email",
			form: url.Values{"email": {"not-an-email"}, "username": {"maker"}, "password": {"long-enough-password"}},
		},
		{
			name: "short username",
			form: url.Values{"email": {"m@example.com"}, "username": {"ab"}, "password": {"long-enough-password"}},
		},
		{
			name: "short password",
			form: url.Values{"email": {"m@example.com"}, "username": {"maker"}, "password": {"x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t)

			req := httptest.NewRequest(http.MethodPost, "/register", nil)
			req.PostForm = tt.form
			req.Form = tt.form
			rec := httptest.NewRecorder()
			f.handler.Routes().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Contains(t, rec.Header().Get("Location"), "/register")
			assert.Equal(t, 0, f.auth.registerCalls, "invalid input must not reach the auth service")

			flash := decodeFlash(t, rec)
			assert.Equal(t, FlashError, flash.Kind)
			assert.Contains(t, flash.Message, "Could not create the account")
		})
	}
}

func TestSettings_RequiresAdmin(t *testing.T) {
	f := newHandlerFixture(t)
	user := &entity.User{ID: uuid.New(), Email: "a@example.com", Username: "a"}

	req := httptest.NewRequest(http.MethodGet, "/admin/membership/settings", nil)
	req.AddCookie(f.loginAs(user))
	rec := httptest.NewRecorder()
	f.handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSaveSettings_NormalizesSelections(t *testing.T) {
	f := newHandlerFixture(t)
	admin := &entity.User{ID: uuid.New(), Email: "a@example.com", Username: "a", Roles: []string{entity.RoleAdmin}}

	form := url.Values{
		"entrepreneurship_email_enabled": {"1"},
		"send_once":                      {"1"},
		"regional_support_url":           {"  https://example.com/support  "},
		"trigger_goal_values":            {entity.GoalEntrepreneur, "", "bogus"},
		"entrepreneurship_email_subject": {"  Subject  "},
		"entrepreneurship_email_body":    {"Body"},
	}
	req := httptest.NewRequest(http.MethodPost, "/admin/membership/settings", nil)
	req.PostForm = form
	req.Form = form
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(f.loginAs(admin))

	rec := httptest.NewRecorder()
	f.handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.NotNil(t, f.settings.saved)
	assert.True(t, f.settings.saved.Enabled)
	assert.Equal(t, "https://example.com/support", f.settings.saved.RegionalSupportURL)
	assert.Equal(t, []string{entity.GoalEntrepreneur}, f.settings.saved.TriggerGoalValues, "blank and unknown options are dropped")
	assert.Equal(t, "Subject", f.settings.saved.EmailSubject)
}

func TestSaveSettings_RequiresSubject(t *testing.T) {
	f := newHandlerFixture(t)
	admin := &entity.User{ID: uuid.New(), Email: "a@example.com", Username: "a", Roles: []string{entity.RoleAdmin}}

	form := url.Values{"entrepreneurship_email_body": {"Body"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/membership/settings", nil)
	req.PostForm = form
	req.Form = form
	req.AddCookie(f.loginAs(admin))

	rec := httptest.NewRecorder()
	f.handler.Routes().ServeHTTP(rec, req)

	assert.Nil(t, f.settings.saved)

	flash := decodeFlash(t, rec)
	assert.Equal(t, FlashError, flash.Kind)
	assert.Contains(t, flash.Message, "subject is required")
}

func TestSafeDestination(t *testing.T) {
	assert.Equal(t, "/", safeDestination(""))
	assert.Equal(t, "/", safeDestination("https://evil.example.com"))
	assert.Equal(t, "/", safeDestination("//evil.example.com"))
	assert.Equal(t, "/membership/finalize", safeDestination("/membership/finalize"))
}
