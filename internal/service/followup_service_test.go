package service

import (
	"context"
	"errors"
	"testing"

	"github.com/makehaven/profile-membership/internal/domain/entity"
	"github.com/makehaven/profile-membership/internal/domain/repository"
	"github.com/makehaven/profile-membership/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeSettingsRepo struct {
	settings *entity.FollowupSettings
	err      error
}

func (r *fakeSettingsRepo) Get(ctx context.Context) (*entity.FollowupSettings, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.settings, nil
}

func (r *fakeSettingsRepo) Save(ctx context.Context, settings *entity.FollowupSettings) error {
	r.settings = settings
	return nil
}

type fakeProfileRepo struct {
	profiles  map[uuid.UUID]*entity.Profile
	markCalls int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*entity.Profile)}
}

func (r *fakeProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	for _, p := range r.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProfileRepo) Upsert(ctx context.Context, profile *entity.Profile) error {
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakeProfileRepo) MarkFollowupSent(ctx context.Context, profileID uuid.UUID) (bool, error) {
	r.markCalls++
	p, ok := r.profiles[profileID]
	if !ok || p.FollowupSent {
		return false, nil
	}
	p.FollowupSent = true
	return true, nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendFollowup(ctx context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to+"|"+subject+"|"+body)
	return nil
}

func enabledSettings() *entity.FollowupSettings {
	return &entity.FollowupSettings{
		Enabled:                       true,
		SendOnce:                      true,
		RegionalSupportURL:            "https://example.com/support",
		TriggerGoalValues:             []string{entity.GoalEntrepreneur},
		TriggerEntrepreneurshipValues: []string{entity.EntrepreneurshipSerial},
		EmailSubject:                  "Welcome to [site:name]",
		EmailBody:                     "Hello [user:display-name], see [regional_support_url]",
	}
}

func setupFollowup(t *testing.T, settings *entity.FollowupSettings) (service.FollowupService, *fakeProfileRepo, *fakeMailer, *fakeUserRepo, *entity.Profile) {
	t.Helper()

	owner := testUser("owner@example.com")
	name := "Jordan"
	owner.DisplayName = &name

	profile := &entity.Profile{
		ID:     uuid.New(),
		UserID: owner.ID,
		Goals:  []string{entity.GoalEntrepreneur},
	}

	userRepo := newFakeUserRepo(owner)
	profileRepo := newFakeProfileRepo()
	require.NoError(t, profileRepo.Upsert(context.Background(), profile))

	mailer := &fakeMailer{}
	svc := NewFollowupService(&fakeSettingsRepo{settings: settings}, profileRepo, userRepo, mailer, nil, "MakeHaven", zaptest.NewLogger(t))
	return svc, profileRepo, mailer, userRepo, profile
}

func TestFollowupService_SendsOnMatch(t *testing.T) {
	svc, profileRepo, mailer, _, profile := setupFollowup(t, enabledSettings())

	err := svc.HandleProfileSaved(context.Background(), profile)

	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0], "owner@example.com|Welcome to MakeHaven|Hello Jordan, see https://example.com/support")
	assert.True(t, profile.FollowupSent)
	assert.Equal(t, 1, profileRepo.markCalls)
}

func TestFollowupService_Disabled(t *testing.T) {
	settings := enabledSettings()
	settings.Enabled = false
	svc, _, mailer, _, profile := setupFollowup(t, settings)

	require.NoError(t, svc.HandleProfileSaved(context.Background(), profile))
	assert.Empty(t, mailer.sent)
}

func TestFollowupService_NoMatch(t *testing.T) {
	svc, _, mailer, _, profile := setupFollowup(t, enabledSettings())
	profile.Goals = []string{entity.GoalArtist}

	require.NoError(t, svc.HandleProfileSaved(context.Background(), profile))
	assert.Empty(t, mailer.sent)
}

func TestFollowupService_EmptyTriggerSetsNeverMatch(t *testing.T) {
	settings := enabledSettings()
	settings.TriggerGoalValues = nil
	settings.TriggerEntrepreneurshipValues = nil
	svc, _, mailer, _, profile := setupFollowup(t, settings)

	require.NoError(t, svc.HandleProfileSaved(context.Background(), profile))
	assert.Empty(t, mailer.sent, "empty trigger configuration matches nothing")
}

func TestFollowupService_EntrepreneurshipFieldAloneMatches(t *testing.T) {
	svc, _, mailer, _, profile := setupFollowup(t, enabledSettings())
	profile.Goals = nil
	profile.Entrepreneurship = []string{entity.EntrepreneurshipSerial}

	require.NoError(t, svc.HandleProfileSaved(context.Background(), profile))
	assert.Len(t, mailer.sent, 1)
}

func TestFollowupService_SendOnce(t *testing.T) {
	svc, _, mailer, _, profile := setupFollowup(t, enabledSettings())

	require.NoError(t, svc.HandleProfileSaved(context.Background(), profile))
	require.NoError(t, svc.HandleProfileSaved(context.Background(), profile))

	assert.Len(t, mailer.sent, 1, "second matching save must not resend")
}

func TestFollowupService_SendOnceDisabledResends(t *testing.T) {
	settings := enabledSettings()
	settings.SendOnce = false
	svc, profileRepo, mailer, _, profile := setupFollowup(t, settings)

	require.NoError(t, svc.HandleProfileSaved(context.Background(), profile))
	require.NoError(t, svc.HandleProfileSaved(context.Background(), profile))

	assert.Len(t, mailer.sent, 2)
	assert.Equal(t, 0, profileRepo.markCalls, "marker is not touched when send_once is off")
}

func TestFollowupService_DispatchFailureIsNonFatal(t *testing.T) {
	svc, profileRepo, mailer, _, profile := setupFollowup(t, enabledSettings())
	mailer.err = errors.New("smtp down")

	err := svc.HandleProfileSaved(context.Background(), profile)

	require.NoError(t, err, "email failure must not fail the profile save")
	assert.False(t, profile.FollowupSent, "marker stays unset so a later save retries")
	assert.Equal(t, 0, profileRepo.markCalls)
}

func TestFollowupService_SettingsLoadFailureIsNonFatal(t *testing.T) {
	svc, _, mailer, _, profile := setupFollowup(t, nil)
	svcImpl := svc.(*followupService)
	svcImpl.settingsRepo = &fakeSettingsRepo{err: errors.New("db down")}

	require.NoError(t, svc.HandleProfileSaved(context.Background(), profile))
	assert.Empty(t, mailer.sent)
}

func TestRenderFollowupTemplate(t *testing.T) {
	owner := testUser("owner@example.com")

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "all placeholders",
			template: "[user:display-name] <[user:mail]> at [site:name]: [regional_support_url]",
			want:     "tester <owner@example.com> at MakeHaven: https://example.com/support",
		},
		{
			name:     "unrecognized placeholder left as-is",
			template: "Hello [user:unknown-token]",
			want:     "Hello [user:unknown-token]",
		},
		{
			name:     "no placeholders",
			template: "plain text",
			want:     "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderFollowupTemplate(tt.template, owner, "MakeHaven", "https://example.com/support")
			assert.Equal(t, tt.want, got)
		})
	}
}
