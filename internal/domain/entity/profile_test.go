package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileUpdate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		update  ProfileUpdate
		wantErr bool
	}{
		{
			name:   "empty selections",
			update: ProfileUpdate{},
		},
		{
			name: "allowed values",
			update: ProfileUpdate{
				Goals:            []string{GoalEntrepreneur, GoalArtist},
				Entrepreneurship: []string{EntrepreneurshipSerial, EntrepreneurshipPatent},
			},
		},
		{
			name:    "unknown goal",
			update:  ProfileUpdate{Goals: []string{"astronaut"}},
			wantErr: true,
		},
		{
			name:    "unknown entrepreneurship value",
			update:  ProfileUpdate{Entrepreneurship: []string{"franchise"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.update.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUser_AddRole(t *testing.T) {
	user := &User{Roles: []string{"authenticated"}}

	assert.True(t, user.AddRole(RoleMemberPendingApproval))
	assert.False(t, user.AddRole(RoleMemberPendingApproval), "second grant is a no-op")
	assert.Equal(t, []string{"authenticated", RoleMemberPendingApproval}, user.Roles)
}

func TestUser_PreferredName(t *testing.T) {
	user := &User{Username: "maker"}
	assert.Equal(t, "maker", user.PreferredName())

	name := "Jordan"
	user.DisplayName = &name
	assert.Equal(t, "Jordan", user.PreferredName())
}
