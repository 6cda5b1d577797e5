package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Allowed codes for the member goal field
const (
	GoalEntrepreneur = "entrepreneur"
	GoalArtist       = "artist"
)

// Allowed codes for the entrepreneurship field
const (
	EntrepreneurshipSerial = "serial_entrepreneur"
	EntrepreneurshipPatent = "patent"
)

// AllowedGoalValues lists valid selections for the member goal field
var AllowedGoalValues = []string{GoalEntrepreneur, GoalArtist}

// AllowedEntrepreneurshipValues lists valid selections for the entrepreneurship field
var AllowedEntrepreneurshipValues = []string{EntrepreneurshipSerial, EntrepreneurshipPatent}

// Profile represents a member's main profile record
type Profile struct {
	ID               uuid.UUID `json:"id" db:"id"`
	UserID           uuid.UUID `json:"user_id" db:"user_id"`
	Goals            []string  `json:"goals" db:"goals"`
	Entrepreneurship []string  `json:"entrepreneurship" db:"entrepreneurship"`
	FollowupSent     bool      `json:"followup_sent" db:"followup_sent"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileUpdate represents the mutable profile fields
type ProfileUpdate struct {
	Goals            []string `json:"goals"`
	Entrepreneurship []string `json:"entrepreneurship"`
}

// Validate checks that every selection is an allowed code
func (p *ProfileUpdate) Validate() error {
	for _, v := range p.Goals {
		if !contains(AllowedGoalValues, v) {
			return fmt.Errorf("invalid goal value: %q", v)
		}
	}
	for _, v := range p.Entrepreneurship {
		if !contains(AllowedEntrepreneurshipValues, v) {
			return fmt.Errorf("invalid entrepreneurship value: %q", v)
		}
	}
	return nil
}

func contains(allowed []string, value string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}
