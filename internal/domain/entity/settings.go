package entity

import "time"

// FollowupSettings is the administrator-configured policy for the
// entrepreneurship follow-up email. One row exists per installation;
// it is read on every profile save.
type FollowupSettings struct {
	Enabled                       bool      `json:"enabled" db:"enabled"`
	SendOnce                      bool      `json:"send_once" db:"send_once"`
	RegionalSupportURL            string    `json:"regional_support_url" db:"regional_support_url"`
	TriggerGoalValues             []string  `json:"trigger_goal_values" db:"trigger_goal_values"`
	TriggerEntrepreneurshipValues []string  `json:"trigger_entrepreneurship_values" db:"trigger_entrepreneurship_values"`
	EmailSubject                  string    `json:"email_subject" db:"email_subject"`
	EmailBody                     string    `json:"email_body" db:"email_body"`
	UpdatedAt                     time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultFollowupSettings returns the install-time policy.
func DefaultFollowupSettings() *FollowupSettings {
	return &FollowupSettings{
		Enabled:      false,
		SendOnce:     true,
		EmailSubject: "Entrepreneur support from [site:name]",
		EmailBody:    "Hi [user:display-name],\n\nWe noticed your interest in entrepreneurship. Visit [regional_support_url] to connect with regional support programs.\n\n[site:name]",
	}
}
