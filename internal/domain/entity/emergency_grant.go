package entity

import "time"

// EmergencyGrant is the one-time emergency review right a reviewer holds
// against a target. It never expires while unused.
type EmergencyGrant struct {
	ReviewerUID         string     `json:"reviewer_uid" db:"reviewer_uid"`
	TargetUID           string     `json:"target_uid" db:"target_uid"`
	Used                bool       `json:"used" db:"used"`
	UsedAt              *time.Time `json:"used_at,omitempty" db:"used_at"`
	PhoneNumberSnapshot string     `json:"phone_number_snapshot,omitempty" db:"phone_number_snapshot"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
}

// EmergencyGrantStatus is what a reviewer sees for a target, including the
// case where no row exists yet.
type EmergencyGrantStatus struct {
	TargetUID string     `json:"target_uid"`
	Available bool       `json:"available"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}
