package entities

import "time"

// Session - производное состояние сессии покупателя.
// IsAuthenticated == (User != nil && now < ExpiresAt) для неистекшей сессии.
type Session struct {
	User            *User      `json:"user"`
	IsAuthenticated bool       `json:"is_authenticated"`
	IsGuest         bool       `json:"is_guest"`
	ExpiresAt       *time.Time `json:"expires_at"`
	Error           string     `json:"error,omitempty"`
}
