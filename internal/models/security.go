package models

import "time"

// SecurityConfig toggles the tamper countermeasures. Supplied once at
// monitor start and read-only afterwards; reconfiguration replaces the
// whole value.
type SecurityConfig struct {
	AntiRightClick bool   `json:"anti_right_click"`
	AntiCopy       bool   `json:"anti_copy"`
	AntiDevTools   bool   `json:"anti_dev_tools"`
	AntiDebug      bool   `json:"anti_debug"`
	AlertMessage   string `json:"alert_message"`
}

func (c SecurityConfig) AnyEnabled() bool {
	return c.AntiRightClick || c.AntiCopy || c.AntiDevTools || c.AntiDebug
}

// DefaultSecurityConfig ships with every countermeasure disabled. The
// detection logic is fully implemented; operators opt in per flag.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		AntiRightClick: false,
		AntiCopy:       false,
		AntiDevTools:   false,
		AntiDebug:      false,
		AlertMessage:   "Unauthorized access attempt detected",
	}
}

// AlertEvent is broadcast to listeners; at most one is emitted per
// debounce window regardless of trigger volume.
type AlertEvent struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
