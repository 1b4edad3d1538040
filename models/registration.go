package models

import "time"

type Registration struct {
	RegistrationID int       `json:"registration_id"`
	EventID        int       `json:"event_id"`
	LeaderName     string    `json:"leader_name"`
	LeaderPhone    string    `json:"leader_phone"`
	UserID         int       `json:"user_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// RegistrationDetail is the grouped read shape: one registration with its
// players in ascending player-id order. UserID and Username are only populated
// for the admin-scoped view.
type RegistrationDetail struct {
	RegistrationID int      `json:"registration_id"`
	EventID        int      `json:"event_id"`
	LeaderName     string   `json:"leader_name"`
	LeaderPhone    string   `json:"leader_phone"`
	UserID         int      `json:"user_id,omitempty"`
	Username       string   `json:"user_username,omitempty"`
	Players        []Player `json:"players"`
}
