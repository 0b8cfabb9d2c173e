// Package model defines data structure.
package model

import "time"

// Limits enforced on inbound chat messages before persistence.
const (
	MaxUsernameLen = 50
	MaxMessageLen  = 255
)

// AIUsername is the reserved sender name for persisted AI completions.
const AIUsername = "AI"

// Message holds information about a single stored message.
type Message struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
