package model

import "time"

// Event type discriminators shared by both directions of the socket.
const (
	EventJoin       = "userJoined"
	EventLeft       = "userLeft"
	EventMessage    = "message"
	EventHistoryReq = "getMessageHistory"
	EventHistory    = "messageHistory"
	EventTyping     = "typing"
	EventStopTyping = "stopTyping"
	EventUserCount  = "userCount"
	EventPing       = "ping"
	EventPong       = "pong"
	EventError      = "error"
)

// ClientEvent is the envelope every client frame is decoded into. Fields
// not used by a given event type are left at their zero value.
type ClientEvent struct {
	Type      string    `json:"type"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// UserEvent announces a presence change (userJoined, userLeft, typing,
// stopTyping) to other clients.
type UserEvent struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

// CountEvent carries the connected-user count to every client.
type CountEvent struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// MessageEvent is a stored message fanned out to every client, carrying
// the id assigned by the store.
type MessageEvent struct {
	Type      string    `json:"type"`
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryEvent returns recent messages, oldest first, to the requester.
type HistoryEvent struct {
	Type     string    `json:"type"`
	Messages []Message `json:"messages"`
}

// ErrorEvent reports a per-request failure to the sender only.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// PongEvent acknowledges a ping.
type PongEvent struct {
	Type string `json:"type"`
}
