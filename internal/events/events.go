// Package events carries auth-state-change notifications between panel
// replicas. Sign-out on one replica publishes a revocation; the SSE endpoint
// on every replica forwards it to connected panels so their session stores
// observe the invalidation without polling.
package events

import "time"

type AuthEventType string

const (
	AuthEventSessionRevoked AuthEventType = "session_revoked"
)

type AuthEvent struct {
	At        time.Time     `json:"at"`
	Type      AuthEventType `json:"type"`
	UserID    int64         `json:"user_id"`
	SessionID int64         `json:"session_id"`
}
