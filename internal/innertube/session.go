package innertube

// SessionState carries the per-extraction session values pulled from the
// bootstrap config and cookie jar. It is owned by exactly one persona
// attempt and threaded through explicitly, never shared across attempts.
type SessionState struct {
	DelegatedSessionID string
	UserSessionID      string
	SessionIndex       *int
	VisitorData        string

	// CookieAuth marks the session as authenticated via cookies; only then
	// are the SAPISID-derived authorization headers attached.
	CookieAuth bool
}
