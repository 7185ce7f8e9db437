package domain

import "time"

// Session is the persisted half of a sign-in: the refresh cookie issued by
// the auth server plus the last known access token. It survives between CLI
// invocations; the in-memory Credential is rebuilt from it on startup.
type Session struct {
	AccessToken   string
	RefreshCookie string
	Email         string
	SavedAt       time.Time
}
