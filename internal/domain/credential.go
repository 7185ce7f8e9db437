package domain

// Credential is the process-wide session state: the current access token and
// the signed-in admin it belongs to. It is mutated only through the request
// layer and the explicit login/logout flows.
type Credential struct {
	AccessToken string
	User        *User
}

// Authenticated reports whether a usable access token is present. It is true
// iff AccessToken is non-empty.
func (c Credential) Authenticated() bool {
	return c.AccessToken != ""
}
