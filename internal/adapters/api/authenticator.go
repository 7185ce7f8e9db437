package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/bnema/rank-admin-cli/internal/domain"
	"github.com/bnema/rank-admin-cli/internal/ports"
)

const (
	loginPath    = "/auth/login"
	registerPath = "/auth/register"
	refreshPath  = "/auth/refresh"
	logoutPath   = "/auth/logout"
)

// Authenticator owns the session lifecycle: login/register/logout against the
// auth endpoints, the process-wide Credential, the persisted refresh cookie,
// and the single-flight access-token refresh that Client falls back to on 401.
type Authenticator struct {
	baseURL     string
	httpClient  *http.Client
	credentials ports.CredentialStore
	sessions    ports.SessionStore
	clock       ports.Clock
	logger      ports.Logger

	mu            sync.Mutex
	refreshCookie string
	inflight      *refreshCall
}

// refreshCall is the shared handle for one in-flight refresh. Waiters block
// on done and then read token/err; at most one call exists at a time.
type refreshCall struct {
	done  chan struct{}
	token string
	err   error
}

type AuthenticatorOption func(*Authenticator)

func WithClock(clock ports.Clock) AuthenticatorOption {
	return func(a *Authenticator) { a.clock = clock }
}

func WithAuthLogger(logger ports.Logger) AuthenticatorOption {
	return func(a *Authenticator) { a.logger = logger }
}

func NewAuthenticator(baseURL string, httpClient *http.Client, credentials ports.CredentialStore, sessions ports.SessionStore, opts ...AuthenticatorOption) (*Authenticator, error) {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	a := &Authenticator{
		baseURL:     normalized,
		httpClient:  httpClient,
		credentials: credentials,
		sessions:    sessions,
		clock:       ports.SystemClock{},
		logger:      ports.NopLogger{},
	}
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Token returns the current access token, empty when signed out.
func (a *Authenticator) Token() string {
	return a.credentials.Current().AccessToken
}

// Restore rebuilds the in-memory credential from the persisted session, if
// one exists. A missing session is not an error; the caller stays signed out.
func (a *Authenticator) Restore(ctx context.Context) error {
	session, err := a.sessions.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			return nil
		}
		return fmt.Errorf("load saved session: %w", err)
	}

	a.credentials.Set(domain.Credential{AccessToken: session.AccessToken})
	a.setRefreshCookie(session.RefreshCookie)

	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type authResponse struct {
	AccessToken string       `json:"accessToken"`
	User        *domain.User `json:"user"`
}

func (a *Authenticator) Login(ctx context.Context, email, password string) (domain.Credential, error) {
	return a.establishSession(ctx, loginPath, loginRequest{Email: email, Password: password}, email)
}

func (a *Authenticator) Register(ctx context.Context, email, password, name string) (domain.Credential, error) {
	return a.establishSession(ctx, registerPath, registerRequest{Email: email, Password: password, Name: name}, email)
}

func (a *Authenticator) establishSession(ctx context.Context, path string, body any, email string) (domain.Credential, error) {
	resp, payload, err := a.postAuth(ctx, path, body, "", "")
	if err != nil {
		return domain.Credential{}, fmt.Errorf("request %s: %w", path, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.Credential{}, newStatusError(resp.StatusCode, payload)
	}

	var decoded authResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return domain.Credential{}, fmt.Errorf("decode %s response: %w", path, err)
	}
	if decoded.AccessToken == "" {
		return domain.Credential{}, fmt.Errorf("%s response missing access token", path)
	}

	credential := domain.Credential{AccessToken: decoded.AccessToken, User: decoded.User}
	a.credentials.Set(credential)

	cookie := cookieHeader(resp)
	a.setRefreshCookie(cookie)

	if err := a.sessions.Save(ctx, domain.Session{
		AccessToken:   decoded.AccessToken,
		RefreshCookie: cookie,
		Email:         email,
		SavedAt:       a.clock.Now(),
	}); err != nil {
		return domain.Credential{}, fmt.Errorf("persist session: %w", err)
	}

	a.logger.Debug(ctx, "session established", "path", path)

	return credential, nil
}

// Logout tells the server to revoke the session, then clears local state
// regardless of the outcome, mirroring the dashboard's sign-out flow.
func (a *Authenticator) Logout(ctx context.Context) error {
	token := a.Token()
	cookie := a.currentRefreshCookie()

	var requestErr error
	if token != "" || cookie != "" {
		resp, payload, err := a.postAuth(ctx, logoutPath, nil, token, cookie)
		switch {
		case err != nil:
			requestErr = fmt.Errorf("request %s: %w", logoutPath, err)
		case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
			requestErr = newStatusError(resp.StatusCode, payload)
		}
	}

	a.signOutLocal(ctx)

	return requestErr
}

// RefreshAccessToken runs the single-flight refresh cycle. Concurrent callers
// that hit a 401 while a refresh is already in flight await its outcome
// instead of starting another one. On any refresh failure the session is
// cleared and every waiter gets domain.ErrSessionExpired.
func (a *Authenticator) RefreshAccessToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	if pending := a.inflight; pending != nil {
		a.mu.Unlock()
		select {
		case <-pending.done:
			return pending.token, pending.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	call := &refreshCall{done: make(chan struct{})}
	a.inflight = call
	a.mu.Unlock()

	// The refresh must not die with the first caller; every waiter shares
	// this one outcome.
	call.token, call.err = a.performRefresh(context.WithoutCancel(ctx))

	a.mu.Lock()
	a.inflight = nil
	a.mu.Unlock()
	close(call.done)

	return call.token, call.err
}

func (a *Authenticator) performRefresh(ctx context.Context) (string, error) {
	cookie := a.currentRefreshCookie()
	if cookie == "" {
		a.signOutLocal(ctx)
		return "", fmt.Errorf("%w: no refresh cookie", domain.ErrSessionExpired)
	}

	resp, payload, err := a.postAuth(ctx, refreshPath, nil, "", cookie)
	if err != nil {
		a.signOutLocal(ctx)
		return "", fmt.Errorf("%w: refresh request: %v", domain.ErrSessionExpired, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		a.signOutLocal(ctx)
		return "", fmt.Errorf("%w: %v", domain.ErrSessionExpired, newStatusError(resp.StatusCode, payload))
	}

	var decoded authResponse
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &decoded); err != nil {
			a.signOutLocal(ctx)
			return "", fmt.Errorf("%w: decode refresh response: %v", domain.ErrSessionExpired, err)
		}
	}
	if decoded.AccessToken == "" {
		// A 204 or a body without a token leaves us with nothing to
		// authorize against; treat it the same as a rejected refresh.
		a.signOutLocal(ctx)
		return "", fmt.Errorf("%w: refresh response missing access token", domain.ErrSessionExpired)
	}

	current := a.credentials.Current()
	current.AccessToken = decoded.AccessToken
	a.credentials.Set(current)

	if rotated := cookieHeader(resp); rotated != "" {
		cookie = rotated
	}
	a.setRefreshCookie(cookie)

	session, loadErr := a.sessions.Load(ctx)
	if loadErr != nil && !errors.Is(loadErr, domain.ErrNoSession) {
		return decoded.AccessToken, fmt.Errorf("load session for update: %w", loadErr)
	}
	session.AccessToken = decoded.AccessToken
	session.RefreshCookie = cookie
	session.SavedAt = a.clock.Now()
	if err := a.sessions.Save(ctx, session); err != nil {
		return decoded.AccessToken, fmt.Errorf("persist refreshed session: %w", err)
	}

	a.logger.Debug(ctx, "access token refreshed")

	return decoded.AccessToken, nil
}

func (a *Authenticator) signOutLocal(ctx context.Context) {
	a.credentials.Clear()
	a.setRefreshCookie("")
	if err := a.sessions.Clear(ctx); err != nil {
		a.logger.Warn(ctx, "clear saved session", "error", err.Error())
	}
}

func (a *Authenticator) postAuth(ctx context.Context, path string, body any, bearer, cookie string) (*http.Response, []byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}

	return resp, payload, nil
}

func (a *Authenticator) currentRefreshCookie() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.refreshCookie
}

func (a *Authenticator) setRefreshCookie(cookie string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.refreshCookie = cookie
}

// cookieHeader flattens the response's Set-Cookie values into a Cookie header
// string. The refresh credential is an httpOnly cookie whose name the server
// owns, so everything it sets is carried back verbatim.
func cookieHeader(resp *http.Response) string {
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return ""
	}

	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}

	return strings.Join(pairs, "; ")
}
