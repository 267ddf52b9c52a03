// Package identity implements domain.IdentityProvider against a
// GoTrue-compatible auth service (passwordless magic-link flow). The rest of
// the system only sees the typed interface; no caller reaches through it to
// the underlying HTTP client.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/returntrack/returntrack-backend/internal/domain"
)

// Provider is an HTTP client for the external auth service.
type Provider struct {
	baseURL string
	apiKey  string
	client  *http.Client

	mu        sync.Mutex
	listeners []domain.SessionListener
}

// NewProvider creates a provider for the auth service at baseURL.
func NewProvider(baseURL, apiKey string) *Provider {
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// OnSessionChange registers a listener fired after sign-in and sign-out.
func (p *Provider) OnSessionChange(listener domain.SessionListener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, listener)
}

// notify invokes every registered listener outside the lock.
func (p *Provider) notify(session *domain.Session) {
	p.mu.Lock()
	listeners := make([]domain.SessionListener, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, l := range listeners {
		l(session)
	}
}

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u userPayload) session() (*domain.Session, error) {
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in auth response: %w", err)
	}
	return &domain.Session{UserID: id, Email: u.Email}, nil
}

// CurrentSession resolves an access token to a session. An invalid or
// expired token yields (nil, nil), not an error: absence of a session is a
// normal state the gate handles.
func (p *Provider) CurrentSession(ctx context.Context, accessToken string) (*domain.Session, error) {
	if accessToken == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/user", nil)
	if err != nil {
		return nil, err
	}
	p.setHeaders(req, accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &domain.StoreError{Op: "identity.current_session", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, &domain.StoreError{Op: "identity.current_session", Err: fmt.Errorf("auth service returned %d", resp.StatusCode)}
	}

	var user userPayload
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, &domain.StoreError{Op: "identity.current_session", Err: err}
	}

	return user.session()
}

// SignInWithIdentifier asks the auth service to send a magic link to email.
// Delivery of the email itself is entirely the provider's business.
func (p *Provider) SignInWithIdentifier(ctx context.Context, email string) error {
	body := map[string]interface{}{"email": email, "create_user": true}

	resp, err := p.post(ctx, "/otp", "", body)
	if err != nil {
		return &domain.StoreError{Op: "identity.sign_in", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &domain.StoreError{Op: "identity.sign_in", Err: fmt.Errorf("auth service returned %d", resp.StatusCode)}
	}
	return nil
}

// ExchangeCallback trades a login callback code for a session and its access
// token, and notifies listeners of the sign-in.
func (p *Provider) ExchangeCallback(ctx context.Context, code string) (*domain.Session, string, error) {
	body := map[string]interface{}{"auth_code": code}

	resp, err := p.post(ctx, "/token?grant_type=pkce", "", body)
	if err != nil {
		return nil, "", &domain.StoreError{Op: "identity.exchange", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &domain.StoreError{Op: "identity.exchange", Err: fmt.Errorf("auth service returned %d", resp.StatusCode)}
	}

	var payload struct {
		AccessToken string      `json:"access_token"`
		User        userPayload `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, "", &domain.StoreError{Op: "identity.exchange", Err: err}
	}

	session, err := payload.User.session()
	if err != nil {
		return nil, "", err
	}

	p.notify(session)
	return session, payload.AccessToken, nil
}

// SignOut invalidates the session behind accessToken and notifies listeners.
func (p *Provider) SignOut(ctx context.Context, accessToken string) error {
	resp, err := p.post(ctx, "/logout", accessToken, nil)
	if err != nil {
		return &domain.StoreError{Op: "identity.sign_out", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return &domain.StoreError{Op: "identity.sign_out", Err: fmt.Errorf("auth service returned %d", resp.StatusCode)}
	}

	p.notify(nil)
	return nil
}

func (p *Provider) post(ctx context.Context, path, accessToken string, body interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	p.setHeaders(req, accessToken)
	req.Header.Set("Content-Type", "application/json")

	return p.client.Do(req)
}

func (p *Provider) setHeaders(req *http.Request, accessToken string) {
	req.Header.Set("apikey", p.apiKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
}
