package auth

import (
	"context"
	"encoding/base64"
	"net/http"
)

// BasicProvider sends a username and password using the Basic scheme.
type BasicProvider struct {
	username string
	password string
}

// NewBasicProvider returns a provider for the given credentials.
func NewBasicProvider(username, password string) *BasicProvider {
	return &BasicProvider{
		username: username,
		password: password,
	}
}

// Token returns base64(username:password).
func (p *BasicProvider) Token(ctx context.Context) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(p.username + ":" + p.password)), nil
}

// InjectHeader sets the Authorization header on req.
func (p *BasicProvider) InjectHeader(ctx context.Context, req *http.Request) error {
	token, err := p.Token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Basic "+token)
	return nil
}

// Close is a no-op.
func (p *BasicProvider) Close() error {
	return nil
}
