package auth

import (
	"context"
	"fmt"
	"net/http"
)

// BearerProvider returns a pre-configured token. The token is obtained
// outside of postfire and sent as-is.
type BearerProvider struct {
	token string
}

// NewBearerProvider creates a new bearer provider with the given token.
func NewBearerProvider(token string) *BearerProvider {
	return &BearerProvider{
		token: token,
	}
}

// Token returns the configured token immediately without any network calls.
func (p *BearerProvider) Token(ctx context.Context) (string, error) {
	return p.token, nil
}

// InjectHeader injects the token into the Authorization header.
func (p *BearerProvider) InjectHeader(ctx context.Context, req *http.Request) error {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.token))
	return nil
}

// Close is a no-op for bearer providers.
func (p *BearerProvider) Close() error {
	return nil
}
