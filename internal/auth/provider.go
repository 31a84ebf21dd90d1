// Package auth derives the Authorization header for the outgoing request.
package auth

import (
	"context"
	"net/http"

	"github.com/torosent/postfire/internal/config"
)

// Provider defines the interface for authentication providers that can
// obtain credentials and inject them into HTTP requests.
type Provider interface {
	// Token returns the value placed after the scheme in the Authorization
	// header.
	Token(ctx context.Context) (string, error)
	// InjectHeader sets the Authorization header on the provided request.
	InjectHeader(ctx context.Context, req *http.Request) error
	// Close releases any resources held by the provider.
	Close() error
}

// Mode names the authentication scheme chosen for a run.
type Mode string

const (
	ModeNone   Mode = "none"
	ModeBasic  Mode = "basic"
	ModeBearer Mode = "bearer"
)

// FromConfig picks the provider for cfg. Basic credentials win when both
// userName and password are set, even if a token is also present. A nil
// provider with ModeNone means no Authorization header is sent.
func FromConfig(cfg *config.Config) (Provider, Mode) {
	if cfg == nil {
		return nil, ModeNone
	}
	if cfg.UserName != "" && cfg.Password != "" {
		return NewBasicProvider(cfg.UserName, cfg.Password), ModeBasic
	}
	if cfg.Token != "" {
		return NewBearerProvider(cfg.Token), ModeBearer
	}
	return nil, ModeNone
}
