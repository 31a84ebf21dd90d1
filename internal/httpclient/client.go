package httpclient

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// AuthProvider injects credentials into HTTP requests.
type AuthProvider interface {
	Token(ctx context.Context) (string, error)
	InjectHeader(ctx context.Context, req *http.Request) error
	Close() error
}

// RequestBuilder assembles the single outgoing request of a run.
type RequestBuilder struct {
	method       string
	target       string
	body         *Body
	authProvider AuthProvider
}

// NewRequestBuilder creates a builder for method and target. body may be nil
// for verbs that carry no content.
func NewRequestBuilder(method, target string, body *Body) *RequestBuilder {
	return &RequestBuilder{
		method: strings.ToUpper(strings.TrimSpace(method)),
		target: strings.TrimSpace(target),
		body:   body,
	}
}

// NewRequestBuilderWithAuth creates a RequestBuilder with an auth provider for header injection.
func NewRequestBuilderWithAuth(method, target string, body *Body, provider AuthProvider) *RequestBuilder {
	builder := NewRequestBuilder(method, target, body)
	builder.authProvider = provider
	return builder
}

// Build creates the request. A body is read through its BodySource, which
// also supplies ContentLength and GetBody.
func (b *RequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	if b == nil {
		return nil, errors.New("builder cannot be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if b.target == "" {
		return nil, errors.New("target URL is required")
	}

	var reader io.Reader
	if b.body != nil {
		rc, err := b.body.NewReader()
		if err != nil {
			return nil, fmt.Errorf("request body: %w", err)
		}
		reader = rc
	}

	req, err := http.NewRequestWithContext(ctx, b.method, b.target, reader)
	if err != nil {
		return nil, err
	}

	if b.body != nil {
		applyBodySource(req, b.body)
		for key, values := range b.body.Header {
			for _, val := range values {
				req.Header.Add(key, val)
			}
		}
	}

	if b.authProvider != nil {
		if err := b.authProvider.InjectHeader(ctx, req); err != nil {
			return nil, fmt.Errorf("auth provider inject header: %w", err)
		}
	}

	return req, nil
}

// applyBodySource sets the length and replay function of req from src.
// An empty source is sent as http.NoBody so no chunked encoding is used.
func applyBodySource(req *http.Request, src BodySource) {
	length, known := src.ContentLength()
	if !known {
		req.ContentLength = -1
		req.GetBody = src.NewReader
		return
	}
	if length == 0 {
		if req.Body != nil {
			req.Body.Close()
		}
		req.Body = http.NoBody
		req.ContentLength = 0
		req.GetBody = func() (io.ReadCloser, error) { return http.NoBody, nil }
		return
	}
	req.ContentLength = length
	req.GetBody = src.NewReader
}

type clientOptions struct {
	timeout             time.Duration
	certificatePath     string
	certificatePassword string
}

// ClientOption configures NewClient.
type ClientOption func(*clientOptions)

// WithTimeout sets the overall request timeout. Zero leaves the request
// bounded only by the transport's own dial and handshake timeouts.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		if d < 0 {
			d = 0
		}
		o.timeout = d
	}
}

// WithClientCertificate presents the certificate at path during the TLS
// handshake. An empty path leaves the client without a certificate.
func WithClientCertificate(path, password string) ClientOption {
	return func(o *clientOptions) {
		o.certificatePath = strings.TrimSpace(path)
		o.certificatePassword = password
	}
}

// NewClient builds the HTTP client for a run. Loading the client certificate
// is the only step that can fail.
func NewClient(opts ...ClientOption) (*http.Client, error) {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	if o.certificatePath != "" {
		cert, err := LoadClientCertificate(o.certificatePath, o.certificatePassword)
		if err != nil {
			return nil, err
		}
		transport.TLSClientConfig.Certificates = []tls.Certificate{cert}
	}

	return &http.Client{
		Timeout:   o.timeout,
		Transport: transport,
	}, nil
}

// HasClientCertificate reports whether client presents a TLS client certificate.
func HasClientCertificate(client *http.Client) bool {
	if client == nil {
		return false
	}
	transport, ok := client.Transport.(*http.Transport)
	if !ok || transport.TLSClientConfig == nil {
		return false
	}
	return len(transport.TLSClientConfig.Certificates) > 0
}
