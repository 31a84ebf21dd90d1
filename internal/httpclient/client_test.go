package httpclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAuthProvider struct {
	token string
	err   error
}

func (m *mockAuthProvider) Token(ctx context.Context) (string, error) {
	return m.token, m.err
}

func (m *mockAuthProvider) InjectHeader(ctx context.Context, req *http.Request) error {
	if m.err != nil {
		return m.err
	}
	req.Header.Set("Authorization", "Bearer "+m.token)
	return nil
}

func (m *mockAuthProvider) Close() error { return nil }

func TestRequestBuilderWithoutBody(t *testing.T) {
	req, err := NewRequestBuilder(" get ", "http://example.com/items", nil).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "http://example.com/items", req.URL.String())
	assert.Nil(t, req.Body)
	assert.Empty(t, req.Header)
}

func TestRequestBuilderWithBody(t *testing.T) {
	body := &Body{
		Data:   []byte("a=1&b=2"),
		Header: http.Header{"Content-Type": {MediaTypeForm}, "X-Request-Id": {"abc"}},
	}

	req, err := NewRequestBuilder(http.MethodPost, "http://example.com/form", body).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, MediaTypeForm, req.Header.Get("Content-Type"))
	assert.Equal(t, "abc", req.Header.Get("X-Request-Id"))
	assert.Equal(t, int64(7), req.ContentLength)

	got, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, "a=1&b=2", string(got))

	require.NotNil(t, req.GetBody)
	again, err := req.GetBody()
	require.NoError(t, err)
	replay, err := io.ReadAll(again)
	require.NoError(t, err)
	assert.Equal(t, got, replay)
}

func TestRequestBuilderEmptyBody(t *testing.T) {
	req, err := NewRequestBuilder(http.MethodPut, "http://example.com", &Body{Header: http.Header{}}).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), req.ContentLength)
	assert.Equal(t, http.NoBody, req.Body)
}

type streamSource struct {
	data  string
	opens int
}

func (s *streamSource) NewReader() (io.ReadCloser, error) {
	s.opens++
	return io.NopCloser(strings.NewReader(s.data)), nil
}

func (s *streamSource) ContentLength() (int64, bool) { return 0, false }

func TestApplyBodySourceUnknownLength(t *testing.T) {
	src := &streamSource{data: "chunked"}
	req, err := http.NewRequest(http.MethodPost, "http://example.com", nil)
	require.NoError(t, err)

	applyBodySource(req, src)
	assert.Equal(t, int64(-1), req.ContentLength)

	rc, err := req.GetBody()
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "chunked", string(got))
	assert.Equal(t, 1, src.opens)
}

func TestRequestBuilderRequiresTarget(t *testing.T) {
	_, err := NewRequestBuilder(http.MethodGet, "  ", nil).Build(context.Background())
	assert.EqualError(t, err, "target URL is required")
}

func TestRequestBuilderWithAuthProvider(t *testing.T) {
	provider := &mockAuthProvider{token: "test-auth-token"}

	req, err := NewRequestBuilderWithAuth(http.MethodGet, "https://api.example.com/data", nil, provider).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-auth-token", req.Header.Get("Authorization"))
}

func TestRequestBuilderAuthProviderError(t *testing.T) {
	provider := &mockAuthProvider{err: errors.New("token expired")}

	_, err := NewRequestBuilderWithAuth(http.MethodGet, "https://api.example.com", nil, provider).Build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired")
}

func TestClientTimeoutApplied(t *testing.T) {
	timeout := 50 * time.Millisecond
	client, err := NewClient(WithTimeout(timeout))
	require.NoError(t, err)
	defer client.CloseIdleConnections()

	assert.Equal(t, timeout, client.Timeout)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(timeout * 3)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	start := time.Now()
	resp, err := client.Do(req)
	if resp != nil {
		resp.Body.Close()
	}
	require.Error(t, err)
	assert.GreaterOrEqual(t, time.Since(start), timeout)

	var netErr net.Error
	require.True(t, errors.As(err, &netErr))
	assert.True(t, netErr.Timeout())

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok, "expected *http.Transport, got %T", client.Transport)
	assert.NotZero(t, transport.IdleConnTimeout)
}

func TestNewClientWithoutCertificate(t *testing.T) {
	client, err := NewClient(WithClientCertificate("", ""))
	require.NoError(t, err)
	assert.False(t, HasClientCertificate(client))
	assert.Zero(t, client.Timeout)
	assert.False(t, HasClientCertificate(nil))
	assert.False(t, HasClientCertificate(&http.Client{}))
}

func TestNewClientCertificateLoadFailure(t *testing.T) {
	_, err := NewClient(WithClientCertificate("/does/not/exist.pfx", "pw"))
	assert.Error(t, err)
}

func TestNewClientPresentsCertificate(t *testing.T) {
	path := writePKCS12Certificate(t, "mtls-client", "s3cret")

	var seen string
	server := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.TLS.PeerCertificates) > 0 {
			seen = r.TLS.PeerCertificates[0].Subject.CommonName
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	server.TLS = &tls.Config{ClientAuth: tls.RequireAnyClientCert}
	server.StartTLS()
	defer server.Close()

	client, err := NewClient(WithClientCertificate(path, "s3cret"), WithTimeout(5*time.Second))
	require.NoError(t, err)
	require.True(t, HasClientCertificate(client))
	defer client.CloseIdleConnections()

	roots := x509.NewCertPool()
	roots.AddCert(server.Certificate())
	client.Transport.(*http.Transport).TLSClientConfig.RootCAs = roots

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "mtls-client", seen)
}
