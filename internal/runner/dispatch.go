package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/torosent/postfire/internal/auth"
	"github.com/torosent/postfire/internal/httpclient"
	"github.com/torosent/postfire/internal/output"
	"github.com/torosent/postfire/internal/tracing"
)

// ErrInvalidVerb matches every *InvalidVerbError.
var ErrInvalidVerb = errors.New("invalid HTTP verb")

// InvalidVerbError is returned when httpVerb names none of the supported verbs.
type InvalidVerbError struct {
	Verb string
}

// Error names the rejected verb.
func (e *InvalidVerbError) Error() string {
	return fmt.Sprintf("HTTP verb %q is not valid", e.Verb)
}

// Is reports whether target is ErrInvalidVerb.
func (e *InvalidVerbError) Is(target error) bool {
	return target == ErrInvalidVerb
}

// Dispatcher sends the run's single request and reads the full response.
type Dispatcher struct {
	client  *http.Client
	auth    auth.Provider
	tracing *tracing.Provider
	runID   string
}

// NewDispatcher returns a dispatcher. provider and tp may be nil.
func NewDispatcher(client *http.Client, provider auth.Provider, tp *tracing.Provider, runID string) *Dispatcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Dispatcher{client: client, auth: provider, tracing: tp, runID: runID}
}

// Dispatch sends verb to target. body is attached only for verbs that carry
// one. Transport failures carry a stack trace for verbose output.
func (d *Dispatcher) Dispatch(ctx context.Context, verb Verb, target string, body *httpclient.Body) (resp output.Response, err error) {
	if !verb.Recognized() {
		return output.Response{}, &InvalidVerbError{Verb: verb.Raw}
	}
	if !verb.HasBody() {
		body = nil
	}

	var builder *httpclient.RequestBuilder
	if d.auth != nil {
		builder = httpclient.NewRequestBuilderWithAuth(verb.Method, target, body, d.auth)
	} else {
		builder = httpclient.NewRequestBuilder(verb.Method, target, body)
	}

	ctx, span := tracing.StartRequestSpan(ctx, d.tracing.Tracer(), verb.Method, target, d.runID)
	var attrs []attribute.KeyValue
	defer func() {
		tracing.EndSpan(span, err, attrs...)
	}()

	req, err := builder.Build(ctx)
	if err != nil {
		return output.Response{}, fmt.Errorf("build request: %w", err)
	}
	if d.tracing.ShouldPropagate() {
		tracing.InjectHTTPHeaders(ctx, req.Header)
	}

	httpResp, err := d.client.Do(req)
	if err != nil {
		return output.Response{}, pkgerrors.WithStack(err)
	}
	defer httpResp.Body.Close()
	attrs = append(attrs, tracing.StatusAttribute(httpResp.StatusCode))

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return output.Response{}, pkgerrors.Wrap(err, "read response body")
	}
	return output.FromHTTP(httpResp, data), nil
}
