package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/oklog/ulid/v2"

	"github.com/torosent/postfire/internal/auth"
	"github.com/torosent/postfire/internal/config"
	"github.com/torosent/postfire/internal/httpclient"
	"github.com/torosent/postfire/internal/output"
	"github.com/torosent/postfire/internal/tracing"
)

// Stage names the pipeline step that failed.
type Stage string

const (
	StageConfig   Stage = "config"
	StageClient   Stage = "client"
	StageBody     Stage = "body"
	StageDispatch Stage = "dispatch"
	StageWrite    Stage = "write"
)

// StageError tags an error with the stage it came from.
type StageError struct {
	Stage Stage
	Err   error
}

// Error prefixes the wrapped message with the stage.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the wrapped error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// Format passes %+v through to the wrapped error so stack traces survive.
func (e *StageError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s: %+v", e.Stage, e.Err)
		return
	}
	fmt.Fprint(s, e.Error())
}

func stageErr(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// Options carries the optional collaborators of a run.
type Options struct {
	Tracing *tracing.Provider
	// RunID labels the run in debug output and on the request span. A new
	// ULID is generated when empty.
	RunID string
}

// Result summarises a completed run.
type Result struct {
	RunID    string
	Verb     Verb
	Auth     auth.Mode
	Response output.Response
}

// Run executes the pipeline once: client, authentication, body, dispatch and
// response file. Every step runs to completion before the next starts, and
// the first failure stops the run.
func Run(ctx context.Context, cfg *config.Config, console *output.Console, opts Options) (Result, error) {
	if cfg == nil {
		return Result{}, stageErr(StageConfig, errors.New("config cannot be nil"))
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, stageErr(StageConfig, err)
	}

	result := Result{RunID: opts.RunID}
	if result.RunID == "" {
		result.RunID = ulid.Make().String()
	}
	console.Debug("Run ID: %s", result.RunID)

	client, err := httpclient.NewClient(
		httpclient.WithTimeout(cfg.Timeout),
		httpclient.WithClientCertificate(cfg.ClientCertificatePath, cfg.ClientCertificatePassword),
	)
	if err != nil {
		return result, stageErr(StageClient, err)
	}
	defer client.CloseIdleConnections()
	if httpclient.HasClientCertificate(client) {
		console.Info("Client certificate provided")
	} else {
		console.Info("No client certificate provided")
	}

	provider, mode := auth.FromConfig(cfg)
	result.Auth = mode
	switch mode {
	case auth.ModeBasic:
		console.Info("Using basic authentication")
		if cfg.Token != "" {
			console.Warn("Token ignored: basic authentication takes precedence")
		}
	case auth.ModeBearer:
		console.Info("Using bearer authentication")
	default:
		console.Info("No authentication configured")
	}
	if provider != nil {
		defer provider.Close()
	}

	verb := ParseVerb(cfg.HTTPVerb)
	result.Verb = verb

	var body *httpclient.Body
	if verb.HasBody() {
		body, err = buildBody(cfg, console)
		if err != nil {
			return result, stageErr(StageBody, err)
		}
	}

	console.Info("HTTP Verb: %s", verb)
	resp, err := NewDispatcher(client, provider, opts.Tracing, result.RunID).Dispatch(ctx, verb, cfg.URL, body)
	if err != nil {
		if errors.Is(err, ErrInvalidVerb) {
			console.Error("HTTP Verb is not valid")
		}
		return result, stageErr(StageDispatch, err)
	}
	result.Response = resp
	console.Debug("Received %d %s (%d bytes)", resp.StatusCode, resp.StatusText(), len(resp.Body))

	if err := output.WriteResponse(cfg.Files.Output, resp); err != nil {
		return result, stageErr(StageWrite, err)
	}
	console.Success("Done. Response written to %s", cfg.Files.Output)
	return result, nil
}

func buildBody(cfg *config.Config, console *output.Console) (*httpclient.Body, error) {
	builder, err := httpclient.NewBodyBuilder(cfg)
	if err != nil {
		return nil, err
	}
	console.Debug("Content kind: %s", builder.Content().Kind)

	body, err := builder.Build()
	if err != nil {
		if errors.Is(err, httpclient.ErrBodyFile) {
			console.Error("Error occurred loading file: %s", fileErrorMessage(err))
		}
		return nil, err
	}
	console.Info("Number of additional headers: %d", cfg.AdditionalHeaders.Len())
	return body, nil
}

// fileErrorMessage returns the underlying I/O message without the sentinel
// prefix.
func fileErrorMessage(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Error()
	}
	return err.Error()
}
