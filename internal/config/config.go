package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
)

// KeyValue is a single entry of an ordered configuration section.
type KeyValue struct {
	Key   string
	Value string
}

// Section is an ordered list of key/value pairs. Declaration order and the
// original key case from the settings file are preserved.
type Section []KeyValue

// Len returns the number of entries in the section.
func (s Section) Len() int {
	return len(s)
}

// Files holds the locations of the auxiliary files used by a run.
type Files struct {
	Settings string `default:"appsettings.json"`
	Payload  string `default:"payload.txt"`
	Output   string `default:"response.txt"`
}

// DefaultFiles returns the file locations used when no flag overrides them.
func DefaultFiles() Files {
	var files Files
	defaults.MustSet(&files)
	return files
}

// TracingConfig configures the optional OTLP trace exporter.
type TracingConfig struct {
	Endpoint    string
	Protocol    string // "grpc" or "http"
	ServiceName string
	SampleRate  float64
	Insecure    bool
	Propagate   *bool
}

// Enabled reports whether an exporter endpoint has been configured, either
// in the settings file or through OTEL_EXPORTER_OTLP_ENDPOINT.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != "" || os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""
}

// ShouldPropagate reports whether W3C trace headers are injected into the
// outgoing request. Defaults to true once tracing is enabled.
func (t TracingConfig) ShouldPropagate() bool {
	if t.Propagate == nil {
		return true
	}
	return *t.Propagate
}

// Validate checks the exporter settings on their own, before any exporter
// is created.
func (t TracingConfig) Validate() error {
	if issues := t.issues(); len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func (t TracingConfig) issues() []string {
	var issues []string
	if t.SampleRate < 0 || t.SampleRate > 1.0 {
		issues = append(issues, fmt.Sprintf("tracing.sampleRate must be between 0.0 and 1.0, got %g", t.SampleRate))
	}
	switch t.NormalizedProtocol() {
	case "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing.protocol must be grpc or http, got %q", t.Protocol))
	}
	return issues
}

// NormalizedProtocol returns the lowercased exporter protocol, defaulting to
// grpc.
func (t TracingConfig) NormalizedProtocol() string {
	protocol := strings.ToLower(strings.TrimSpace(t.Protocol))
	if protocol == "" {
		return "grpc"
	}
	return protocol
}

// Config is the settings of a single run, built once at startup.
type Config struct {
	ClientCertificatePath     string
	ClientCertificatePassword string
	UserName                  string
	Password                  string
	Token                     string
	HTTPVerb                  string
	ContentType               string
	FileToPostPath            string
	URL                       string
	AdditionalHeaders         Section
	FormDataKeyAndValues      Section
	Timeout                   time.Duration
	Tracing                   TracingConfig
	Files                     Files
	Verbose                   bool
	NoColor                   bool
}

// ValidationError lists every problem found by Validate.
type ValidationError struct {
	issues []string
}

// Error joins the issues into one message.
func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

// Issues returns a copy of the individual problems.
func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

// Validate checks the settings that would otherwise fail in a confusing way.
// A missing url or httpVerb is deliberately not reported here; both surface
// when the request is built.
func (c Config) Validate() error {
	var issues []string

	if c.Timeout < 0 {
		issues = append(issues, "timeout must be >= 0")
	}
	for _, kv := range c.AdditionalHeaders {
		if strings.TrimSpace(kv.Key) == "" {
			issues = append(issues, "additionalHeaders: key cannot be empty")
			break
		}
	}
	issues = append(issues, c.Tracing.issues()...)

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}
