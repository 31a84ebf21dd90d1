package httpclient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/torosent/postfire/internal/config"
)

const (
	MediaTypeForm      = "application/x-www-form-urlencoded"
	MediaTypeMultipart = "multipart/form-data"
	defaultTextType    = "text/plain"
)

// ErrBodyFile is returned when a file that provides the request body cannot be read.
var ErrBodyFile = errors.New("error occurred loading file")

// ContentKind selects how the request body is built.
type ContentKind int

const (
	// ContentText sends the payload file as text labelled with the declared media type.
	ContentText ContentKind = iota
	// ContentForm sends formDataKeyAndValues URL-encoded.
	ContentForm
	// ContentMultipart sends the raw bytes of fileToPostPath.
	ContentMultipart
)

// String names the kind for debug output.
func (k ContentKind) String() string {
	switch k {
	case ContentForm:
		return "form"
	case ContentMultipart:
		return "multipart"
	default:
		return "text"
	}
}

// Content is the resolved form of the declared contentType. MediaType keeps
// the raw declared value for ContentText.
type Content struct {
	Kind      ContentKind
	MediaType string
}

// ParseContent resolves a declared content type. Media types compare
// case-insensitively; anything unrecognised is sent as text.
func ParseContent(raw string) Content {
	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.EqualFold(trimmed, MediaTypeForm):
		return Content{Kind: ContentForm, MediaType: MediaTypeForm}
	case strings.EqualFold(trimmed, MediaTypeMultipart):
		return Content{Kind: ContentMultipart, MediaType: MediaTypeMultipart}
	default:
		return Content{Kind: ContentText, MediaType: trimmed}
	}
}

// BodySource supplies a replayable request body.
type BodySource interface {
	NewReader() (io.ReadCloser, error)
	ContentLength() (int64, bool)
}

// Body is a fully buffered request body together with the headers that
// describe it.
type Body struct {
	Data   []byte
	Header http.Header
}

var _ BodySource = (*Body)(nil)

// NewReader returns a fresh reader over Data.
func (b *Body) NewReader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.Data)), nil
}

// ContentLength reports len(Data); the length is always known.
func (b *Body) ContentLength() (int64, bool) {
	return int64(len(b.Data)), true
}

// BodyBuilder produces the request body from configuration.
type BodyBuilder struct {
	content     Content
	form        config.Section
	headers     config.Section
	fileToPost  string
	payloadPath string
}

// NewBodyBuilder resolves the content type and file paths from cfg.
func NewBodyBuilder(cfg *config.Config) (*BodyBuilder, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	return &BodyBuilder{
		content:     ParseContent(cfg.ContentType),
		form:        cfg.FormDataKeyAndValues,
		headers:     cfg.AdditionalHeaders,
		fileToPost:  cfg.FileToPostPath,
		payloadPath: cfg.Files.Payload,
	}, nil
}

// Content returns the resolved content type the builder dispatches on.
func (b *BodyBuilder) Content() Content {
	return b.content
}

// Build reads the body source and applies the additional headers in
// declared order.
func (b *BodyBuilder) Build() (*Body, error) {
	body := &Body{Header: http.Header{}}

	switch b.content.Kind {
	case ContentForm:
		body.Data = []byte(EncodeForm(b.form))
		body.Header.Set("Content-Type", MediaTypeForm)
	case ContentMultipart:
		data, err := os.ReadFile(b.fileToPost)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBodyFile, err)
		}
		body.Data = data
	default:
		contentType, err := textContentType(b.content.MediaType)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(b.payloadPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBodyFile, err)
		}
		body.Data = data
		body.Header.Set("Content-Type", contentType)
	}

	if err := ApplyHeaders(body.Header, b.headers); err != nil {
		return nil, err
	}
	return body, nil
}

// EncodeForm URL-encodes section keeping its declared order; url.Values
// would sort the keys.
func EncodeForm(section config.Section) string {
	var sb strings.Builder
	for i, kv := range section {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(kv.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(kv.Value))
	}
	return sb.String()
}

// textContentType labels a text payload with mediaType and a UTF-8 charset.
func textContentType(mediaType string) (string, error) {
	if mediaType == "" {
		mediaType = defaultTextType
	}
	mt, params, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return "", fmt.Errorf("invalid content type %q: %w", mediaType, err)
	}
	if _, ok := params["charset"]; !ok {
		params["charset"] = "utf-8"
	}
	formatted := mime.FormatMediaType(mt, params)
	if formatted == "" {
		return "", fmt.Errorf("invalid content type %q", mediaType)
	}
	return formatted, nil
}
