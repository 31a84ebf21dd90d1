// Package output writes the run's response file and console status lines.
package output

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
)

// Response is the part of the server's reply that is persisted.
type Response struct {
	StatusCode int
	Status     string
	Body       string
}

// FromHTTP captures resp together with its already-read body.
func FromHTTP(resp *http.Response, body []byte) Response {
	return Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(body),
	}
}

// StatusText returns the reason phrase from the status line, falling back to
// the standard text for the code when the server sent none.
func (r Response) StatusText() string {
	reason := strings.TrimSpace(r.Status)
	code := strconv.Itoa(r.StatusCode)
	if rest, ok := strings.CutPrefix(reason, code); ok {
		reason = strings.TrimSpace(rest)
	}
	if reason == "" {
		reason = http.StatusText(r.StatusCode)
	}
	return reason
}

// Format renders the response file content. There is no trailing newline.
func (r Response) Format() string {
	return fmt.Sprintf("Status Code: %d %s\nResponse Body: %s", r.StatusCode, r.StatusText(), r.Body)
}

// WriteResponse overwrites path with the formatted response. Concurrent runs
// writing the same path are serialized by an advisory lock kept in the
// system temp directory.
func WriteResponse(path string, resp Response) (err error) {
	lock := flock.New(lockPath(path))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("unlock %s: %w", path, unlockErr)
		}
	}()

	if err := os.WriteFile(path, []byte(resp.Format()), 0o644); err != nil {
		return fmt.Errorf("write response %s: %w", path, err)
	}
	return nil
}

// lockPath names the lock file for path. Every spelling of the same file maps
// to the same lock.
func lockPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	sum := sha256.Sum256([]byte(path))
	return filepath.Join(os.TempDir(), "postfire-"+hex.EncodeToString(sum[:8])+".lock")
}
