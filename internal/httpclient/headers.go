package httpclient

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/torosent/postfire/internal/config"
)

// ApplyHeaders sets every entry of section on h in declared order. A later
// entry replaces an earlier one with the same canonical name, and a declared
// Content-Type replaces the one the body builder chose.
func ApplyHeaders(h http.Header, section config.Section) error {
	for _, kv := range section {
		key := strings.TrimSpace(kv.Key)
		if !httpguts.ValidHeaderFieldName(key) {
			return fmt.Errorf("invalid header key %q", kv.Key)
		}
		if !httpguts.ValidHeaderFieldValue(kv.Value) {
			return fmt.Errorf("invalid header value for %s", http.CanonicalHeaderKey(key))
		}
		h.Set(key, kv.Value)
	}
	return nil
}
