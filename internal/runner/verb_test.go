package runner

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVerb(t *testing.T) {
	tests := []struct {
		raw        string
		wantMethod string
		wantBody   bool
		wantString string
	}{
		{"GET", http.MethodGet, false, "GET"},
		{"get", http.MethodGet, false, "GET"},
		{" Delete ", http.MethodDelete, false, "DELETE"},
		{"post", http.MethodPost, true, "POST"},
		{"Put", http.MethodPut, true, "PUT"},
		{"patch", http.MethodPatch, true, "PATCH"},
		{"foo", "", true, "FOO"},
		{"HEAD", "", true, "HEAD"},
		{"", "", true, ""},
	}

	for _, tt := range tests {
		v := ParseVerb(tt.raw)
		assert.Equal(t, tt.wantMethod, v.Method, "ParseVerb(%q).Method", tt.raw)
		assert.Equal(t, tt.wantMethod != "", v.Recognized(), "ParseVerb(%q).Recognized", tt.raw)
		assert.Equal(t, tt.wantBody, v.HasBody(), "ParseVerb(%q).HasBody", tt.raw)
		assert.Equal(t, tt.wantString, v.String(), "ParseVerb(%q).String", tt.raw)
		assert.Equal(t, tt.raw, v.Raw)
	}
}
