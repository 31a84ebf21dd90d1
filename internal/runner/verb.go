package runner

import (
	"net/http"
	"strings"
)

// Verb is the parsed httpVerb setting. Method is empty when the raw value is
// not one of the supported verbs.
type Verb struct {
	Method string
	Raw    string
}

var supportedVerbs = map[string]string{
	"GET":    http.MethodGet,
	"POST":   http.MethodPost,
	"PUT":    http.MethodPut,
	"PATCH":  http.MethodPatch,
	"DELETE": http.MethodDelete,
}

// ParseVerb maps raw onto GET, POST, PUT, PATCH or DELETE, ignoring case and
// surrounding space. Anything else yields an unrecognized Verb carrying raw.
func ParseVerb(raw string) Verb {
	method, ok := supportedVerbs[strings.ToUpper(strings.TrimSpace(raw))]
	if !ok {
		return Verb{Raw: raw}
	}
	return Verb{Method: method, Raw: raw}
}

// Recognized reports whether v is one of the supported verbs.
func (v Verb) Recognized() bool {
	return v.Method != ""
}

// HasBody reports whether a body is built for v. Only GET and DELETE go
// without one; an unrecognized verb still gets a body built before dispatch
// rejects it.
func (v Verb) HasBody() bool {
	return v.Method != http.MethodGet && v.Method != http.MethodDelete
}

// String returns the uppercased verb as logged, including unrecognized ones.
func (v Verb) String() string {
	if v.Method != "" {
		return v.Method
	}
	return strings.ToUpper(strings.TrimSpace(v.Raw))
}
