package serverless

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Event keys that carry an HTTP binding.
const (
	KeyHTTP    = "http"
	KeyHTTPAPI = "httpApi"
)

// TriggerKind tags the declaration shape of a [Trigger].
type TriggerKind int

const (
	// TriggerNone marks an event without an HTTP binding.
	TriggerNone TriggerKind = iota
	// TriggerHTTP is the legacy REST API object form under "http".
	TriggerHTTP
	// TriggerHTTPAPI is the gateway object form under "httpApi".
	TriggerHTTPAPI
	// TriggerShorthand is a string such as "GET /users" under either key.
	// It is recognized but carries no metadata.
	TriggerShorthand
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerHTTP:
		return "http"
	case TriggerHTTPAPI:
		return "httpApi"
	case TriggerShorthand:
		return "shorthand"
	default:
		return "none"
	}
}

// Trigger is the HTTP binding of one event.
type Trigger struct {
	Kind TriggerKind
	// Key is the event key the trigger was declared under.
	Key string
	// Shorthand holds the raw string of a TriggerShorthand.
	Shorthand string
	// HTTP is set for TriggerHTTP and TriggerHTTPAPI.
	HTTP *HTTPEvent
	// Err records why an object trigger could not be decoded. HTTP is nil
	// when it is set.
	Err error
}

// Event returns the object-shaped HTTP event, if any.
func (t Trigger) Event() (*HTTPEvent, bool) {
	if t.Kind != TriggerHTTP && t.Kind != TriggerHTTPAPI {
		return nil, false
	}
	return t.HTTP, t.HTTP != nil
}

var triggerShapes = []struct {
	key  string
	kind TriggerKind
}{
	{KeyHTTP, TriggerHTTP},
	{KeyHTTPAPI, TriggerHTTPAPI},
}

// Event is a single entry of a function's events list.
type Event struct {
	Trigger Trigger
}

// UnmarshalJSON resolves the trigger shape of the event.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Events that are not objects carry no HTTP binding.
		e.Trigger = Trigger{}
		return nil
	}

	for _, shape := range triggerShapes {
		key, kind := shape.key, shape.kind
		msg, ok := raw[key]
		if !ok {
			continue
		}
		t, err := decodeTrigger(key, kind, msg)
		if err != nil {
			t = Trigger{Kind: kind, Key: key, Err: fmt.Errorf("%s event: %w", key, err)}
		}
		e.Trigger = t
		return nil
	}

	e.Trigger = Trigger{}
	return nil
}

func decodeTrigger(key string, kind TriggerKind, msg json.RawMessage) (Trigger, error) {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Trigger{}, err
		}
		return Trigger{Kind: TriggerShorthand, Key: key, Shorthand: s}, nil
	}

	var ev HTTPEvent
	if err := json.Unmarshal(trimmed, &ev); err != nil {
		return Trigger{}, err
	}
	ev.Normalize()
	return Trigger{Kind: kind, Key: key, HTTP: &ev}, nil
}

// HTTPEvent is the normalized shape shared by both object trigger forms.
type HTTPEvent struct {
	Path        string                         `json:"path"`
	Method      string                         `json:"method"`
	Description string                         `json:"description,omitempty"`
	Tags        []string                       `json:"tags,omitempty"`
	BodyType    string                         `json:"bodyType,omitempty"`
	Responses   map[string]ResponseDeclaration `json:"responses,omitempty"`
	Request     *Request                       `json:"request,omitempty"`
}

// Validate reports whether the event has enough metadata to be documented.
func (e *HTTPEvent) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.Path, validation.Required),
		validation.Field(&e.Method, validation.Required),
	)
}

// Normalize trims surrounding space from the identifiers of the event: path,
// method, tags, body types and declared parameter names.
func (e *HTTPEvent) Normalize() {
	e.Path = strings.TrimSpace(e.Path)
	e.Method = strings.TrimSpace(e.Method)
	e.BodyType = strings.TrimSpace(e.BodyType)
	for i, tag := range e.Tags {
		e.Tags[i] = strings.TrimSpace(tag)
	}
	for code, r := range e.Responses {
		r.BodyType = strings.TrimSpace(r.BodyType)
		e.Responses[code] = r
	}
	if e.Request != nil && e.Request.Parameters != nil {
		e.Request.Parameters.Paths = trimKeys(e.Request.Parameters.Paths)
		e.Request.Parameters.Path = trimKeys(e.Request.Parameters.Path)
	}
}

func trimKeys(m map[string]ParamFlag) map[string]ParamFlag {
	if m == nil {
		return nil
	}
	out := make(map[string]ParamFlag, len(m))
	for k, v := range m {
		out[strings.TrimSpace(k)] = v
	}
	return out
}

// PathParameters returns the explicit path parameter declarations and whether
// any were made.
func (e *HTTPEvent) PathParameters() (map[string]ParamFlag, bool) {
	if e.Request == nil || e.Request.Parameters == nil {
		return nil, false
	}
	p := e.Request.Parameters
	if p.Paths != nil {
		return p.Paths, true
	}
	if p.Path != nil {
		return p.Path, true
	}
	return nil, false
}

// Request holds the request section of an HTTP event.
type Request struct {
	Parameters *RequestParameters `json:"parameters,omitempty"`
}

// RequestParameters holds explicit parameter declarations. Paths is the
// canonical key; Path is accepted as an alias.
type RequestParameters struct {
	Paths map[string]ParamFlag `json:"paths,omitempty"`
	Path  map[string]ParamFlag `json:"path,omitempty"`
}

// ParamFlag is the required flag of a declared parameter. It decodes from a
// boolean or from an object with a "required" field.
type ParamFlag bool

// UnmarshalJSON implements [json.Unmarshaler].
func (f *ParamFlag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = ParamFlag(b)
		return nil
	}
	var obj struct {
		Required bool `json:"required"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("parameter flag must be a boolean or an object: %w", err)
	}
	*f = ParamFlag(obj.Required)
	return nil
}

// ResponseDeclaration is either a bare description string or an object with
// an optional description and body type.
type ResponseDeclaration struct {
	// Shorthand is true when the declaration was a bare string.
	Shorthand   bool
	Description string
	BodyType    string
}

// UnmarshalJSON implements [json.Unmarshaler].
func (r *ResponseDeclaration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = ResponseDeclaration{Shorthand: true, Description: s}
		return nil
	}
	var obj struct {
		Description string `json:"description"`
		BodyType    string `json:"bodyType"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("response must be a string or an object: %w", err)
	}
	*r = ResponseDeclaration{Description: obj.Description, BodyType: obj.BodyType}
	return nil
}
