package serverless

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"sigs.k8s.io/yaml"
)

// Service is a loaded deployment descriptor.
type Service struct {
	Name      string
	Provider  Provider
	Functions map[string]*Function

	custom map[string]json.RawMessage
	raw    map[string]any
}

// Provider holds the provider section fields autoswagger reads.
type Provider struct {
	Name  string `json:"name,omitempty"`
	Stage string `json:"stage,omitempty"`
}

// Function is one deployable function and its events.
type Function struct {
	Handler string  `json:"handler,omitempty"`
	Events  []Event `json:"events,omitempty"`
}

// Triggers returns the HTTP triggers of the function in declaration order.
func (f *Function) Triggers() []Trigger {
	var out []Trigger
	for _, ev := range f.Events {
		if ev.Trigger.Kind != TriggerNone {
			out = append(out, ev.Trigger)
		}
	}
	return out
}

type descriptor struct {
	Service   serviceName                `json:"service"`
	Provider  Provider                   `json:"provider"`
	Custom    map[string]json.RawMessage `json:"custom"`
	Functions map[string]*Function       `json:"functions"`
}

// serviceName decodes both `service: name` and `service: {name: name}`.
type serviceName string

func (n *serviceName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = serviceName(s)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("service must be a string or an object: %w", err)
	}
	*n = serviceName(obj.Name)
	return nil
}

// Load reads and parses the descriptor at path.
func Load(path string) (*Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	svc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse descriptor %s: %w", path, err)
	}
	return svc, nil
}

// Parse decodes a YAML or JSON descriptor.
func Parse(data []byte) (*Service, error) {
	var d descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]any{}
	}

	functions := d.Functions
	if functions == nil {
		functions = map[string]*Function{}
	}

	return &Service{
		Name:      string(d.Service),
		Provider:  d.Provider,
		Functions: functions,
		custom:    d.Custom,
		raw:       raw,
	}, nil
}

// Options decodes the custom section stored under key into v. It reports
// whether the section was present.
func (s *Service) Options(key string, v any) (bool, error) {
	msg, ok := s.custom[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(msg, v); err != nil {
		return true, fmt.Errorf("custom.%s: %w", key, err)
	}
	return true, nil
}

// FunctionNames returns the function names in lexical order.
func (s *Service) FunctionNames() []string {
	names := make([]string, 0, len(s.Functions))
	for name := range s.Functions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Inject merges fns into the descriptor's functions. A function that already
// exists under the same name is replaced.
func (s *Service) Inject(fns map[string]map[string]any) error {
	if s.raw == nil {
		s.raw = map[string]any{}
	}
	if s.Functions == nil {
		s.Functions = map[string]*Function{}
	}

	rawFns, _ := s.raw["functions"].(map[string]any)
	if rawFns == nil {
		rawFns = map[string]any{}
	}

	for name, fn := range fns {
		data, err := json.Marshal(fn)
		if err != nil {
			return fmt.Errorf("encode function %s: %w", name, err)
		}
		var typed Function
		if err := json.Unmarshal(data, &typed); err != nil {
			return fmt.Errorf("decode function %s: %w", name, err)
		}
		rawFns[name] = fn
		s.Functions[name] = &typed
	}

	s.raw["functions"] = rawFns
	return nil
}

// Marshal encodes the descriptor, including injected functions, as YAML.
func (s *Service) Marshal() ([]byte, error) {
	return yaml.Marshal(s.raw)
}

// Write encodes the descriptor and writes it to path.
func (s *Service) Write(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("encode descriptor: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create descriptor directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// DocsFunction returns the descriptor of the function serving the generated
// documentation: the UI at swaggerPath and the raw document at
// swaggerPath.json.
func DocsFunction(handler, swaggerPath string) map[string]any {
	path := strings.Trim(swaggerPath, "/")
	return map[string]any{
		"handler": handler,
		"events": []any{
			map[string]any{KeyHTTP: map[string]any{"method": "get", "path": path, "cors": true}},
			map[string]any{KeyHTTP: map[string]any{"method": "get", "path": path + ".json", "cors": true}},
		},
	}
}
