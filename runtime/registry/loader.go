package registry

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aledsdavies/callbind/core/types"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tailscale/hujson"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

//go:embed signatures.schema.json
var signatureSchema []byte

const schemaURL = "schema://signatures.json"

// Format is the encoding of a signature file
type Format int

const (
	FormatJSON  Format = iota // .json
	FormatJSONC               // .jsonc, .hujson: JSON with comments and trailing commas
	FormatYAML                // .yaml, .yml
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatJSONC:
		return "jsonc"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonc", ".hujson":
		return FormatJSONC, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return FormatJSON, fmt.Errorf("unsupported signature file extension %q (want .json, .jsonc, .hujson, .yaml or .yml)", filepath.Ext(path))
}

// LoadError reports a signature file that could not be read or is invalid.
// Details lists individual schema violations, one per line.
type LoadError struct {
	Path    string
	Err     error
	Details []string
}

func (e *LoadError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Err.Error())
	for _, d := range e.Details {
		b.WriteString("\n  - ")
		b.WriteString(d)
	}
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoaderConfig controls signature file loading
type LoaderConfig struct {
	MaxFileSize    int64    // Max file size in bytes (default: 1MB)
	AllowRemoteRef bool     // Allow remote $ref in the schema (default: false)
	AllowedSchemes []string // Allowed $ref URL schemes (default: ["schema"])
	AssertFormat   bool     // Enforce "format" keywords such as semver (default: true)
}

// DefaultLoaderConfig returns secure defaults
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		MaxFileSize:    1024 * 1024,
		AllowRemoteRef: false,
		AllowedSchemes: []string{"schema"},
		AssertFormat:   true,
	}
}

// Loader reads signature files and validates them against the signature
// schema. The compiled schema is shared by every load.
type Loader struct {
	config *LoaderConfig

	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

// NewLoader creates a loader with config, or the defaults when nil
func NewLoader(config *LoaderConfig) *Loader {
	if config == nil {
		config = DefaultLoaderConfig()
	}
	return &Loader{config: config}
}

var defaultLoader = NewLoader(nil)

// Load reads one signature file with the default loader
func Load(path string) ([]*types.Signature, error) {
	return defaultLoader.Load(path)
}

// LoadFiles reads several signature files with the default loader
func LoadFiles(paths ...string) ([]*types.Signature, error) {
	return defaultLoader.LoadFiles(paths...)
}

// Load reads, validates and converts the signature file at path
func (l *Loader) Load(path string) ([]*types.Signature, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if info.Size() > l.config.MaxFileSize {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("file too large: %d bytes (max: %d)", info.Size(), l.config.MaxFileSize)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("read: %w", err)}
	}

	sigs, err := l.Parse(data, format)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	return sigs, nil
}

// LoadFiles loads every path in order. A command defined in more than one
// file takes the definition from the last file.
func (l *Loader) LoadFiles(paths ...string) ([]*types.Signature, error) {
	byName := make(map[string]*types.Signature)
	var order []string
	for _, path := range paths {
		sigs, err := l.Load(path)
		if err != nil {
			return nil, err
		}
		for _, sig := range sigs {
			if _, seen := byName[sig.Name]; !seen {
				order = append(order, sig.Name)
			}
			byName[sig.Name] = sig
		}
	}

	out := make([]*types.Signature, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out, nil
}

// Parse decodes a signature document in format
func (l *Loader) Parse(data []byte, format Format) ([]*types.Signature, error) {
	doc, err := toJSON(data, format)
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("decode %s: %w", format, err)}
	}

	if err := l.validate(doc); err != nil {
		return nil, err
	}

	var file signatureFile
	if err := json.Unmarshal(doc, &file); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("decode: %w", err)}
	}
	return file.signatures()
}

// toJSON converts data in any supported format to standard JSON
func toJSON(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return data, nil
	case FormatJSONC:
		return hujson.Standardize(data)
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return json.Marshal(stringKeys(v))
	}
	return nil, fmt.Errorf("unknown format %d", int(format))
}

// stringKeys rewrites YAML maps with non-string keys so they encode as JSON
func stringKeys(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			x[k] = stringKeys(val)
		}
		return x
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[fmt.Sprint(k)] = stringKeys(val)
		}
		return m
	case []any:
		for i, val := range x {
			x[i] = stringKeys(val)
		}
		return x
	}
	return v
}

func (l *Loader) validate(doc []byte) error {
	schema, err := l.compiled()
	if err != nil {
		return &LoadError{Err: fmt.Errorf("schema compilation failed: %w", err)}
	}

	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	var instance any
	if err := dec.Decode(&instance); err != nil {
		return &LoadError{Err: fmt.Errorf("decode: %w", err)}
	}

	if err := schema.Validate(instance); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return &LoadError{Err: err}
		}
		return &LoadError{Err: fmt.Errorf("invalid signature file"), Details: validationDetails(ve)}
	}
	return nil
}

// validationDetails flattens a validation error tree to its leaves
func validationDetails(ve *jsonschema.ValidationError) []string {
	var out []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, fmt.Sprintf("%s: %s", loc, e.Message))
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)
	sort.Strings(out)
	return out
}

// compiled compiles the embedded schema on first use
func (l *Loader) compiled() (*jsonschema.Schema, error) {
	l.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = l.config.AssertFormat

		if compiler.Formats == nil {
			compiler.Formats = make(map[string]func(interface{}) bool)
		}
		compiler.Formats["semver"] = isSemver

		compiler.LoadURL = l.secureLoader()

		if err := compiler.AddResource(schemaURL, bytes.NewReader(signatureSchema)); err != nil {
			l.err = err
			return
		}
		l.schema, l.err = compiler.Compile(schemaURL)
	})
	return l.schema, l.err
}

// secureLoader restricts $ref resolution to the configured schemes
func (l *Loader) secureLoader() func(string) (io.ReadCloser, error) {
	return func(url string) (io.ReadCloser, error) {
		if !l.config.AllowRemoteRef {
			if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
				return nil, fmt.Errorf("remote $ref not allowed: %s", url)
			}
		}

		allowed := false
		for _, scheme := range l.config.AllowedSchemes {
			if strings.HasPrefix(url, scheme+"://") || strings.HasPrefix(url, scheme+":") {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, fmt.Errorf("URL scheme not allowed: %s", url)
		}

		return jsonschema.LoadURL(url)
	}
}

// isSemver accepts versions with or without the leading "v"
func isSemver(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return true // type is checked by the schema
	}
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	return semver.IsValid(s)
}
