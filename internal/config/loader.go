package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/csgen/internal/engine"
	"github.com/roach88/csgen/internal/score"
	"github.com/roach88/csgen/internal/stream"
)

// Error code constants.
const (
	ErrCodeGeneric           = "E001" // Generic/unknown error
	ErrCodeNotFound          = "E005" // Document not found or unreadable
	ErrCodeParse             = "E010" // YAML, JSON or CUE syntax/shape error
	ErrCodeUnsupportedFormat = "E011" // Unknown file extension
	ErrCodeUnknownStream     = "E020" // Stream name not registered
	ErrCodeStreamPayload     = "E021" // Stream factory rejected its payload
)

// LoadError is a failure to read, parse or bind a score document.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Line    int
	Err     error
}

func (e *LoadError) Error() string {
	loc := e.Path
	if loc != "" && e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	} else if loc == "" && e.Line > 0 {
		loc = fmt.Sprintf("line %d", e.Line)
	}
	if loc != "" {
		return fmt.Sprintf("%s: %s: %s", loc, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Format is a document syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatFor picks the syntax from the file extension. JSON is read as YAML.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", &LoadError{
			Code:    ErrCodeUnsupportedFormat,
			Message: fmt.Sprintf("unsupported document extension %q (want .yaml, .yml, .json or .cue)", filepath.Ext(path)),
			Path:    path,
		}
	}
}

// LoadFile reads and parses a document.
func LoadFile(path string) (*Document, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("read document: %v", err), Path: path, Err: err}
	}

	var doc *Document
	switch format {
	case FormatCUE:
		doc, err = ParseCUE(path, data)
	default:
		doc, err = Parse(data)
	}
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.Path == "" {
			le.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// Parse decodes a YAML or JSON document, rejecting unknown keys.
func Parse(data []byte) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("parse document: %v", err), Err: err}
	}
	return &doc, nil
}

// ParseCUE evaluates a CUE document. The result must be concrete; it is
// exported to JSON and decoded with the same rules as YAML documents.
func ParseCUE(filename string, data []byte) (*Document, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, cueLoadError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(err)
	}
	js, err := v.MarshalJSON()
	if err != nil {
		return nil, cueLoadError(err)
	}
	return Parse(js)
}

// cueLoadError keeps the position of the first CUE error.
func cueLoadError(err error) *LoadError {
	le := &LoadError{Code: ErrCodeParse, Message: err.Error(), Err: err}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return le
	}
	first := errs[0]
	le.Message = first.Error()
	if positions := cueerrors.Positions(first); len(positions) > 0 && positions[0].IsValid() {
		le.Line = positions[0].Line()
	}
	return le
}

// Build turns a document into a score, constructing every stream through
// reg. opts are applied to every part after the document's own settings.
func Build(doc *Document, reg *stream.Registry, opts ...engine.PartOption) (*score.Score, error) {
	s := score.New(doc.Header, doc.Footer)
	for i, pd := range doc.Parts {
		p, err := buildPart(pd, reg, opts)
		if err != nil {
			return nil, fmt.Errorf("parts[%d]: %w", i, err)
		}
		s.Add(p)
	}
	return s, nil
}

// Load reads a document and builds its score.
func Load(path string, reg *stream.Registry, opts ...engine.PartOption) (*score.Score, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Build(doc, reg, opts...)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.Path == "" {
			le.Path = path
		}
		return nil, err
	}
	return s, nil
}

func buildPart(pd PartDoc, reg *stream.Registry, extra []engine.PartOption) (*engine.Part, error) {
	var opts []engine.PartOption
	if pd.Name != "" {
		opts = append(opts, engine.WithName(pd.Name))
	}
	if pd.Instrument != nil {
		opts = append(opts, engine.WithInstrument(*pd.Instrument))
	}
	if pd.Start != nil {
		opts = append(opts, engine.WithStart(*pd.Start))
	}
	if pd.End != nil {
		opts = append(opts, engine.WithEnd(*pd.End))
	}
	if pd.MaxStatements > 0 {
		opts = append(opts, engine.WithMaxStatements(pd.MaxStatements))
	}
	if pd.Duration != nil {
		s, err := buildStream(*pd.Duration, reg)
		if err != nil {
			return nil, fmt.Errorf("duration: %w", err)
		}
		opts = append(opts, engine.WithDuration(s))
	}
	if pd.Delay != nil {
		s, err := buildStream(*pd.Delay, reg)
		if err != nil {
			return nil, fmt.Errorf("delay: %w", err)
		}
		opts = append(opts, engine.WithDelay(s))
	}
	opts = append(opts, extra...)

	p := engine.NewPart(opts...)
	for _, f := range pd.Fields {
		s, err := buildStream(f.Stream, reg)
		if err != nil {
			return nil, fmt.Errorf("fields[%s]: %w", f.Key, err)
		}
		p.SetFieldKey(f.Key, s)
	}
	return p, nil
}

func buildStream(spec StreamSpec, reg *stream.Registry) (engine.Stream, error) {
	var payload stream.Payload
	if spec.Payload != nil {
		payload = spec.Payload
	}
	s, err := reg.Build(spec.Name, payload)
	if err != nil {
		code := ErrCodeStreamPayload
		if errors.Is(err, stream.ErrUnknownStream) {
			code = ErrCodeUnknownStream
		}
		return nil, &LoadError{Code: code, Message: err.Error(), Line: spec.Line, Err: err}
	}
	return s, nil
}

// ErrorCode extracts the machine-readable code from a load or render error:
// a loader code (E0xx), an engine ConfigErrorCode or GenerationErrorCode.
// Returns "" for other errors.
func ErrorCode(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	var ce *engine.ConfigError
	if errors.As(err, &ce) {
		return string(ce.Code)
	}
	var ge *engine.GenerationError
	if errors.As(err, &ge) {
		return string(ge.Code)
	}
	return ""
}
