package storage

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed document.schema.json
var documentSchemaSource string

var documentSchema = jsonschema.MustCompileString("document.schema.json", documentSchemaSource)

type codec struct {
	marshal func(any) ([]byte, error)
	// decode turns file contents into a value that encodes as JSON.
	decode func([]byte) (any, error)
}

func decodeAny(unmarshal func([]byte, any) error) func([]byte) (any, error) {
	return func(data []byte) (any, error) {
		var raw any
		if err := unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	}
}

// decodeYAML goes straight to a Document: yaml.v3 decodes unquoted keys
// such as `5:` into map[interface{}]interface{}, which JSON cannot encode,
// but turns them into strings when the target map is string keyed.
func decodeYAML(data []byte) (any, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.normalized(), nil
}

var jsonCodec = codec{
	marshal: func(v any) ([]byte, error) {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	},
	decode: decodeAny(json.Unmarshal),
}

var yamlCodec = codec{marshal: yaml.Marshal, decode: decodeYAML}

var tomlCodec = codec{marshal: toml.Marshal, decode: decodeAny(toml.Unmarshal)}

func codecFor(path string) codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlCodec
	case ".toml":
		return tomlCodec
	default:
		return jsonCodec
	}
}

// FileBackend keeps the document in a single file. The format follows the
// extension: .yaml/.yml, .toml, anything else is JSON.
type FileBackend struct {
	path  string
	codec codec
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path, codec: codecFor(path)}
}

func (b *FileBackend) Path() string {
	return b.path
}

func (b *FileBackend) Read() (Document, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return Document{}, fmt.Errorf("read state file: %w", err)
	}

	raw, err := b.codec.decode(data)
	if err != nil {
		return Document{}, fmt.Errorf("parse state file: %w", err)
	}
	// Go through JSON so every codec is validated the same way.
	normalized, err := json.Marshal(raw)
	if err != nil {
		return Document{}, fmt.Errorf("parse state file: %w", err)
	}
	var generic any
	if err := json.Unmarshal(normalized, &generic); err != nil {
		return Document{}, fmt.Errorf("parse state file: %w", err)
	}
	if err := documentSchema.Validate(generic); err != nil {
		return Document{}, &ValidationError{Path: b.path, Problems: schemaProblems(err)}
	}

	var doc Document
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return Document{}, fmt.Errorf("decode state file: %w", err)
	}
	return doc.normalized(), nil
}

// Write replaces the file through a temp file in the same directory.
func (b *FileBackend) Write(doc Document) error {
	data, err := b.codec.marshal(doc.normalized())
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*")
	if err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

func (b *FileBackend) Close() error {
	return nil
}

// ValidationError reports a state file whose structure does not match the
// document schema.
type ValidationError struct {
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid state: %s", e.Path, strings.Join(e.Problems, "; "))
}

func schemaProblems(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	var out []string
	collectProblems(ve, &out)
	return out
}

func collectProblems(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*out = append(*out, loc+": "+ve.Message)
		return
	}
	for _, c := range ve.Causes {
		collectProblems(c, out)
	}
}
