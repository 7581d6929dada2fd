package catalog

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"gopkg.in/yaml.v3"

	"github.com/roach88/issuefilter/internal/model"
)

// Load reads, validates and builds the catalog at path. The format follows
// the extension; a directory is loaded as a CUE package.
func Load(path string) (*model.Catalog, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	c := doc.build()
	slog.Debug("catalog loaded",
		"path", path,
		"repositories", len(doc.Repositories),
		"default_repo", c.DefaultRepo())
	return c, nil
}

// LoadDocument reads and validates the document at path without building a
// catalog.
func LoadDocument(path string) (*Document, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "catalog not found", Path: path}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "cannot access catalog", Path: path, Err: err}
	}

	var doc *Document
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case info.IsDir():
		doc, err = decodeCUEPackage(path)
	case ext == ".yaml" || ext == ".yml":
		doc, err = decodeYAMLFile(path)
	case ext == ".cue":
		doc, err = decodeCUEFile(path)
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupportedFormat,
			Message: fmt.Sprintf("unsupported catalog extension %q", ext),
			Path:    path,
		}
	}
	if err != nil {
		return nil, err
	}

	if err := doc.Validate(); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: "catalog failed validation", Path: path, Err: err}
	}
	return doc, nil
}

// DecodeYAML decodes and validates a YAML document from r. Unknown fields
// are rejected.
func DecodeYAML(r io.Reader) (*model.Catalog, error) {
	doc, err := decodeYAML(r, "")
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: "catalog failed validation", Err: err}
	}
	return doc.build(), nil
}

// WriteYAML encodes the current state of c to w.
func WriteYAML(w io.Writer, c *model.Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromCatalog(c)); err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	return enc.Close()
}

// SaveYAML writes the current state of c to path.
func SaveYAML(path string, c *model.Catalog) error {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, c); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing catalog %s: %w", path, err)
	}
	slog.Debug("catalog saved", "path", path)
	return nil
}

func decodeYAMLFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "cannot open catalog", Path: path, Err: err}
	}
	defer f.Close()
	return decodeYAML(f, path)
}

func decodeYAML(r io.Reader, path string) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, &LoadError{Code: ErrCodeDecode, Message: "empty document", Path: path}
		}
		return nil, &LoadError{Code: ErrCodeDecode, Message: "malformed YAML", Path: path, Err: err}
	}
	return &doc, nil
}

func decodeCUEFile(path string) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "cannot read catalog", Path: path, Err: err}
	}
	return decodeCUESource(src, path)
}

// decodeCUESource evaluates CUE source. filename is used in CUE error
// positions only.
func decodeCUESource(src []byte, filename string) (*Document, error) {
	return decodeCUE(cuecontext.New().CompileBytes(src, cue.Filename(filename)), filename)
}

// decodeCUEPackage loads the CUE package in dir, the way cue eval would.
func decodeCUEPackage(dir string) (*Document, error) {
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeDecode, Message: "no CUE instances loaded", Path: dir}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: "loading CUE files", Path: dir, Err: inst.Err}
	}
	return decodeCUE(cuecontext.New().BuildInstance(inst), dir)
}

func decodeCUE(v cue.Value, path string) (*Document, error) {
	if err := v.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: "building CUE value", Path: path, Err: err}
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: "CUE value is not concrete", Path: path, Err: err}
	}

	var doc Document
	if err := v.Decode(&doc); err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: "decoding CUE value", Path: path, Err: err}
	}
	return &doc, nil
}
