package soundbank

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document field names
const (
	fieldPath              = "path"
	fieldDefaultTheme      = "typeKeyboardSoundDefault"
	fieldPreferredCategory = "typeKeyPref"
	fieldFiles             = "files"
)

// Format selects the document decoder
type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatFor picks a format from a source name and an optional content type
// YAML is chosen by .yaml/.yml extension or a yaml content type, JSON otherwise
func FormatFor(name, contentType string) Format {
	if strings.Contains(strings.ToLower(contentType), "yaml") {
		return FormatYAML
	}
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// RawCategory holds one category with its undecoded asset list value
type RawCategory struct {
	Name   Category
	Assets any
}

// RawTheme holds one theme's categories in document order
type RawTheme struct {
	Name       Theme
	Categories []RawCategory
}

// Document is a parsed but unvalidated sound bank
// Scalar fields keep their decoded dynamic type so Validate can report kind-specific errors
type Document struct {
	Path              any
	DefaultTheme      any
	PreferredCategory any
	Files             []RawTheme
}

var errFilesShape = errors.New("files must map theme names to objects of asset lists")

// Parse decodes a document in the given format
// Shape errors (malformed input, missing or non-object files) are returned as InvalidAudiosJSON
func Parse(data []byte, format Format) (*Document, error) {
	var (
		doc *Document
		err error
	)
	if format == FormatYAML {
		doc, err = parseYAML(data)
	} else {
		doc, err = parseJSON(data)
	}
	if err != nil {
		return nil, &Error{Kind: KindInvalidAudiosJSON, Detail: format.String(), Err: err}
	}
	return doc, nil
}

func parseJSON(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	doc := &Document{}
	seenFiles := false
	for dec.More() {
		key, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		switch key {
		case fieldPath:
			err = dec.Decode(&doc.Path)
		case fieldDefaultTheme:
			err = dec.Decode(&doc.DefaultTheme)
		case fieldPreferredCategory:
			err = dec.Decode(&doc.PreferredCategory)
		case fieldFiles:
			doc.Files, err = parseJSONFiles(dec)
			seenFiles = true
		default:
			var skip json.RawMessage
			err = dec.Decode(&skip)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after document")
	}
	if !seenFiles {
		return nil, errFilesShape
	}
	return doc, nil
}

func parseJSONFiles(dec *json.Decoder) ([]RawTheme, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, errFilesShape
	}
	var themes []RawTheme
	for dec.More() {
		name, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("theme %q: %w", name, errFilesShape)
		}
		theme := RawTheme{Name: Theme(name)}
		for dec.More() {
			cat, err := objectKey(dec)
			if err != nil {
				return nil, err
			}
			var assets any
			if err := dec.Decode(&assets); err != nil {
				return nil, err
			}
			theme.Categories = putCategory(theme.Categories, RawCategory{Name: Category(cat), Assets: assets})
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		themes = putTheme(themes, theme)
	}
	return themes, expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func objectKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func parseYAML(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document must be a mapping")
	}

	doc := &Document{}
	seenFiles := false
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, val := top.Content[i].Value, top.Content[i+1]
		var err error
		switch key {
		case fieldPath:
			err = val.Decode(&doc.Path)
		case fieldDefaultTheme:
			err = val.Decode(&doc.DefaultTheme)
		case fieldPreferredCategory:
			err = val.Decode(&doc.PreferredCategory)
		case fieldFiles:
			doc.Files, err = parseYAMLFiles(val)
			seenFiles = true
		}
		if err != nil {
			return nil, err
		}
	}
	if !seenFiles {
		return nil, errFilesShape
	}
	return doc, nil
}

func parseYAMLFiles(node *yaml.Node) ([]RawTheme, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errFilesShape
	}
	var themes []RawTheme
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, body := node.Content[i].Value, node.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("theme %q: %w", name, errFilesShape)
		}
		theme := RawTheme{Name: Theme(name)}
		for j := 0; j+1 < len(body.Content); j += 2 {
			var assets any
			if err := body.Content[j+1].Decode(&assets); err != nil {
				return nil, err
			}
			theme.Categories = putCategory(theme.Categories, RawCategory{
				Name:   Category(body.Content[j].Value),
				Assets: assets,
			})
		}
		themes = putTheme(themes, theme)
	}
	return themes, nil
}

// putTheme keeps the first position and the last value for duplicate keys
func putTheme(themes []RawTheme, t RawTheme) []RawTheme {
	for i := range themes {
		if themes[i].Name == t.Name {
			themes[i] = t
			return themes
		}
	}
	return append(themes, t)
}

func putCategory(cats []RawCategory, c RawCategory) []RawCategory {
	for i := range cats {
		if cats[i].Name == c.Name {
			cats[i] = c
			return cats
		}
	}
	return append(cats, c)
}
