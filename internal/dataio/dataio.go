// Package dataio reads the data arrays given to the meval command and
// writes its results.
package dataio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a serialization format of data and results.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ErrNotArray is returned when the decoded document is not a sequence.
var ErrNotArray = errors.New("data must be an array")

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case JSON, YAML:
		return f, nil
	case "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown format %q, want json or yaml", name)
}

// FormatOf guesses the format of a data file from its extension. Files
// that are not .yaml or .yml are read as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Decode reads one array from r in the given format.
func Decode(r io.Reader, f Format) ([]interface{}, error) {
	switch f {
	case JSON:
		return DecodeJSON(r)
	case YAML:
		return DecodeYAML(r)
	}
	return nil, fmt.Errorf("unknown format %q", string(f))
}

// DecodeJSON reads one JSON array from r. Numbers are kept as
// json.Number so that their text is converted only once.
func DecodeJSON(r io.Reader) ([]interface{}, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("invalid JSON data: %w", ErrNotArray)
		}
		return nil, fmt.Errorf("invalid JSON data: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid JSON data: trailing content after the array")
	}
	arr, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid JSON data: %w", ErrNotArray)
	}
	return arr, nil
}

// DecodeYAML reads one YAML sequence from r.
func DecodeYAML(r io.Reader) ([]interface{}, error) {
	var v interface{}
	if err := yaml.NewDecoder(r).Decode(&v); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("invalid YAML data: %w", ErrNotArray)
		}
		return nil, fmt.Errorf("invalid YAML data: %w", err)
	}
	arr, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid YAML data: %w", ErrNotArray)
	}
	return arr, nil
}

// Encode writes results to w in the given format, followed by a newline.
func Encode(w io.Writer, results []float64, f Format) error {
	if results == nil {
		results = []float64{}
	}
	switch f {
	case JSON:
		return json.NewEncoder(w).Encode(results)
	case YAML:
		if len(results) == 0 {
			_, err := io.WriteString(w, "[]\n")
			return err
		}
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	}
	return fmt.Errorf("unknown format %q", string(f))
}
