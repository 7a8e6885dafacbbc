// Package frontmatter splits Markdown documents into a metadata header and a
// body, and decodes the header with interchangeable strategies. The yaml
// strategy handles full YAML; the line strategy is a minimal hand-rolled
// decoder. On the shared syntax subset both produce identical metadata.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
)

const delim = "---"

// ErrMalformed reports a missing opening delimiter or an unterminated
// metadata block.
var ErrMalformed = errors.New("malformed frontmatter")

// Metadata holds decoded header fields. Values are restricted to string,
// int64, float64, bool, or []string; keys are case-sensitive.
type Metadata map[string]any

// Decoder turns a raw metadata block into Metadata.
type Decoder interface {
	Decode(block []byte) (Metadata, error)
}

// Strategy names accepted by NewDecoder.
const (
	StrategyYAML = "yaml"
	StrategyLine = "line"
)

// NewDecoder returns the decoder for the named strategy. Under the yaml
// strategy a block that fails YAML decoding is retried with the line
// decoder instead of failing the document.
func NewDecoder(strategy string) (Decoder, error) {
	switch strategy {
	case StrategyYAML:
		return Chain{YAMLDecoder{}, LineDecoder{}}, nil
	case StrategyLine:
		return LineDecoder{}, nil
	default:
		return nil, fmt.Errorf("frontmatter: unknown strategy %q", strategy)
	}
}

// Chain tries each decoder in order and returns the first success.
type Chain []Decoder

// Decode implements Decoder.
func (c Chain) Decode(block []byte) (Metadata, error) {
	var err error
	for _, d := range c {
		var meta Metadata
		meta, err = d.Decode(block)
		if err == nil {
			return meta, nil
		}
	}
	if err == nil {
		err = fmt.Errorf("frontmatter: no decoder configured")
	}
	return nil, err
}

// Split separates the metadata block between the two leading "---" delimiter
// lines from the Markdown body that follows. The opening delimiter must be
// the first line of the document; delimiter lines may carry trailing
// whitespace. Both missing delimiters surface as ErrMalformed.
func Split(data []byte) (block []byte, body string, err error) {
	nl := bytes.IndexByte(data, '\n')
	if nl < 0 {
		if isDelimLine(data) {
			return nil, "", fmt.Errorf("frontmatter: missing closing delimiter: %w", ErrMalformed)
		}
		return nil, "", fmt.Errorf("frontmatter: missing opening delimiter: %w", ErrMalformed)
	}
	if !isDelimLine(data[:nl]) {
		return nil, "", fmt.Errorf("frontmatter: missing opening delimiter: %w", ErrMalformed)
	}

	rest := data[nl+1:]
	for start := 0; start < len(rest); {
		lineEnd := len(rest)
		hasNL := false
		if i := bytes.IndexByte(rest[start:], '\n'); i >= 0 {
			lineEnd = start + i
			hasNL = true
		}
		if isDelimLine(rest[start:lineEnd]) {
			if !hasNL {
				return rest[:start], "", nil
			}
			return rest[:start], string(rest[lineEnd+1:]), nil
		}
		if !hasNL {
			break
		}
		start = lineEnd + 1
	}
	return nil, "", fmt.Errorf("frontmatter: missing closing delimiter: %w", ErrMalformed)
}

// Parse splits data and decodes the metadata block with dec.
func Parse(data []byte, dec Decoder) (Metadata, string, error) {
	block, body, err := Split(data)
	if err != nil {
		return nil, "", err
	}
	meta, err := dec.Decode(block)
	if err != nil {
		return nil, "", err
	}
	return meta, body, nil
}

// isDelimLine reports whether line is "---" with optional trailing whitespace.
func isDelimLine(line []byte) bool {
	if !bytes.HasPrefix(line, []byte(delim)) {
		return false
	}
	return len(bytes.TrimRight(line[len(delim):], " \t\r")) == 0
}
