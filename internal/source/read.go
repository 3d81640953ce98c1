package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ErrNotText is wrapped by a ReadError for binary or otherwise non-text
// content.
var ErrNotText = errors.New("not a text file")

// ReadError reports a file that could not be read as text. The run skips the
// file and continues.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ReadOptions controls decoding and line splitting.
type ReadOptions struct {
	// Encoding is "auto", "utf-8" or any WHATWG label such as "gbk".
	Encoding string
	// KeepBlankLines retains whitespace-only lines, which are dropped by
	// default.
	KeepBlankLines bool
}

// ReadLines reads path as text and returns its lines with line endings
// normalised and trailing whitespace trimmed, together with the 1-based
// line number each retained line had in the file.
func ReadLines(path string, opts ReadOptions) ([]string, []int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &ReadError{Path: path, Err: err}
	}
	if !isText(data) {
		return nil, nil, &ReadError{Path: path, Err: ErrNotText}
	}
	text, err := decode(data, opts.Encoding)
	if err != nil {
		return nil, nil, &ReadError{Path: path, Err: err}
	}
	lines, numbers := SplitLines(text, opts.KeepBlankLines)
	return lines, numbers, nil
}

// SplitLines splits text on any line ending. Trailing spaces and tabs are
// trimmed from every line and, unless keepBlank is set, empty lines are
// dropped. numbers[i] is the 1-based line of lines[i] in text.
func SplitLines(text string, keepBlank bool) (lines []string, numbers []int) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, nil
	}
	raw := strings.Split(text, "\n")
	lines = make([]string, 0, len(raw))
	numbers = make([]int, 0, len(raw))
	for i, l := range raw {
		l = strings.TrimRight(l, " \t")
		if l == "" && !keepBlank {
			continue
		}
		lines = append(lines, l)
		numbers = append(numbers, i+1)
	}
	return lines, numbers
}

func isText(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func decode(data []byte, encoding string) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	switch strings.ToLower(encoding) {
	case "", "auto":
		if utf8.Valid(data) {
			return string(data), nil
		}
		enc, name, _ := charset.DetermineEncoding(data, "text/plain")
		return transcode(data, enc.NewDecoder(), name)
	case "utf-8", "utf8":
		if !utf8.Valid(data) {
			return "", errors.New("invalid UTF-8")
		}
		return string(data), nil
	default:
		enc, err := htmlindex.Get(encoding)
		if err != nil {
			return "", fmt.Errorf("unknown encoding %q: %w", encoding, err)
		}
		return transcode(data, enc.NewDecoder(), encoding)
	}
}

func transcode(data []byte, t transform.Transformer, name string) (string, error) {
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), t))
	if err != nil {
		return "", fmt.Errorf("transcode from %s: %w", name, err)
	}
	return string(decoded), nil
}

// ValidEncoding reports whether label is accepted by ReadOptions.Encoding.
func ValidEncoding(label string) bool {
	switch strings.ToLower(label) {
	case "", "auto", "utf-8", "utf8":
		return true
	}
	_, err := htmlindex.Get(label)
	return err == nil
}
