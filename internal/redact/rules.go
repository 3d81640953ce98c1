package redact

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRules is returned by Rules.Validate.
var ErrInvalidRules = errors.New("invalid redaction rules")

// Rules selects which redaction rules are active.
type Rules struct {
	StripFileHeader      bool `json:"stripFileHeader" yaml:"stripFileHeader"`
	StripBlockComments   bool `json:"stripBlockComments" yaml:"stripBlockComments"`
	StripForeignComments bool `json:"stripForeignComments" yaml:"stripForeignComments"`
	// SamplingRatio drops every Nth eligible single-line comment. 0 keeps
	// all of them, 1 drops all of them.
	SamplingRatio int `json:"samplingRatio" yaml:"samplingRatio"`
}

// Validate reports configuration errors before any file is processed.
func (r Rules) Validate() error {
	if r.SamplingRatio < 0 {
		return fmt.Errorf("%w: sampling ratio must be >= 0, got %d", ErrInvalidRules, r.SamplingRatio)
	}
	return nil
}

// Active reports whether any rule can remove content.
func (r Rules) Active() bool {
	return r.StripFileHeader || r.StripBlockComments || r.StripForeignComments || r.SamplingRatio > 0
}

// Describe returns a one-line summary of the rules in effect.
func (r Rules) Describe() string {
	var parts []string
	if r.StripFileHeader {
		parts = append(parts, "file headers")
	}
	if r.StripBlockComments {
		parts = append(parts, "block comments")
	}
	if r.StripForeignComments {
		parts = append(parts, "foreign-language comments")
	}
	switch {
	case r.SamplingRatio == 1:
		parts = append(parts, "all single-line comments")
	case r.SamplingRatio > 1:
		parts = append(parts, fmt.Sprintf("1 in %d single-line comments", r.SamplingRatio))
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}
