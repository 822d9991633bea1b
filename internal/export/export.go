// Package export writes compiled templates in a machine-readable form.
package export

import (
	"fmt"
	"io"
	"slices"

	"github.com/vk/tplc/internal/model"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatHCL}
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	f := Format(name)
	if !slices.Contains(Formats(), f) {
		return "", fmt.Errorf("unknown output format %q (supported: %v)", name, Formats())
	}
	return f, nil
}

// Write encodes cs to w in the given format.
func Write(w io.Writer, format Format, cs []model.Compiled) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, cs)
	case FormatHCL:
		return WriteHCL(w, cs)
	}
	return fmt.Errorf("unknown output format %q", format)
}
