// Package output renders collected reports for the terminal, used by dry
// runs to preview what a live run would post.
package output

import (
	"io"

	"github.com/hal/stalemr/internal/service"
)

// Format represents the output format
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Formatter defines the interface for report formatters
type Formatter interface {
	Format(reports []service.TeamReport, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	default:
		return &TableFormatter{}
	}
}
