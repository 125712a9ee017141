package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/feedlink/backend/internal/domain"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var nonSlugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// ParseFormat validates an export format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidRequest, s)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Write serializes products in the given format
func Write(w io.Writer, format Format, products []domain.NormalizedProduct) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, products)
	case FormatXLSX:
		return WriteXLSX(w, products)
	}
	return fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidRequest, format)
}

// Filename builds a download name such as "solution_bc_20240131_154500.csv"
func Filename(source string, format Format, now time.Time) string {
	slug := strings.Trim(nonSlugRegex.ReplaceAllString(strings.ToLower(source), "_"), "_")
	if slug == "" {
		slug = "products"
	}
	return fmt.Sprintf("%s_%s.%s", slug, now.Format("20060102_150405"), format)
}
