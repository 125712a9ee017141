package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/feedlink/backend/internal/domain"
)

// Delimiter separates CSV fields; BaseLinker imports expect semicolons
const Delimiter = ';'

// WriteCSV writes a header row and one row per product, each ending with CRLF
func WriteCSV(w io.Writer, products []domain.NormalizedProduct) error {
	writer := csv.NewWriter(w)
	writer.Comma = Delimiter
	writer.UseCRLF = true

	if err := writer.Write(domain.ProductColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range products {
		if err := writer.Write(p.Record()); err != nil {
			return fmt.Errorf("failed to write record %q: %w", p.ProductID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
