package tidy

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/melissasara-mathews/yfinance/internal/model"
)

// WriteWide writes a wide statement verbatim: the header carries the
// provider's column headers untouched (whatever date representation it
// returned), one row per metric, null cells as empty fields.
func WriteWide(w io.Writer, ws *model.WideStatement) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := append([]string{"metric"}, ws.Columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range ws.Rows {
		rec := make([]string, len(ws.Columns)+1)
		rec[0] = row.Metric
		for j := range ws.Columns {
			if j < len(row.Cells) && row.Cells[j].Valid {
				rec[j+1] = row.Cells[j].Decimal.String()
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
