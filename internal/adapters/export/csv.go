package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"eventpass/internal/domain"
)

// CSV writes one header row and one row per registration.
func (r *Renderer) CSV(regs []*domain.Registration) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(tableHeaders); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, reg := range regs {
		if err := w.Write(r.tableRow(reg)); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
