// Package export renders objectives as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/frahmantamala/okr-dashboard/internal/core/okr"
)

var Headers = []string{
	"Objective Title",
	"Owner",
	"Status",
	"Progress (%)",
	"Target",
	"Actual",
	"Start Date",
	"End Date",
}

// OwnerNamer resolves a user id to a display name. A false result falls
// back to the raw id.
type OwnerNamer func(id string) (string, bool)

// WriteObjectives writes one header row and one row per objective. Progress
// is recomputed from actual and target rather than taken from the stored
// progress field.
func WriteObjectives(w io.Writer, objectives []*okr.Objective, owner OwnerNamer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, o := range objectives {
		ownerName := o.OwnerID
		if owner != nil {
			if name, ok := owner(o.OwnerID); ok {
				ownerName = name
			}
		}
		record := []string{
			o.Title,
			ownerName,
			string(o.Status),
			strconv.Itoa(o.ProgressPercent()),
			formatNumber(o.Target),
			formatNumber(o.Actual),
			o.StartDate,
			o.EndDate,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", o.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
