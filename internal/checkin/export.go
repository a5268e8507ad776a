package checkin

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/domain"
)

// ExportRow is the flat tabular form of one attendee for downstream
// reporting.
type ExportRow struct {
	Name        string
	TicketClass string
	Status      string
	CheckedInAt string
}

func newExportRow(att domain.Attendee) ExportRow {
	row := ExportRow{
		Name:        att.Name,
		TicketClass: string(att.TicketClass),
		Status:      string(att.Status),
	}
	if att.CheckedInAt != nil {
		row.CheckedInAt = att.CheckedInAt.Format(time.RFC3339)
	}

	return row
}

// ExportRows flattens a list of attendees, preserving their order.
func ExportRows(attendees []domain.Attendee) []ExportRow {
	rows := make([]ExportRow, 0, len(attendees))
	for _, att := range attendees {
		rows = append(rows, newExportRow(att))
	}

	return rows
}

// WriteCSV writes the attendee list as CSV with a header row.
func WriteCSV(w io.Writer, attendees []domain.Attendee) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"name", "ticket_class", "status", "checked_in_at"}); err != nil {
		return fmt.Errorf("cw.Write -> %w", err)
	}

	for _, row := range ExportRows(attendees) {
		if err := cw.Write([]string{row.Name, row.TicketClass, row.Status, row.CheckedInAt}); err != nil {
			return fmt.Errorf("cw.Write -> %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("cw.Error -> %w", err)
	}

	return nil
}
