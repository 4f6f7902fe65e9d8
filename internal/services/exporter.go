package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ExportHeaders are the column names of the tabular export, in order.
var ExportHeaders = []string{
	"Name", "Email", "Phone", "Skills", "Skill Count", "JD Match %", "ATS Score", "Links",
}

// ExportRow is the flat key/value form of a record handed to export.
type ExportRow struct {
	Name       string
	Email      string
	Phone      string
	Skills     string
	SkillCount int
	JDMatch    float64
	ATSScore   float64
	Links      string
}

// Values returns the row in ExportHeaders order.
func (r ExportRow) Values() []string {
	return []string{
		r.Name,
		r.Email,
		r.Phone,
		r.Skills,
		strconv.Itoa(r.SkillCount),
		formatScore(r.JDMatch),
		formatScore(r.ATSScore),
		r.Links,
	}
}

// ExportRows flattens a ranked batch, keeping its order.
func ExportRows(batch RankedBatch) []ExportRow {
	rows := make([]ExportRow, 0, len(batch))
	for _, rec := range batch {
		rows = append(rows, ExportRow{
			Name:       rec.Name,
			Email:      rec.Email,
			Phone:      rec.Phone,
			Skills:     rec.Skills.String(),
			SkillCount: rec.SkillCount,
			JDMatch:    rec.JDMatch,
			ATSScore:   rec.ATSScore,
			Links:      strings.Join(rec.Links, ", "),
		})
	}
	return rows
}

// WriteCSV writes the header row followed by one row per record.
func WriteCSV(w io.Writer, batch RankedBatch) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ExportHeaders); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range ExportRows(batch) {
		if err := cw.Write(row.Values()); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
