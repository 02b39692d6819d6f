package main

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/csg33k/leadform/internal/domain"
)

// writeTable prints the roster as a plain aligned table.
func writeTable(w io.Writer, records []domain.StoredRecord) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Name", "Roll", "Branch", "College", "Email", "Mobile", "Submitted"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	table.AppendBulk(lo.Map(records, func(r domain.StoredRecord, i int) []string {
		return []string{
			fmt.Sprint(i + 1),
			r.Name, r.RollNumber, r.Branch, r.Institution, r.Email, r.Mobile,
			time.UnixMilli(r.SubmittedAtEpochMillis).UTC().Format(time.RFC3339),
		}
	}))
	table.Render()
}
