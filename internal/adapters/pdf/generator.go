// Package pdf renders the operator roster: every record in a collection as
// one row of a landscape table, repeated header on each page.
package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/csg33k/leadform/internal/domain"
)

type column struct {
	title string
	width float64 // share of the content width
	value func(i int, r *domain.StoredRecord) string
}

var columns = []column{
	{"#", 0.04, func(i int, _ *domain.StoredRecord) string { return fmt.Sprint(i + 1) }},
	{"Name", 0.15, func(_ int, r *domain.StoredRecord) string { return r.Name }},
	{"Roll No.", 0.10, func(_ int, r *domain.StoredRecord) string { return r.RollNumber }},
	{"Branch", 0.12, func(_ int, r *domain.StoredRecord) string { return r.Branch }},
	{"College / University", 0.17, func(_ int, r *domain.StoredRecord) string { return r.Institution }},
	{"Email", 0.18, func(_ int, r *domain.StoredRecord) string { return r.Email }},
	{"Mobile", 0.11, func(_ int, r *domain.StoredRecord) string { return r.Mobile }},
	{"Submitted (UTC)", 0.13, func(_ int, r *domain.StoredRecord) string { return submittedAt(r) }},
}

// GenerateRoster writes the roster for collection to w.
func GenerateRoster(collection string, records []domain.StoredRecord, w io.Writer) error {
	pdf := fpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(false, 14)
	pdf.AliasNbPages("{nb}")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	y := drawHeader(pdf, collection, len(records))

	_, pageH := pdf.GetPageSize()
	_, _, _, marginB := pdf.GetMargins()
	rowH := 6.5
	for i := range records {
		if y+rowH > pageH-marginB {
			pdf.AddPage()
			y = drawHeader(pdf, collection, len(records))
		}
		drawRow(pdf, tr, i, &records[i], y, rowH)
		y += rowH
	}
	if len(records) == 0 {
		marginL, _, _, _ := pdf.GetMargins()
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetXY(marginL, y+2)
		pdf.CellFormat(0, 6, "No submissions yet.", "", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}

func contentWidth(pdf *fpdf.Fpdf) float64 {
	pageW, _ := pdf.GetPageSize()
	marginL, _, marginR, _ := pdf.GetMargins()
	return pageW - marginL - marginR
}

func drawHeader(pdf *fpdf.Fpdf, collection string, total int) float64 {
	marginL, marginT, _, _ := pdf.GetMargins()
	contentW := contentWidth(pdf)

	// ── Header bar ───────────────────────────────────────────────────────────
	pdf.SetFillColor(30, 30, 30)
	pdf.Rect(marginL, marginT, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW-40, 7, fmt.Sprintf("SUBMISSIONS  %s  (%d)", collection, total), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(36, 7, "Page "+fmt.Sprint(pdf.PageNo())+" of {nb}", "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	y := marginT + 13

	// ── Column titles ────────────────────────────────────────────────────────
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginL, y)
	for _, c := range columns {
		pdf.CellFormat(contentW*c.width, 6.5, c.title, "1", 0, "L", true, 0, "")
	}
	return y + 6.5
}

func drawRow(pdf *fpdf.Fpdf, tr func(string) string, i int, r *domain.StoredRecord, y, rowH float64) {
	marginL, _, _, _ := pdf.GetMargins()
	contentW := contentWidth(pdf)

	// Alternating row background
	if i%2 == 0 {
		pdf.SetFillColor(250, 250, 250)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(marginL, y)
	for _, c := range columns {
		w := contentW * c.width
		pdf.CellFormat(w, rowH, fit(pdf, tr(c.value(i, r)), w-2), "1", 0, "L", true, 0, "")
	}
}

// fit truncates s with an ellipsis so it stays inside width.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	rs := []rune(s)
	for len(rs) > 0 && pdf.GetStringWidth(string(rs)+"...") > width {
		rs = rs[:len(rs)-1]
	}
	return string(rs) + "..."
}

func submittedAt(r *domain.StoredRecord) string {
	if r.SubmittedAtEpochMillis == 0 {
		return r.SubmittedAtISO
	}
	return time.UnixMilli(r.SubmittedAtEpochMillis).UTC().Format("2006-01-02 15:04")
}
