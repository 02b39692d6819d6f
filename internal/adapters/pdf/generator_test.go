package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/leadform/internal/domain"
)

func records(n int) []domain.StoredRecord {
	out := make([]domain.StoredRecord, n)
	base := time.UnixMilli(1_700_000_000_000)
	for i := range out {
		out[i] = domain.StoredRecord{
			Key: fmt.Sprintf("k%03d", i),
			SubmissionRecord: domain.NewRecord(domain.Lead{
				Name: fmt.Sprintf("Student %d", i), RollNumber: "21CS001", Branch: "CS",
				Institution: "University of Technology", Email: "a@b.co", Mobile: "+1 (555) 123-4567",
			}, base.Add(time.Duration(i)*time.Minute)),
		}
	}
	return out
}

func TestGenerateRoster_WritesPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GenerateRoster("users", records(3), &buf))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestGenerateRoster_PaginatesLongRosters(t *testing.T) {
	var short, long bytes.Buffer
	require.NoError(t, GenerateRoster("users", records(5), &short))
	require.NoError(t, GenerateRoster("users", records(120), &long))

	pages := func(b []byte) int { return strings.Count(string(b), "/Type /Page\n") }
	require.Equal(t, 1, pages(short.Bytes()))
	require.Greater(t, pages(long.Bytes()), 1)
}

func TestGenerateRoster_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GenerateRoster("users", nil, &buf))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestFit(t *testing.T) {
	pdf := fpdf.New("L", "mm", "Letter", "")
	pdf.SetFont("Helvetica", "", 8)
	require.Equal(t, "short", fit(pdf, "short", 100))
	got := fit(pdf, strings.Repeat("x", 200), 20)
	require.True(t, strings.HasSuffix(got, "..."))
	require.LessOrEqual(t, pdf.GetStringWidth(got), 20.0)
}

func TestSubmittedAt(t *testing.T) {
	r := records(1)[0]
	require.Equal(t, "2023-11-14 22:13", submittedAt(&r))
	r.SubmittedAtEpochMillis = 0
	require.Equal(t, r.SubmittedAtISO, submittedAt(&r))
}
