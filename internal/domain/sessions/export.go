package sessions

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

var reportColumns = []struct {
	title string
	width float64
}{
	{"Usuario", 48},
	{"Inicio", 34},
	{"Fin", 34},
	{"Duración", 22},
	{"IP", 30},
	{"Dispositivo", 50},
	{"Ubicación", 34},
	{"Estado", 22},
}

// WriteReport renders the sessions as a landscape A4 table.
func WriteReport(w io.Writer, list []Session, generatedAt time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Sesiones", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Gestión de Sesiones"))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Generado: %s  ·  %d sesiones", generatedAt.Format("2006-01-02 15:04"), len(list))))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(229, 231, 235)
	for _, col := range reportColumns {
		pdf.CellFormat(col.width, 7, tr(col.title), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, s := range list {
		row := []string{
			s.UserName + " <" + s.UserEmail + ">",
			formatStamp(s.LoginTime),
			formatStamp(s.LogoutTime),
			s.DurationText(),
			s.IPAddress,
			s.Agent.Browser + " / " + s.Agent.OS,
			s.Location,
			s.Status.Label(),
		}
		for i, col := range reportColumns {
			pdf.CellFormat(col.width, 6, tr(truncate(row[i], int(col.width/1.6))), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	summary := Summarize(list)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Activas: %d   Total: %d   Duración promedio: %s", summary.Active, summary.Total, summary.AverageText)))

	return pdf.Output(w)
}

// ArchiveReport writes the report under dir and returns its path.
func ArchiveReport(dir string, list []Session, generatedAt time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "sesiones-"+generatedAt.UTC().Format("20060102T150405")+".pdf")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", err
	}
	if err := WriteReport(f, list, generatedAt); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

func formatStamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if limit <= 1 || len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
