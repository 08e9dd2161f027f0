package presenter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	reportMargin = 15.0
	reportWidth  = 210.0 - 2*reportMargin
	barHeight    = 3.0
)

type reportWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// RenderPDF lays out a decoded result as a one-column printable report.
func RenderPDF(view View) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(reportMargin, reportMargin, reportMargin)
	pdf.SetTitle("Resume Analysis", true)
	pdf.AddPage()

	w := &reportWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 8, w.tr(view.PersonalDetails.Name))
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, w.tr(fmt.Sprintf("%s  |  %s  |  %s",
		view.PersonalDetails.Email,
		view.PersonalDetails.Phone,
		view.PersonalDetails.Location,
	)))
	pdf.Ln(5)
	if gh := view.PersonalDetails.GitHub; gh != nil {
		pdf.SetTextColor(37, 99, 235)
		pdf.CellFormat(0, 5, w.tr(gh.Username), "", 1, "", false, 0, gh.URL)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)

	w.section("RESUME SCORE")
	pdf.SetFont("Helvetica", "B", 22)
	pdf.Cell(0, 10, fmt.Sprintf("%s / 100", formatScore(view.Score)))
	pdf.Ln(12)

	w.section("SKILLS SCORES")
	w.bar("Soft Skills", view.SkillsScores.SoftSkills)
	w.bar("Hard Skills", view.SkillsScores.HardSkills)
	pdf.Ln(2)

	w.section("SCORE BREAKDOWN")
	w.bar("Formatting", view.ScoreBreakdown.Formatting)
	w.bar("Experience", view.ScoreBreakdown.Experience)
	w.bar("Skills", view.ScoreBreakdown.Skills)
	w.bar("Education", view.ScoreBreakdown.Education)
	pdf.Ln(2)

	if chart := view.ChartSkills(); len(chart) > 0 {
		w.section("SKILL CONFIDENCE")
		for _, skill := range chart {
			w.bar(skill.Name, skill.Confidence)
		}
		pdf.Ln(2)
	}

	if len(view.Projects) > 0 {
		w.section("GITHUB PROJECTS")
		for _, proj := range view.Projects {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(0, 5, w.tr(proj.Name), "", 1, "", false, 0, proj.Link)
			pdf.SetFont("Helvetica", "", 9)
			pdf.MultiCell(0, 4, w.tr(proj.Description), "", "", false)
			if len(proj.Tech) > 0 {
				pdf.SetFont("Helvetica", "I", 9)
				pdf.MultiCell(0, 4, w.tr(strings.Join(proj.Tech, "  |  ")), "", "", false)
			}
			pdf.Ln(2)
		}
	}

	w.list("STRENGTHS", view.SWOT.Strengths)
	w.list("WEAKNESSES", view.SWOT.Weaknesses)
	w.list("OPPORTUNITIES", view.SWOT.Opportunities)
	w.list("THREATS", view.SWOT.Threats)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (w *reportWriter) section(title string) {
	w.pdf.SetFont("Helvetica", "B", 10)
	w.pdf.Cell(0, 6, title)
	w.pdf.Ln(6)
	w.pdf.SetDrawColor(100, 100, 100)
	w.pdf.Line(reportMargin, w.pdf.GetY(), reportMargin+reportWidth, w.pdf.GetY())
	w.pdf.Ln(3)
}

func (w *reportWriter) bar(label string, score float64) {
	pct := score
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	w.pdf.SetFont("Helvetica", "", 9)
	w.pdf.CellFormat(45, 5, w.tr(label), "", 0, "", false, 0, "")
	w.pdf.CellFormat(15, 5, formatScore(score)+"%", "", 0, "R", false, 0, "")

	x, y := w.pdf.GetX()+4, w.pdf.GetY()+1
	track := reportWidth - 64
	w.pdf.SetFillColor(229, 231, 235)
	w.pdf.Rect(x, y, track, barHeight, "F")
	if pct > 0 {
		w.pdf.SetFillColor(34, 197, 94)
		w.pdf.Rect(x, y, track*pct/100, barHeight, "F")
	}
	w.pdf.Ln(6)
}

func (w *reportWriter) list(title string, items []string) {
	if len(items) == 0 {
		return
	}
	w.section(title)
	w.pdf.SetFont("Helvetica", "", 9)
	for _, item := range items {
		w.pdf.CellFormat(5, 4, "-", "", 0, "", false, 0, "")
		w.pdf.MultiCell(0, 4, w.tr(item), "", "", false)
	}
	w.pdf.Ln(1)
}

func formatScore(score float64) string {
	if score == float64(int64(score)) {
		return fmt.Sprintf("%d", int64(score))
	}
	return fmt.Sprintf("%.1f", score)
}
