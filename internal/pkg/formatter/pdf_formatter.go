package formatter

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	pdfFont = "Helvetica"
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

// Format lays out the question, the answer and the cited passages. Core
// fonts only cover cp1252, so text is translated and unsupported runes
// are dropped by gofpdf.
func (pf *PDFFormatter) Format(a *Answer) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(a.Question, true)
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 16)
	pdf.MultiCell(0, 8, tr(a.Question), "", "", false)
	pdf.Ln(4)

	pdf.SetFont(pdfFont, "", 11)
	_, lineHeight := pdf.GetFontSize()
	pdf.MultiCell(0, lineHeight*1.5, tr(a.Result.AnswerText), "", "", false)
	pdf.Ln(6)

	pdf.SetFont(pdfFont, "B", 13)
	pdf.Cell(0, 8, "Sources")
	pdf.Ln(9)

	if !a.Result.HasSources() {
		pdf.SetFont(pdfFont, "I", 11)
		pdf.Cell(0, 6, "No source documents were returned.")
	}
	for _, doc := range a.Result.SourceDocuments {
		pdf.SetFont(pdfFont, "B", 11)
		pdf.MultiCell(0, 6, tr(sourceTitle(doc)), "", "", false)
		pdf.SetFont(pdfFont, "", 10)
		pdf.MultiCell(0, 5, tr(doc.Content), "", "", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (pf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
