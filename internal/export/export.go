// Package export packages the current itinerary as a downloadable file.
package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/phpdave11/gofpdf"
)

// File names are fixed regardless of the trip.
const (
	TextFilename = "itinerary.txt"
	PDFFilename  = "itinerary.pdf"
)

// Attachment is a file ready to be served for download.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ContentDisposition returns the header value that triggers a browser save.
func (a Attachment) ContentDisposition() string {
	return fmt.Sprintf("attachment; filename=%q", a.Filename)
}

// Text packages the itinerary verbatim as a plain text file.
func Text(itinerary string) Attachment {
	return Attachment{
		Filename:    TextFilename,
		ContentType: "text/plain; charset=utf-8",
		Data:        []byte(itinerary),
	}
}

var (
	headingPattern  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	bulletPattern   = regexp.MustCompile(`^\s*[-*+]\s+(.*)$`)
	emphasisPattern = regexp.MustCompile(`\*\*|__|\*|` + "`")
)

// PDF lays the itinerary out on A4 pages. Headings and bullets are kept,
// inline markdown markers are stripped.
func PDF(itinerary string) (Attachment, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Itinerary", true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, line := range strings.Split(strings.ReplaceAll(itinerary, "\r\n", "\n"), "\n") {
		line = strings.TrimRight(line, " \t")
		switch {
		case line == "":
			pdf.Ln(3)
		case headingPattern.MatchString(line):
			m := headingPattern.FindStringSubmatch(line)
			size := 18.0 - float64(len(m[1])-1)*2
			pdf.SetFont("Helvetica", "B", size)
			pdf.MultiCell(0, size*0.5, tr(clean(m[2])), "", "", false)
			pdf.Ln(1)
		case bulletPattern.MatchString(line):
			m := bulletPattern.FindStringSubmatch(line)
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, tr("- "+clean(m[1])), "", "", false)
		default:
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, tr(clean(line)), "", "", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Attachment{}, fmt.Errorf("render pdf: %w", err)
	}

	return Attachment{
		Filename:    PDFFilename,
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}

func clean(s string) string {
	return strings.TrimSpace(emphasisPattern.ReplaceAllString(s, ""))
}
