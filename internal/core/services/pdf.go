// internal/core/services/pdf.go
package services

import (
	"bytes"
	"fmt"
	"strings"
)

// Minimal PDF generation for line-oriented reports. Produces Letter
// pages with a centered title on the first page and one text line per
// ledger row, paginating as needed. Good enough for a printable daily
// report without pulling in a layout engine.

const (
	pdfPageWidth  = 612
	pdfPageHeight = 792
	pdfMarginLeft = 54
	pdfTopY       = 720
	pdfBottomY    = 72
	pdfLineStep   = 16
	pdfBodySize   = 11
	pdfTitleSize  = 16
)

type pdfDocument struct {
	title string
	lines []string
}

func newPDFDocument(title string) *pdfDocument {
	return &pdfDocument{title: title}
}

func (d *pdfDocument) AddLine(line string) {
	d.lines = append(d.lines, line)
}

// Bytes assembles the document into a complete PDF file
func (d *pdfDocument) Bytes() ([]byte, error) {
	pages := d.paginate()
	if len(pages) == 0 {
		pages = [][]string{{}}
	}

	// Object layout: 1 catalog, 2 page tree, 3 body font, 4 title font,
	// then alternating page and content objects.
	objCount := 4 + 2*len(pages)

	var buf bytes.Buffer
	offsets := make([]int, objCount+1)

	buf.WriteString("%PDF-1.4\n")

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 5+2*i)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pages)))
	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	writeObj(4, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold >>")

	for i, pageLines := range pages {
		pageNum := 5 + 2*i
		contentNum := pageNum + 1

		content := d.pageContent(i == 0, pageLines)
		writeObj(pageNum, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 3 0 R /F2 4 0 R >> >> /Contents %d 0 R >>",
			pdfPageWidth, pdfPageHeight, contentNum))
		writeObj(contentNum, fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(content), content))
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", objCount+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= objCount; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", objCount+1, xrefOffset)

	return buf.Bytes(), nil
}

// paginate splits lines across pages. The first page loses two line
// slots to the title block.
func (d *pdfDocument) paginate() [][]string {
	perPage := (pdfTopY - pdfBottomY) / pdfLineStep
	firstPage := perPage - 2

	var pages [][]string
	remaining := d.lines
	capacity := firstPage
	for len(remaining) > 0 {
		n := capacity
		if n > len(remaining) {
			n = len(remaining)
		}
		pages = append(pages, remaining[:n])
		remaining = remaining[n:]
		capacity = perPage
	}
	if len(pages) == 0 {
		pages = append(pages, nil)
	}
	return pages
}

func (d *pdfDocument) pageContent(withTitle bool, lines []string) string {
	var sb strings.Builder
	y := pdfTopY

	if withTitle {
		// Approximate centering from the average Helvetica glyph width
		width := int(float64(len(d.title)) * float64(pdfTitleSize) * 0.55)
		x := (pdfPageWidth - width) / 2
		if x < pdfMarginLeft {
			x = pdfMarginLeft
		}
		fmt.Fprintf(&sb, "BT\n/F2 %d Tf\n%d %d Td\n(%s) Tj\nET\n",
			pdfTitleSize, x, y, escapePDFText(d.title))
		y -= 2 * pdfLineStep
	}

	for _, line := range lines {
		fmt.Fprintf(&sb, "BT\n/F1 %d Tf\n%d %d Td\n(%s) Tj\nET\n",
			pdfBodySize, pdfMarginLeft, y, escapePDFText(line))
		y -= pdfLineStep
	}

	return sb.String()
}

func escapePDFText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
