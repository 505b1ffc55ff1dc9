package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ncclens/internal/errors"

	"github.com/go-pdf/fpdf"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Format selects a rendering of the document
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatText     Format = "txt"
)

// ParseFormat accepts pdf, md/markdown, html and txt/text
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf", "":
		return FormatPDF, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown report format %q (want pdf, md, html or txt)", s))
}

// HTML renders the Markdown form of the document to an HTML fragment
func (d *Document) HTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return markdown.ToHTML([]byte(d.Markdown()), p, r)
}

// WritePDF renders the document as a paginated A4 PDF; the title repeats on every page
func (d *Document) WritePDF(w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 10, tr(d.Title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AliasNbPages("")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	for _, s := range d.Sections {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, tr(s.Title), "", 1, "L", false, 0, "")
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "", 12)
		for _, l := range s.Lines {
			text := l.text()
			if l.Indent {
				text = "    " + text
			}
			pdf.MultiCell(0, 8, tr(text), "", "L", false)
		}
		pdf.Ln(5)
	}

	if err := pdf.Error(); err != nil {
		return errors.Wrap(err, "failed to lay out PDF report")
	}
	return pdf.Output(w)
}

// Render writes the document in format to w
func (d *Document) Render(w io.Writer, format Format) error {
	var err error
	switch format {
	case FormatPDF:
		return d.WritePDF(w)
	case FormatMarkdown:
		_, err = io.WriteString(w, d.Markdown())
	case FormatHTML:
		_, err = w.Write(d.HTML())
	case FormatText:
		_, err = io.WriteString(w, d.Text())
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown report format %q", format))
	}
	return err
}

// WriteFile renders the document to path, replacing it only after rendering succeeded
func (d *Document) WriteFile(path string, format Format) error {
	var buf bytes.Buffer
	if err := d.Render(&buf, format); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create report directory for %s", path)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "failed to write report %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "failed to move report into place at %s", path)
	}
	return nil
}
