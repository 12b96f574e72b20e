package extract

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// DecodePDF extracts text page by page. Pages are separated by a newline.
func DecodePDF(data []byte) (text string, err error) {
	// the pdf package panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		textBuilder.WriteString(strings.Join(strings.Fields(pageText), " "))
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:cr\s*/>`)
	docxTab          = regexp.MustCompile(`<w:tab\s*/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

// DecodeDOCX returns the raw text body of word/document.xml, one paragraph per line.
func DecodeDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return docxXMLToText(doc.Editable().GetContent()), nil
}

func docxXMLToText(content string) string {
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	lines := strings.Split(content, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
