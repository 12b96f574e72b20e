// Package extract turns uploaded resume files into plain text.
package extract

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

const (
	MediaTypeText = "text/plain"
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeDOC  = "application/msword"
)

var (
	ErrUnsupportedFormat     = errors.New("unsupported file format")
	ErrExtractionUnavailable = errors.New("text extraction unavailable")
	ErrFileTooLarge          = errors.New("file exceeds upload limit")
)

// Document is an uploaded file as received from a picker, a multipart form or object storage.
type Document struct {
	Name      string
	MediaType string
	Size      int64
	Data      []byte
}

// Decoder converts raw file bytes into text.
type Decoder func(data []byte) (string, error)

// Extractor dispatches on media type. A nil decoder means the capability is not installed.
type Extractor struct {
	PDF  Decoder
	DOCX Decoder
}

func New() *Extractor {
	return &Extractor{
		PDF:  DecodePDF,
		DOCX: DecodeDOCX,
	}
}

// Extract returns the document text. It never retries: a failure is terminal for this file.
func (e *Extractor) Extract(ctx context.Context, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mediaType := ResolveMediaType(doc)
	switch mediaType {
	case MediaTypeText:
		return string(doc.Data), nil

	case MediaTypePDF:
		return decodeWith(e.PDF, "pdf", doc.Data)

	case MediaTypeDOCX:
		return decodeWith(e.DOCX, "docx", doc.Data)

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, displayType(mediaType, doc.Name))
	}
}

func decodeWith(decode Decoder, kind string, data []byte) (string, error) {
	if decode == nil {
		return "", fmt.Errorf("%w: no %s decoder installed", ErrExtractionUnavailable, kind)
	}
	text, err := decode(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExtractionUnavailable, kind, err)
	}
	return text, nil
}

// ResolveMediaType normalizes the declared media type, falling back to the file extension
// when the client sent nothing useful.
func ResolveMediaType(doc Document) string {
	declared := strings.ToLower(strings.TrimSpace(doc.MediaType))
	if parsed, _, err := mime.ParseMediaType(declared); err == nil {
		declared = parsed
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}

	switch strings.ToLower(filepath.Ext(doc.Name)) {
	case ".pdf":
		return MediaTypePDF
	case ".docx":
		return MediaTypeDOCX
	case ".txt":
		return MediaTypeText
	case ".doc":
		return MediaTypeDOC
	}
	return declared
}

func displayType(mediaType, name string) string {
	if mediaType != "" {
		return mediaType
	}
	if name != "" {
		return name
	}
	return "unknown"
}
