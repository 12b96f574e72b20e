package extract

import (
	"fmt"
	"slices"
)

// MaxUploadBytes is the resume size ceiling.
const MaxUploadBytes int64 = 5 * 1024 * 1024

// Limits bound what an upload may look like before any decoding happens.
type Limits struct {
	MaxBytes   int64
	MediaTypes []string
}

func DefaultLimits() Limits {
	return Limits{
		MaxBytes:   MaxUploadBytes,
		MediaTypes: []string{MediaTypeText, MediaTypePDF, MediaTypeDOCX},
	}
}

// Admit rejects oversized files and disallowed media types.
func Admit(doc Document, limits Limits) error {
	size := doc.Size
	if size < int64(len(doc.Data)) {
		size = int64(len(doc.Data))
	}
	if limits.MaxBytes > 0 && size > limits.MaxBytes {
		return fmt.Errorf("%w: %s is %.2f MB, limit is %.2f MB",
			ErrFileTooLarge, doc.Name, megabytes(size), megabytes(limits.MaxBytes))
	}

	mediaType := ResolveMediaType(doc)
	if !slices.Contains(limits.MediaTypes, mediaType) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, displayType(mediaType, doc.Name))
	}
	return nil
}

func megabytes(n int64) float64 {
	return float64(n) / 1024 / 1024
}
