package intake

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/pragatiworker/internal/autofill"
	"github.com/muhammadolammi/pragatiworker/internal/extract"
	"github.com/muhammadolammi/pragatiworker/internal/form"
	"github.com/muhammadolammi/pragatiworker/internal/profile"
)

type noopHighlighter struct{}

func (noopHighlighter) Highlight(autofill.Target, string) {}

type stubEnricher struct {
	p   *profile.Profile
	err error
}

func (s stubEnricher) Enrich(context.Context, string) (*profile.Profile, error) {
	return s.p, s.err
}

const resumeText = `Ravi Kumar
Phone: 9123456789 | Email: ravi@example.com
Gender: Male
Lives in Jaipur, Rajasthan. PIN 302001
Skills: Java, Spring, Rust`

func textDoc(body string) extract.Document {
	return extract.Document{Name: "resume.txt", MediaType: "text/plain", Data: []byte(body)}
}

func TestPipeline_Run(t *testing.T) {
	p := New(nil, autofill.New(noopHighlighter{}, nil))
	f := form.NewStandard()

	out, err := p.Run(context.Background(), textDoc(resumeText), f)
	require.NoError(t, err)

	assert.Equal(t, extract.MediaTypeText, out.MediaType)
	assert.Equal(t, "9123456789", out.Profile.Phone)
	assert.Equal(t, "9123456789", f.Value(form.FieldPhone))
	assert.True(t, f.Checked("male"))
	assert.Equal(t, "rajasthan", f.Value(form.FieldState))
	assert.Equal(t, "jaipur", f.Value(form.FieldDistrict))
	assert.Equal(t, "302001", f.Value(form.FieldPincode))
	assert.Equal(t, []string{"Rust"}, f.CustomSkills.List())
	assert.Contains(t, out.Filled.Filled, form.FieldPhone)
}

func TestPipeline_Rejections(t *testing.T) {
	p := New(nil, autofill.New(noopHighlighter{}, nil))
	p.Limits.MaxBytes = 64

	tests := []struct {
		name string
		doc  extract.Document
		want error
	}{
		{"too large", textDoc(strings.Repeat("x", 65)), extract.ErrFileTooLarge},
		{"legacy word", extract.Document{Name: "cv.doc", Data: []byte("binary")}, extract.ErrUnsupportedFormat},
		{"image", extract.Document{Name: "cv.png", MediaType: "image/png", Data: []byte("png")}, extract.ErrUnsupportedFormat},
		{"too short", textDoc("  Asha   "), extract.ErrExtractionUnavailable},
		{"spaced letters do not count spaces", textDoc("a b c d e f g h i j k l m n o p"), extract.ErrExtractionUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := form.NewStandard()
			_, err := p.Run(context.Background(), tt.doc, f)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.Values(), "form untouched on failure")
		})
	}
}

func TestPipeline_MinimumLength(t *testing.T) {
	p := New(nil, autofill.New(noopHighlighter{}, nil))

	tests := []struct {
		name string
		text string
		ok   bool
	}{
		{"twenty letters in groups", "abcde fghij\tklmno\npqrst", true},
		{"nineteen letters padded with spaces", "abcde    fghij    klmno    pqrs     ", false},
		{"only whitespace", " \t\n\u00a0 ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := p.Analyze(context.Background(), textDoc(tt.text))
			if !tt.ok {
				assert.ErrorIs(t, err, extract.ErrExtractionUnavailable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.text), out.TextChars)
		})
	}
}

func TestPipeline_AdmissionBeforeExtraction(t *testing.T) {
	p := New(nil, nil)
	called := false
	p.Extractor.PDF = func([]byte) (string, error) {
		called = true
		return "", nil
	}
	p.Limits.MaxBytes = 4

	_, err := p.Analyze(context.Background(), extract.Document{Name: "cv.pdf", MediaType: extract.MediaTypePDF, Data: []byte("%PDF-1.7")})
	assert.ErrorIs(t, err, extract.ErrFileTooLarge)
	assert.False(t, called)
}

func TestPipeline_EnrichmentFillsGaps(t *testing.T) {
	enricher := stubEnricher{p: &profile.Profile{Phone: "9000000000", Category: "obc", CollegeName: "IIT Delhi"}}
	p := New(enricher, autofill.New(noopHighlighter{}, nil))

	out, err := p.Analyze(context.Background(), textDoc(resumeText))
	require.NoError(t, err)
	assert.Equal(t, "9123456789", out.Profile.Phone)
	assert.Equal(t, "obc", out.Profile.Category)
	assert.Equal(t, "IIT Delhi", out.Profile.CollegeName)
}

func TestPipeline_EnrichmentFailureIsSilent(t *testing.T) {
	p := New(stubEnricher{err: errors.New("no network")}, autofill.New(noopHighlighter{}, nil))

	out, err := p.Analyze(context.Background(), textDoc(resumeText))
	require.NoError(t, err)
	assert.Equal(t, profile.Parse(resumeText), out.Profile)
}
