// Package intake runs an uploaded resume through admission, extraction, parsing, optional
// enrichment and auto-fill.
package intake

import (
	"context"
	"fmt"
	"log"
	"unicode"

	"github.com/muhammadolammi/pragatiworker/internal/autofill"
	"github.com/muhammadolammi/pragatiworker/internal/extract"
	"github.com/muhammadolammi/pragatiworker/internal/form"
	"github.com/muhammadolammi/pragatiworker/internal/inference"
	"github.com/muhammadolammi/pragatiworker/internal/profile"
)

// MinTextLength is the fewest non-space characters worth parsing.
const MinTextLength = 20

// Outcome is the result of one analysed resume.
type Outcome struct {
	MediaType string           `json:"mediaType"`
	Profile   *profile.Profile `json:"profile"`
	Filled    autofill.Result  `json:"autofill"`
	TextChars int              `json:"textChars"`
}

type Pipeline struct {
	Limits    extract.Limits
	Extractor *extract.Extractor
	Parser    *profile.Parser
	Enricher  inference.Enricher
	Mapper    *autofill.Mapper
}

// New wires the default stages. enricher may be nil.
func New(enricher inference.Enricher, mapper *autofill.Mapper) *Pipeline {
	if mapper == nil {
		mapper = autofill.New(nil, nil)
	}
	return &Pipeline{
		Limits:    extract.DefaultLimits(),
		Extractor: extract.New(),
		Parser:    profile.NewParser(nil, nil),
		Enricher:  enricher,
		Mapper:    mapper,
	}
}

// Analyze admits, extracts and parses doc. Text shorter than MinTextLength is reported as
// extract.ErrExtractionUnavailable.
func (p *Pipeline) Analyze(ctx context.Context, doc extract.Document) (*Outcome, error) {
	if err := extract.Admit(doc, p.Limits); err != nil {
		return nil, err
	}
	text, err := p.Extractor.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}
	if n := visibleChars(text); n < MinTextLength {
		return nil, fmt.Errorf("%w: %s yielded %d characters", extract.ErrExtractionUnavailable, doc.Name, n)
	}

	local := p.Parser.Parse(text)
	resolved := inference.Resolve(ctx, p.Enricher, local, text)
	log.Printf("[Intake] parsed %s (%s, %d chars, %d skills)", doc.Name, extract.ResolveMediaType(doc), len(text), len(resolved.Skills))

	return &Outcome{
		MediaType: extract.ResolveMediaType(doc),
		Profile:   resolved,
		TextChars: len(text),
	}, nil
}

func visibleChars(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// Run analyses doc and auto-fills f with the result.
func (p *Pipeline) Run(ctx context.Context, doc extract.Document, f *form.State) (*Outcome, error) {
	out, err := p.Analyze(ctx, doc)
	if err != nil {
		return nil, err
	}
	out.Filled = p.Mapper.Apply(out.Profile, f)
	return out, nil
}
