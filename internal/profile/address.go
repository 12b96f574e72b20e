package profile

import (
	"regexp"
	"strings"
)

var (
	pincodeRegex     = regexp.MustCompile(`\b[1-9][0-9]{5}\b`)
	addressHintRegex = regexp.MustCompile(`pin|pincode|postal|zip|address|addr\b`)
	categoryRegex    = regexp.MustCompile(`(?i)\b(?:Category|Caste)\s*[:\-]?\s*(General|OBC|SC|ST|EWS)\b`)
)

// pincodeWindow is how far either side of a six-digit number an address hint may sit.
const pincodeWindow = 40

func (p *Parser) detectAddress(text, lower string, out *Profile) {
	out.Pincode = findPincode(lower)

	for _, state := range p.regions.States {
		if !containsAny(lower, state.Keywords) {
			continue
		}
		out.State = state.Name
		for _, k := range state.Keywords {
			if district, ok := p.regions.Cities[k]; ok && strings.Contains(lower, k) {
				out.District = district
				break
			}
		}
		break
	}

	if containsAny(lower, p.regions.Metros) {
		out.AreaType = "urban"
	}

	if m := categoryRegex.FindStringSubmatch(text); m != nil {
		out.Category = strings.ToLower(m[1])
	}
}

// findPincode prefers a number near an address keyword, else the first plausible one.
func findPincode(lower string) string {
	matches := pincodeRegex.FindAllStringIndex(lower, -1)
	if len(matches) == 0 {
		return ""
	}
	for _, m := range matches {
		from := max(0, m[0]-pincodeWindow)
		to := min(len(lower), m[0]+pincodeWindow)
		if addressHintRegex.MatchString(lower[from:to]) {
			return lower[m[0]:m[1]]
		}
	}
	return lower[matches[0][0]:matches[0][1]]
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, k) {
			return true
		}
	}
	return false
}
