package model

import "strings"

// knownMinistries maps government domains to display names. Matching is by
// substring so subdomains and full URLs both resolve.
var knownMinistries = []struct {
	domain string
	name   string
}{
	{"awbi.gov.in", "Animal Welfare Board of India"},
	{"dahd.gov.in", "Department of Animal Husbandry and Dairying"},
	{"moef.gov.in", "Ministry of Environment, Forest and Climate Change"},
	{"fssai.gov.in", "Food Safety and Standards Authority of India"},
	{"pib.gov.in", "Press Information Bureau"},
	{"prsindia.org", "PRS Legislative Research"},
	{"sansad.in", "Parliament of India"},
	{"india.gov.in", "Government of India"},
}

// UnknownMinistry is the fallback when no known domain matches.
const UnknownMinistry = "Unknown Ministry"

// MinistryForURL infers the issuing body from a URL by known-domain
// substring match.
func MinistryForURL(rawURL string) string {
	lower := strings.ToLower(rawURL)
	for _, m := range knownMinistries {
		if strings.Contains(lower, m.domain) {
			return m.name
		}
	}
	return UnknownMinistry
}
