package model

// FeatureRecord holds the lexical features derived from a single URL string.
// The first six fields are the basic set the classifier was trained on; the
// remaining fields are the extended set used as narrative context.
type FeatureRecord struct {
	URLLength      int `json:"url_length"`       // len(url)
	DomainDotCount int `json:"domain_dot_count"` // '.' in the authority
	DomainLength   int `json:"domain_length"`    // len(authority)
	SlashCount     int `json:"slash_count"`      // '/' in the whole URL
	PathLength     int `json:"path_length"`      // len(path)
	QueryLength    int `json:"query_length"`     // len(query)

	HasIP                 bool   `json:"has_ip"`                  // Host is a dotted-quad literal
	NumSubdomains         int    `json:"num_subdomains"`          // Labels left of the registrable domain
	TLD                   string `json:"tld"`                     // Public suffix
	HasHTTPS              bool   `json:"has_https"`               // Scheme is https
	NumSpecialChars       int    `json:"num_special_chars"`       // Occurrences of @ - _ ~
	NumDigits             int    `json:"num_digits"`              // Decimal digits in the URL
	PathDepth             int    `json:"path_depth"`              // '/' in the path
	HasSuspiciousKeywords bool   `json:"has_suspicious_keywords"` // login, verify, paypal, ...
}

// BasicFeatureNames lists the classifier inputs in Vector order.
var BasicFeatureNames = []string{
	"url_length",
	"domain_dot_count",
	"domain_length",
	"slash_count",
	"path_length",
	"query_length",
}

// Vector returns the basic feature set in the order the classifier expects.
func (f FeatureRecord) Vector() []float64 {
	return []float64{
		float64(f.URLLength),
		float64(f.DomainDotCount),
		float64(f.DomainLength),
		float64(f.SlashCount),
		float64(f.PathLength),
		float64(f.QueryLength),
	}
}
