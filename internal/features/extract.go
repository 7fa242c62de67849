package features

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/ppiankov/phishlens/internal/model"
	"golang.org/x/net/publicsuffix"
)

// SuspiciousKeywords are matched case-insensitively anywhere in the URL
var SuspiciousKeywords = []string{
	"login",
	"verify",
	"account",
	"update",
	"secure",
	"banking",
	"paypal",
	"ebay",
}

var ipv4Pattern = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}`)

// Extract derives the feature record for a URL. It never fails: a URL that
// cannot be parsed yields an empty authority, path and query.
func Extract(rawURL string) model.FeatureRecord {
	var (
		scheme    string
		authority string
		host      string
		path      string
		query     string
	)

	if parsed, err := url.Parse(rawURL); err == nil {
		scheme = parsed.Scheme
		authority = parsed.Host
		if parsed.User != nil {
			authority = parsed.User.String() + "@" + parsed.Host
		}
		host = parsed.Hostname()
		path = parsed.EscapedPath()
		query = parsed.RawQuery
	}

	lower := strings.ToLower(rawURL)

	return model.FeatureRecord{
		URLLength:      len(rawURL),
		DomainDotCount: strings.Count(authority, "."),
		DomainLength:   len(authority),
		SlashCount:     strings.Count(rawURL, "/"),
		PathLength:     len(path),
		QueryLength:    len(query),

		HasIP:                 ipv4Pattern.MatchString(host),
		NumSubdomains:         countSubdomains(host),
		TLD:                   publicSuffix(host),
		HasHTTPS:              scheme == "https",
		NumSpecialChars:       countAny(rawURL, "@-_~"),
		NumDigits:             countDigits(rawURL),
		PathDepth:             strings.Count(path, "/"),
		HasSuspiciousKeywords: containsAny(lower, SuspiciousKeywords),
	}
}

// countSubdomains counts the labels left of the registrable domain
func countSubdomains(host string) int {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" || net.ParseIP(host) != nil {
		return 0
	}

	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil || registrable == host {
		return 0
	}

	sub := strings.TrimSuffix(host, "."+registrable)
	if sub == "" || sub == host {
		return 0
	}
	return len(strings.Split(sub, "."))
}

// publicSuffix returns the public suffix of host, or "" for IP literals and
// empty hosts
func publicSuffix(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" || net.ParseIP(host) != nil {
		return ""
	}
	suffix, _ := publicsuffix.PublicSuffix(host)
	return suffix
}

func countAny(s string, chars string) int {
	count := 0
	for _, r := range s {
		if strings.ContainsRune(chars, r) {
			count++
		}
	}
	return count
}

func countDigits(s string) int {
	count := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
