package features

import (
	"encoding/json"
	"testing"

	"github.com/ppiankov/phishlens/internal/model"
)

func TestExtract_BasicFeatures(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want model.FeatureRecord
	}{
		{
			name: "https with subdomain and query",
			url:  "https://www.example.com/login?user=1",
			want: model.FeatureRecord{
				URLLength:             36,
				DomainDotCount:        2,
				DomainLength:          15,
				SlashCount:            3,
				PathLength:            6,
				QueryLength:           6,
				HasIP:                 false,
				NumSubdomains:         1,
				TLD:                   "com",
				HasHTTPS:              true,
				NumSpecialChars:       0,
				NumDigits:             1,
				PathDepth:             1,
				HasSuspiciousKeywords: true,
			},
		},
		{
			name: "ip literal host",
			url:  "http://192.168.1.1/secure-update/index.php",
			want: model.FeatureRecord{
				URLLength:             42,
				DomainDotCount:        3,
				DomainLength:          11,
				SlashCount:            4,
				PathLength:            24,
				QueryLength:           0,
				HasIP:                 true,
				NumSubdomains:         0,
				TLD:                   "",
				HasHTTPS:              false,
				NumSpecialChars:       1,
				NumDigits:             8,
				PathDepth:             2,
				HasSuspiciousKeywords: true,
			},
		},
		{
			name: "unparseable url",
			url:  "http://[::1",
			want: model.FeatureRecord{
				URLLength:  11,
				SlashCount: 2,
				NumDigits:  1,
			},
		},
		{
			name: "empty string",
			url:  "",
			want: model.FeatureRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.url)
			if got != tt.want {
				t.Errorf("Extract(%q)\n got: %+v\nwant: %+v", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtract_Subdomains(t *testing.T) {
	tests := []struct {
		url        string
		subdomains int
		tld        string
	}{
		{"https://example.com", 0, "com"},
		{"https://a.b.example.com/", 2, "com"},
		{"https://user@login.secure.bank.co.uk:8443/a/b/c?x=1", 2, "co.uk"},
		{"http://10.0.0.1/", 0, ""},
	}

	for _, tt := range tests {
		got := Extract(tt.url)
		if got.NumSubdomains != tt.subdomains {
			t.Errorf("%s: expected %d subdomains, got %d", tt.url, tt.subdomains, got.NumSubdomains)
		}
		if got.TLD != tt.tld {
			t.Errorf("%s: expected tld %q, got %q", tt.url, tt.tld, got.TLD)
		}
	}
}

func TestExtract_AuthorityIncludesUserinfoAndPort(t *testing.T) {
	got := Extract("https://user@login.secure.bank.co.uk:8443/a/b/c?x=1")

	// user@login.secure.bank.co.uk:8443
	if got.DomainLength != 33 {
		t.Errorf("expected domain length 33, got %d", got.DomainLength)
	}
	if got.DomainDotCount != 4 {
		t.Errorf("expected 4 dots in authority, got %d", got.DomainDotCount)
	}
	if got.NumSpecialChars != 1 {
		t.Errorf("expected 1 special char (@), got %d", got.NumSpecialChars)
	}
	if got.PathDepth != 3 {
		t.Errorf("expected path depth 3, got %d", got.PathDepth)
	}
}

func TestExtract_KeywordsCaseInsensitive(t *testing.T) {
	if !Extract("https://example.com/PayPal").HasSuspiciousKeywords {
		t.Error("expected PayPal to match case-insensitively")
	}
	if Extract("https://example.com/docs").HasSuspiciousKeywords {
		t.Error("expected no keyword match for /docs")
	}
}

func TestExtract_NeverNegative(t *testing.T) {
	inputs := []string{
		"",
		"%",
		"://",
		"http://",
		"http://[::1",
		"javascript:alert(1)",
		"mailto:someone@example.com",
		"http://xn--80ak6aa92e.com/",
		"ftp://a..b../../..?&&==#",
		"HTTP://EXAMPLE.COM:99999/%zz",
		"   https://example.com   ",
	}

	for _, in := range inputs {
		f := Extract(in)
		for i, v := range f.Vector() {
			if v < 0 {
				t.Errorf("Extract(%q): basic feature %s is negative: %v", in, model.BasicFeatureNames[i], v)
			}
		}
		if f.NumSubdomains < 0 || f.NumSpecialChars < 0 || f.NumDigits < 0 || f.PathDepth < 0 {
			t.Errorf("Extract(%q): negative extended feature: %+v", in, f)
		}
	}
}

func TestExtract_Deterministic(t *testing.T) {
	url := "https://login.example-bank.com/verify?id=42"
	if Extract(url) != Extract(url) {
		t.Error("expected identical records for identical input")
	}
}

func TestFeatureRecord_JSONRoundTrip(t *testing.T) {
	original := Extract("https://user@login.secure.bank.co.uk:8443/a/b/c?x=1")

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded model.FeatureRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded != original {
		t.Errorf("round trip changed record\n got: %+v\nwant: %+v", decoded, original)
	}
}

func TestFeatureRecord_Vector(t *testing.T) {
	f := Extract("https://www.example.com/login?user=1")
	v := f.Vector()
	want := []float64{36, 2, 15, 3, 6, 6}

	if len(v) != len(model.BasicFeatureNames) {
		t.Fatalf("expected %d features, got %d", len(model.BasicFeatureNames), len(v))
	}
	for i := range want {
		if v[i] != want[i] {
			t.Errorf("feature %s: expected %v, got %v", model.BasicFeatureNames[i], want[i], v[i])
		}
	}
}
