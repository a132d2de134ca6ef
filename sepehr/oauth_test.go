package sepehr

import (
	"net/url"
	"strings"
	"testing"
	"time"
)

// Known vector from the OAuth Core 1.0 spec (appendix A.5.1): the
// photos.example.net request must sign to tR3+Ty81lMeYAr/Fid0kMTYa/WM=.
func newVectorSigner() *OAuth1Signer {
	s := NewOAuth1Signer(
		"dpf43f3p2l4k3l03", "kd94hf93k423kf44",
		"nnch734d00sl2jdk", "pfkkdhi9sl3r4s00",
	)
	s.nonce = func() (string, error) { return "kllo9940pd9333jh", nil }
	s.now = func() time.Time { return time.Unix(1191242096, 0) }
	return s
}

func TestOAuth1SignatureKnownVector(t *testing.T) {
	s := newVectorSigner()
	params := url.Values{
		"file": {"vacation.jpg"},
		"size": {"original"},
	}
	oauth := map[string]string{
		"oauth_consumer_key":     s.ConsumerKey,
		"oauth_nonce":            "kllo9940pd9333jh",
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        "1191242096",
		"oauth_token":            s.AccessToken,
		"oauth_version":          "1.0",
	}
	got := s.sign("GET", "http://photos.example.net/photos", params, oauth)
	want := "tR3+Ty81lMeYAr/Fid0kMTYa/WM="
	if got != want {
		t.Errorf("signature = %q, want %q", got, want)
	}
}

func TestOAuth1AuthHeaderShape(t *testing.T) {
	s := newVectorSigner()
	header, err := s.AuthHeader("GET", "http://photos.example.net/photos", url.Values{
		"file": {"vacation.jpg"},
		"size": {"original"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(header, "OAuth ") {
		t.Fatalf("header %q does not start with OAuth", header)
	}
	for _, want := range []string{
		`oauth_consumer_key="dpf43f3p2l4k3l03"`,
		`oauth_nonce="kllo9940pd9333jh"`,
		`oauth_signature_method="HMAC-SHA1"`,
		`oauth_timestamp="1191242096"`,
		`oauth_token="nnch734d00sl2jdk"`,
		`oauth_version="1.0"`,
		`oauth_signature="tR3%2BTy81lMeYAr%2FFid0kMTYa%2FWM%3D"`,
	} {
		if !strings.Contains(header, want) {
			t.Errorf("header missing %s\nheader: %s", want, header)
		}
	}
}

func TestOAuth1FreshNoncePerRequest(t *testing.T) {
	s := NewOAuth1Signer("ck", "cs", "at", "ts")
	first, err := s.AuthHeader("GET", "https://example.com/api", nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.AuthHeader("GET", "https://example.com/api", nil)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("two requests produced identical headers; nonce not refreshed")
	}
}

func TestStaticHeaderPassesThrough(t *testing.T) {
	h := StaticHeader(`OAuth oauth_consumer_key="abc"`)
	got, err := h.AuthHeader("GET", "https://example.com", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != `OAuth oauth_consumer_key="abc"` {
		t.Errorf("static header changed: %q", got)
	}
}

func TestPercentEncode(t *testing.T) {
	cases := []struct{ in, want string }{
		{"abcABC123", "abcABC123"},
		{"-._~", "-._~"},
		{"a b", "a%20b"},
		{"a+b", "a%2Bb"},
		{"a/b=c&d", "a%2Fb%3Dc%26d"},
		{"صدا", "%D8%B5%D8%AF%D8%A7"},
	}
	for _, c := range cases {
		if got := percentEncode(c.in); got != c.want {
			t.Errorf("percentEncode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBaseURLStripsQuery(t *testing.T) {
	got := baseURL("https://sepehrapi.sepehrtv.ir/v3/epg/tvprogram?channel_id=46&date=2026-02-19")
	if got != "https://sepehrapi.sepehrtv.ir/v3/epg/tvprogram" {
		t.Errorf("baseURL = %q", got)
	}
}
