package sepehr

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// HeaderSource produces an Authorization value for one outbound request.
// Either scheme (per-request signing or a pre-built header) hides behind
// it, so the client never cares which one is configured.
type HeaderSource interface {
	AuthHeader(method, rawURL string, params url.Values) (string, error)
}

// StaticHeader is a pre-built Authorization value used as-is.
type StaticHeader string

func (s StaticHeader) AuthHeader(string, string, url.Values) (string, error) {
	return string(s), nil
}

// OAuth1Signer signs requests with HMAC-SHA1 per RFC 5849, deriving a
// fresh signature from the shared secrets, a nonce and a timestamp.
type OAuth1Signer struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	TokenSecret    string

	// test seams
	nonce func() (string, error)
	now   func() time.Time
}

func NewOAuth1Signer(consumerKey, consumerSecret, accessToken, tokenSecret string) *OAuth1Signer {
	return &OAuth1Signer{
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		AccessToken:    accessToken,
		TokenSecret:    tokenSecret,
		nonce:          randomNonce,
		now:            time.Now,
	}
}

func (s *OAuth1Signer) AuthHeader(method, rawURL string, params url.Values) (string, error) {
	nonce, err := s.nonce()
	if err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}
	oauth := map[string]string{
		"oauth_consumer_key":     s.ConsumerKey,
		"oauth_nonce":            nonce,
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        strconv.FormatInt(s.now().Unix(), 10),
		"oauth_token":            s.AccessToken,
		"oauth_version":          "1.0",
	}
	oauth["oauth_signature"] = s.sign(method, rawURL, params, oauth)

	keys := make([]string, 0, len(oauth))
	for k := range oauth {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", percentEncode(k), percentEncode(oauth[k])))
	}
	return "OAuth " + strings.Join(parts, ", "), nil
}

// sign computes the HMAC-SHA1 signature over the RFC 5849 base string
// built from the request method, the base URL and the combined query and
// oauth parameters.
func (s *OAuth1Signer) sign(method, rawURL string, params url.Values, oauth map[string]string) string {
	type pair struct{ k, v string }
	var pairs []pair
	for k, vs := range params {
		for _, v := range vs {
			pairs = append(pairs, pair{percentEncode(k), percentEncode(v)})
		}
	}
	for k, v := range oauth {
		pairs = append(pairs, pair{percentEncode(k), percentEncode(v)})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].k != pairs[j].k {
			return pairs[i].k < pairs[j].k
		}
		return pairs[i].v < pairs[j].v
	})
	joined := make([]string, len(pairs))
	for i, p := range pairs {
		joined[i] = p.k + "=" + p.v
	}

	base := strings.ToUpper(method) + "&" +
		percentEncode(baseURL(rawURL)) + "&" +
		percentEncode(strings.Join(joined, "&"))
	key := percentEncode(s.ConsumerSecret) + "&" + percentEncode(s.TokenSecret)

	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// baseURL strips query and fragment, keeping scheme://host/path.
func baseURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// percentEncode implements the RFC 3986 encoding OAuth requires: only
// unreserved characters stay literal, everything else becomes %XX.
func percentEncode(s string) string {
	var b strings.Builder
	for _, c := range []byte(s) {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func randomNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
