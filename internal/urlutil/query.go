// Package urlutil provides query-string helpers for playback URLs.
package urlutil

import (
	"net/url"
	"strings"
)

// ParseQuery decodes a raw query string into a flat key/value map. The last
// occurrence of a repeated key wins. Malformed escapes yield a nil map.
func ParseQuery(qs string) map[string]string {
	values, err := url.ParseQuery(qs)
	if err != nil {
		return nil
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[len(v)-1]
		}
	}
	return out
}

// EncodeQuery percent-encodes a key/value map into a query string with
// deterministic (sorted) key order.
func EncodeQuery(params map[string]string) string {
	values := make(url.Values, len(params))
	for k, v := range params {
		values.Set(k, v)
	}
	return values.Encode()
}

// ReplaceNSigQueryParam rewrites the "n" query parameter of a playback URL
// with its deciphered value. URLs without an "n" parameter are returned
// unchanged.
func ReplaceNSigQueryParam(rawURL, decipheredN string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	if !q.Has("n") {
		return rawURL, nil
	}
	q.Set("n", decipheredN)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// QueryParam reads a single query parameter from a URL.
func QueryParam(rawURL, key string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	q := u.Query()
	if !q.Has(key) {
		return "", false
	}
	return q.Get(key), true
}

// SetQueryParam sets (or adds) a single query parameter on a URL.
func SetQueryParam(rawURL, key, value string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
