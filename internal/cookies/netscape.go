// Package cookies loads browser-exported cookies.txt files into cookie
// jars for authenticated sessions.
package cookies

import (
	"bufio"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ParseNetscape parses the Netscape cookies.txt format.
// Format: domain flag path secure expiration name value
func ParseNetscape(r io.Reader) ([]*http.Cookie, error) {
	var cookies []*http.Cookie
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 7 {
			continue
		}

		domain := parts[0]
		path := parts[2]
		secure := strings.EqualFold(parts[3], "TRUE")
		expiresUnix, _ := strconv.ParseInt(parts[4], 10, 64)
		name := parts[5]
		value := parts[6]

		cookie := &http.Cookie{
			Name:     name,
			Value:    value,
			Domain:   domain,
			Path:     path,
			Expires:  time.Unix(expiresUnix, 0),
			Secure:   secure,
			HttpOnly: true,
		}
		cookies = append(cookies, cookie)
	}

	return cookies, scanner.Err()
}

// LoadJar reads a cookies.txt stream into a fresh cookie jar, grouping
// entries by their domain field.
func LoadJar(r io.Reader) (http.CookieJar, error) {
	parsed, err := ParseNetscape(r)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	byDomain := make(map[string][]*http.Cookie)
	for _, c := range parsed {
		host := strings.TrimPrefix(c.Domain, ".")
		if host == "" {
			continue
		}
		byDomain[host] = append(byDomain[host], c)
	}
	for host, group := range byDomain {
		jar.SetCookies(&url.URL{Scheme: "https", Host: host}, group)
	}
	return jar, nil
}
