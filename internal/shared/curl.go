// Utilities for importing an identity provider session from a browser "Copy as cURL" command.
package shared

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
)

var (
	curlHeaderRe = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	curlCookieRe = regexp.MustCompile(`(?:-b|--cookie)\s+'([^']+)'|(?:-b|--cookie)\s+"([^"]+)"`)
	curlURLRe    = regexp.MustCompile(`curl\s+'(https?://[^']+)'|curl\s+"(https?://[^"]+)"|curl\s+(https?://\S+)`)
)

// CurlSession holds the request URL, headers, and cookie string extracted from a cURL command.
type CurlSession struct {
	URL     string
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts the session.
func ParseCurlFile(filepath string) (*CurlSession, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(string(content))
}

// ParseCurlCommand parses a cURL command string and extracts its URL, headers, and cookies.
//
// A cookie passed with -b takes precedence over a Cookie header.
func ParseCurlCommand(curlCmd string) (*CurlSession, error) {
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	session := &CurlSession{Headers: make(map[string]string)}

	if m := curlURLRe.FindStringSubmatch(curlCmd); m != nil {
		session.URL = firstGroup(m)
	}

	var headerCookie string
	for _, match := range curlHeaderRe.FindAllStringSubmatch(curlCmd, -1) {
		key, value, ok := strings.Cut(firstGroup(match), ":")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if strings.EqualFold(key, "cookie") {
			headerCookie = value
			continue
		}
		session.Headers[key] = value
	}

	if m := curlCookieRe.FindStringSubmatch(curlCmd); m != nil {
		session.Cookie = firstGroup(m)
	} else {
		session.Cookie = headerCookie
	}

	if len(session.Headers) == 0 && session.Cookie == "" {
		return nil, fmt.Errorf("%w: no headers found in curl command", ErrInvalidInput)
	}

	return session, nil
}

// Cookies splits the cookie string into [http.Cookie] values.
func (c *CurlSession) Cookies() []*http.Cookie {
	if c.Cookie == "" {
		return nil
	}

	cookies, err := http.ParseCookie(c.Cookie)
	if err != nil {
		var out []*http.Cookie
		for _, part := range strings.Split(c.Cookie, ";") {
			name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
			if ok && name != "" {
				out = append(out, &http.Cookie{Name: name, Value: value})
			}
		}
		return out
	}

	return cookies
}

func firstGroup(match []string) string {
	for _, g := range match[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}
