package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseCurlCommand(t *testing.T) {
	tt := []struct {
		name        string
		curlCmd     string
		wantURL     string
		wantHeaders map[string]string
		wantCookie  string
		wantErr     bool
	}{
		{
			name:        "header with single quotes",
			curlCmd:     `curl 'https://sso.example.com/api/sso/token' -H 'Accept: application/json'`,
			wantURL:     "https://sso.example.com/api/sso/token",
			wantHeaders: map[string]string{"Accept": "application/json"},
		},
		{
			name:        "header with double quotes",
			curlCmd:     `curl "https://sso.example.com" -H "Accept: application/json"`,
			wantURL:     "https://sso.example.com",
			wantHeaders: map[string]string{"Accept": "application/json"},
		},
		{
			name:        "cookie header is kept out of headers",
			curlCmd:     `curl https://sso.example.com -H 'Cookie: sid=abc; theme=dark' -H 'Accept: */*'`,
			wantURL:     "https://sso.example.com",
			wantHeaders: map[string]string{"Accept": "*/*"},
			wantCookie:  "sid=abc; theme=dark",
		},
		{
			name:        "-b cookie takes precedence over -H cookie",
			curlCmd:     `curl https://sso.example.com -H 'Cookie: old=value' -b 'sid=new'`,
			wantURL:     "https://sso.example.com",
			wantHeaders: map[string]string{},
			wantCookie:  "sid=new",
		},
		{
			name: "multiline curl with backslashes",
			curlCmd: `curl 'https://sso.example.com/api/sso/token' \
  -H 'accept: application/json' \
  -b 'sid=xyz'`,
			wantURL:     "https://sso.example.com/api/sso/token",
			wantHeaders: map[string]string{"accept": "application/json"},
			wantCookie:  "sid=xyz",
		},
		{
			name:    "no headers or cookies",
			curlCmd: `curl https://sso.example.com`,
			wantErr: true,
		},
		{
			name:    "empty command",
			curlCmd: "",
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseCurlCommand(tc.curlCmd)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseCurlCommand() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}

			if result.URL != tc.wantURL {
				t.Errorf("URL = %q, want %q", result.URL, tc.wantURL)
			}
			if len(result.Headers) != len(tc.wantHeaders) {
				t.Errorf("headers count = %d, want %d", len(result.Headers), len(tc.wantHeaders))
			}
			for key, want := range tc.wantHeaders {
				if got := result.Headers[key]; got != want {
					t.Errorf("header[%s] = %v, want %v", key, got, want)
				}
			}
			if result.Cookie != tc.wantCookie {
				t.Errorf("cookie = %q, want %q", result.Cookie, tc.wantCookie)
			}
		})
	}
}

func TestCurlSessionCookies(t *testing.T) {
	session := &CurlSession{Cookie: "sid=abc; theme=dark"}

	cookies := session.Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	if cookies[0].Name != "sid" || cookies[0].Value != "abc" {
		t.Errorf("unexpected first cookie %s=%s", cookies[0].Name, cookies[0].Value)
	}

	if (&CurlSession{}).Cookies() != nil {
		t.Error("expected nil cookies for empty cookie string")
	}
}

func TestParseCurlFile(t *testing.T) {
	t.Run("successful file parse", func(t *testing.T) {
		curlFile := filepath.Join(t.TempDir(), "curl.sh")
		if err := os.WriteFile(curlFile, []byte(`curl https://sso.example.com -b 'sid=abc'`), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		result, err := ParseCurlFile(curlFile)
		if err != nil {
			t.Fatalf("ParseCurlFile() error = %v", err)
		}
		if result.Cookie != "sid=abc" {
			t.Errorf("cookie = %q, want sid=abc", result.Cookie)
		}
	})

	t.Run("file does not exist", func(t *testing.T) {
		if _, err := ParseCurlFile("/nonexistent/file.sh"); err == nil {
			t.Error("expected error for nonexistent file")
		}
	})
}
