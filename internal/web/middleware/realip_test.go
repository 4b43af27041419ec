package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func realIPSeenBy(t *testing.T, proxies []string, remoteAddr string, headers map[string]string) string {
	t.Helper()

	var seen string
	handler := TrustedRealIP(proxies)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.RemoteAddr
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return seen
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		proxies    []string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "real ip honored from trusted proxy",
			proxies:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:4567",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "203.0.113.9",
		},
		{
			name:       "forwarded-for first hop from trusted proxy",
			proxies:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:4567",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9, 10.1.2.3"},
			want:       "203.0.113.9",
		},
		{
			name:       "headers ignored from untrusted address",
			proxies:    []string{"10.0.0.0/8"},
			remoteAddr: "198.51.100.4:9999",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "198.51.100.4:9999",
		},
		{
			name:       "no proxies configured means no rewriting",
			proxies:    nil,
			remoteAddr: "10.1.2.3:4567",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "10.1.2.3:4567",
		},
		{
			name:       "bare address proxy entry",
			proxies:    []string{"10.1.2.3"},
			remoteAddr: "10.1.2.3:4567",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "203.0.113.9",
		},
		{
			name:       "garbage header value keeps socket address",
			proxies:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:4567",
			headers:    map[string]string{"X-Real-IP": "not-an-ip"},
			want:       "10.1.2.3:4567",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := realIPSeenBy(t, tt.proxies, tt.remoteAddr, tt.headers); got != tt.want {
				t.Errorf("RemoteAddr seen = %q, want %q", got, tt.want)
			}
		})
	}
}
