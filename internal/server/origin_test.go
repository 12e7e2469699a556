package server

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		name          string
		appURL        string
		isDevelopment bool
		origin        string
		want          bool
	}{
		{"empty origin allowed", "https://leave.example.com", false, "", true},
		{"app origin allowed", "https://leave.example.com", false, "https://leave.example.com", true},
		{"foreign origin rejected", "https://leave.example.com", false, "https://evil.example.com", false},
		{"scheme mismatch rejected", "https://leave.example.com", false, "http://leave.example.com", false},
		{"localhost rejected in production", "https://leave.example.com", false, "http://localhost:3000", false},
		{"localhost allowed in development", "https://leave.example.com", true, "http://localhost:3000", true},
		{"loopback allowed in development", "https://leave.example.com", true, "http://127.0.0.1:3000", true},
		{"no app url still allows empty origin", "", false, "", true},
		{"no app url rejects browser origin", "", false, "https://leave.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := NewCheckOrigin(tt.appURL, tt.isDevelopment)

			r := httptest.NewRequest("GET", "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}

			assert.Equal(t, tt.want, check(r))
		})
	}
}
