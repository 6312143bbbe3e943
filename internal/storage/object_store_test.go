package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFromURL(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		wantKey string
		wantOK  bool
	}{
		{"virtual-hosted style", "https://bucket.s3.us-east-1.amazonaws.com/previews/golden.png", "previews/golden.png", true},
		{"nested key", "https://cdn.example.com/generated/user-1/img-42.jpg", "generated/user-1/img-42.jpg", true},
		{"query string ignored", "https://cdn.example.com/previews/a.png?X-Amz-Expires=300", "previews/a.png", true},
		{"empty url", "", "", false},
		{"no path", "https://cdn.example.com", "", false},
		{"root path only", "https://cdn.example.com/", "", false},
		{"unparseable", "https://cdn.example.com/%zz", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, ok := KeyFromURL(tc.url)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantKey, key)
		})
	}
}
