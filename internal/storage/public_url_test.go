package storage

import (
	"testing"

	"sunsite/internal/config"
)

func TestPublicURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.S3Config
		key  string
		want string
	}{
		{
			name: "explicit public base",
			cfg: config.S3Config{
				Endpoint:      "http://localhost:3900",
				Bucket:        "site-images",
				PublicBaseURL: "https://cdn.example.com",
			},
			key:  "blog-images/1700000000000-abcd1234.png",
			want: "https://cdn.example.com/blog-images/1700000000000-abcd1234.png",
		},
		{
			name: "trailing slash on base is stripped",
			cfg: config.S3Config{
				Endpoint:      "http://localhost:3900",
				Bucket:        "site-images",
				PublicBaseURL: "https://cdn.example.com/",
			},
			key:  "blog-images/a.png",
			want: "https://cdn.example.com/blog-images/a.png",
		},
		{
			name: "falls back to endpoint and bucket",
			cfg: config.S3Config{
				Endpoint: "http://localhost:3900",
				Bucket:   "site-images",
			},
			key:  "blog-images/a.png",
			want: "http://localhost:3900/site-images/blog-images/a.png",
		},
		{
			name: "leading slash on key",
			cfg: config.S3Config{
				Endpoint:      "http://localhost:3900",
				Bucket:        "site-images",
				PublicBaseURL: "https://cdn.example.com",
			},
			key:  "/blog-images/a.png",
			want: "https://cdn.example.com/blog-images/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store, err := NewS3Store(tt.cfg)
			if err != nil {
				t.Fatalf("NewS3Store failed: %v", err)
			}

			if got := store.PublicURL(tt.key); got != tt.want {
				t.Errorf("want %q, got %q", tt.want, got)
			}
		})
	}
}
