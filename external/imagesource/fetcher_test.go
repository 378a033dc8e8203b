package imagesource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetcher_Fetch(t *testing.T) {
	pngHeader := "\x89PNG\r\n\x1a\n0000"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("expected user agent header")
		}
		switch r.URL.Path {
		case "/ok.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte("jpeg-bytes"))
		case "/sniff":
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write([]byte(pngHeader))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	fetcher := NewFetcher(Config{MaxBytes: 32})

	img, err := fetcher.Fetch(context.Background(), server.URL+"/ok.jpg")
	if err != nil {
		t.Fatalf("fetch ok: %v", err)
	}
	if string(img.Data) != "jpeg-bytes" || img.Extension() != ".jpg" {
		t.Fatalf("unexpected image: %q %s", img.Data, img.ContentType)
	}

	sniffed, err := fetcher.Fetch(context.Background(), server.URL+"/sniff")
	if err != nil {
		t.Fatalf("fetch sniff: %v", err)
	}
	if sniffed.ContentType != "image/png" || sniffed.Extension() != ".png" {
		t.Fatalf("expected sniffed png, got %s", sniffed.ContentType)
	}

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/missing"); err == nil || !strings.Contains(err.Error(), "status=404") {
		t.Fatalf("expected status error, got %v", err)
	}

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/big"); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestFetcher_RejectsNonHTTPURL(t *testing.T) {
	fetcher := NewFetcher(Config{})
	for _, raw := range []string{"", "ftp://example.com/a.jpg", "file:///etc/passwd", "https://"} {
		if _, err := fetcher.Fetch(context.Background(), raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
