package imagesource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultUserAgent = "athlete-imagery-fetcher/1.0"

// ErrTooLarge is returned when the source body exceeds MaxBytes.
var ErrTooLarge = crerr.New("source image exceeds size limit")

type Config struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
}

// Image is a downloaded source image.
type Image struct {
	Data        []byte
	ContentType string
}

// Extension returns a file extension for the content type, defaulting to ".jpg".
func (i Image) Extension() string {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(i.ContentType, ";", 2)[0]))
	switch mediaType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/avif":
		return ".avif"
	case "image/svg+xml":
		return ".svg"
	case "image/bmp":
		return ".bmp"
	default:
		return ".jpg"
	}
}

// Fetcher downloads images from arbitrary public URLs.
type Fetcher struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
}

func NewFetcher(cfg Config) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 20 << 20
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		maxBytes:  maxBytes,
		userAgent: userAgent,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Image, error) {
	sourceURL, err := validateSourceURL(rawURL)
	if err != nil {
		return Image{}, crerr.Wrap(err, "invalid source url")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attribute.String("imagesource.url", sourceURL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return Image{}, crerr.Wrap(err, "create source request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "image/*,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return Image{}, crerr.Wrapf(err, "get %s", sourceURL)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		return Image{}, crerr.Newf("get %s: status=%d", sourceURL, resp.StatusCode)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, f.maxBytes+1)); err != nil {
		return Image{}, crerr.Wrapf(err, "read %s", sourceURL)
	}
	if int64(buf.Len()) > f.maxBytes {
		return Image{}, crerr.Wrapf(ErrTooLarge, "get %s: limit=%d bytes", sourceURL, f.maxBytes)
	}
	if buf.Len() == 0 {
		return Image{}, crerr.Newf("get %s: empty body", sourceURL)
	}

	data := make([]byte, buf.Len())
	copy(data, buf.B)

	contentType := strings.TrimSpace(resp.Header.Get("Content-Type"))
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = http.DetectContentType(data)
	}

	return Image{Data: data, ContentType: contentType}, nil
}

func validateSourceURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", fmt.Errorf("%q has empty host", candidate)
	}

	return candidate, nil
}
