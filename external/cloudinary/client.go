package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/athlete-imagery/internal/platform/logging"
	"github.com/riskibarqy/athlete-imagery/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const DefaultBaseURL = "https://api.cloudinary.com/v1_1"

var errCloudinaryTransient = crerr.New("cloudinary transient failure")

type Config struct {
	BaseURL   string
	CloudName string
	APIKey    string
	APISecret string
	Timeout   time.Duration
	// Breaker is optional; nil disables fail-fast behaviour.
	Breaker *resilience.Breaker
}

// UploadInput names the object and carries its bytes.
type UploadInput struct {
	Folder      string
	PublicID    string
	Filename    string
	ContentType string
	Data        []byte
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	PublicID  string `json:"public_id"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type Client struct {
	client    *http.Client
	baseURL   string
	cloudName string
	apiKey    string
	apiSecret string
	breaker   *resilience.Breaker
	logger    *logging.Logger
	now       func() time.Time
}

func NewClient(cfg Config, logger *logging.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		client:    &http.Client{Timeout: timeout},
		baseURL:   baseURL,
		cloudName: strings.TrimSpace(cfg.CloudName),
		apiKey:    strings.TrimSpace(cfg.APIKey),
		apiSecret: strings.TrimSpace(cfg.APISecret),
		breaker:   cfg.Breaker,
		logger:    logger,
		now:       time.Now,
	}
}

// Upload performs a signed image upload and returns the hosted https URL.
// Only the HTTP exchange is guarded by the breaker.
func (c *Client) Upload(ctx context.Context, input UploadInput) (string, error) {
	endpoint, err := c.uploadURL()
	if err != nil {
		return "", err
	}
	if len(input.Data) == 0 {
		return "", crerr.New("upload payload is empty")
	}

	timestamp := strconv.FormatInt(c.now().Unix(), 10)
	params := map[string]string{
		"folder":    strings.Trim(strings.TrimSpace(input.Folder), "/"),
		"public_id": strings.TrimSpace(input.PublicID),
		"timestamp": timestamp,
	}

	body, contentType, err := buildMultipartBody(params, c.apiKey, Sign(params, c.apiSecret), input)
	if err != nil {
		return "", crerr.Wrap(err, "build cloudinary upload body")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("cloudinary.upload_url", endpoint),
			attribute.String("cloudinary.folder", params["folder"]),
			attribute.String("cloudinary.public_id", params["public_id"]),
			attribute.Int("cloudinary.bytes", len(input.Data)),
		)
	}

	var decoded uploadResponse
	err = c.breaker.Do(classifyUploadError, func() error {
		return c.send(ctx, endpoint, contentType, body, params, &decoded)
	})
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "cloudinary circuit breaker rejected request", "state", c.breaker.State())
		return "", fmt.Errorf("cloudinary is temporarily unavailable: %w", err)
	}
	if err != nil {
		return "", err
	}

	hosted := strings.TrimSpace(decoded.SecureURL)
	if hosted == "" {
		hosted = strings.TrimSpace(decoded.URL)
	}
	if hosted == "" {
		return "", crerr.New("cloudinary upload response has no url")
	}

	c.logger.DebugContext(ctx, "cloudinary upload complete", "public_id", decoded.PublicID, "url", hosted)
	return hosted, nil
}

func (c *Client) send(ctx context.Context, endpoint, contentType string, body io.Reader, params map[string]string, out *uploadResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return crerr.Wrap(err, "create cloudinary request")
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: upload to cloudinary folder=%s public_id=%s: %v", errCloudinaryTransient, params["folder"], params["public_id"], err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		message := strings.TrimSpace(string(raw))
		var decoded errorResponse
		if err := sonic.Unmarshal(raw, &decoded); err == nil && decoded.Error.Message != "" {
			message = decoded.Error.Message
		}
		if isRetryableStatus(resp.StatusCode) {
			return fmt.Errorf("%w: cloudinary upload status=%d message=%s", errCloudinaryTransient, resp.StatusCode, message)
		}
		return crerr.Newf("cloudinary upload status=%d message=%s", resp.StatusCode, message)
	}

	if err := sonic.ConfigDefault.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out); err != nil {
		return crerr.Wrap(err, "decode cloudinary upload response")
	}
	return nil
}

// Sign computes the upload signature over the sorted non-empty parameters.
func Sign(params map[string]string, secret string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, key := range []string{"folder", "public_id", "timestamp"} {
		value := params[key]
		if value == "" {
			continue
		}
		if buf.Len() > 0 {
			_ = buf.WriteByte('&')
		}
		_, _ = buf.WriteString(key)
		_ = buf.WriteByte('=')
		_, _ = buf.WriteString(value)
	}
	_, _ = buf.WriteString(secret)

	sum := sha1.Sum(buf.B)
	return hex.EncodeToString(sum[:])
}

func (c *Client) uploadURL() (string, error) {
	if c.cloudName == "" || c.apiKey == "" || c.apiSecret == "" {
		return "", crerr.New("cloudinary credentials are not configured")
	}
	parsed, err := url.Parse(c.baseURL)
	if err != nil {
		return "", crerr.Wrapf(err, "parse cloudinary base url %q", c.baseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("cloudinary base url %q uses unsupported scheme=%q", c.baseURL, parsed.Scheme)
	}
	return c.baseURL + "/" + url.PathEscape(c.cloudName) + "/image/upload", nil
}

func buildMultipartBody(params map[string]string, apiKey, signature string, input UploadInput) (io.Reader, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := []struct{ key, value string }{
		{"api_key", apiKey},
		{"timestamp", params["timestamp"]},
		{"signature", signature},
		{"folder", params["folder"]},
		{"public_id", params["public_id"]},
	}
	for _, field := range fields {
		if field.value == "" {
			continue
		}
		if err := writer.WriteField(field.key, field.value); err != nil {
			return nil, "", err
		}
	}

	filename := strings.TrimSpace(input.Filename)
	if filename == "" {
		filename = "upload"
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(input.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return &body, writer.FormDataContentType(), nil
}

// classifyUploadError counts only transient upstream failures against the breaker.
func classifyUploadError(err error) resilience.Verdict {
	if stderrors.Is(err, errCloudinaryTransient) {
		return resilience.Unhealthy
	}
	return resilience.Neutral
}

func isRetryableStatus(statusCode int) bool {
	if statusCode == http.StatusRequestTimeout || statusCode == http.StatusTooManyRequests {
		return true
	}
	return statusCode >= 500 && statusCode <= 599
}
