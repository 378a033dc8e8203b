package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/athlete-imagery/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"
)

const (
	ImageHostLocal      = "local"
	ImageHostCloudinary = "cloudinary"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	SwaggerEnabled     bool
	UIEnabled          bool
	MetricsEnabled     bool
	LogLevel           logging.Level

	StoreDriver         string
	MongoURI            string
	MongoDatabase       string
	MongoConnectTimeout time.Duration

	ImageHostProvider           string
	UploadFolderPrefix          string
	UploadConcurrency           int
	SourceFetchTimeout          time.Duration
	SourceFetchMaxBytes         int64
	LocalMediaDir               string
	LocalMediaBaseURL           string
	CloudinaryCloudName         string
	CloudinaryAPIKey            string
	CloudinaryAPISecret         string
	CloudinaryBaseURL           string
	CloudinaryTimeout           time.Duration
	CloudinaryCircuitEnabled    bool
	CloudinaryCircuitFailures   int
	CloudinaryCircuitOpenTime   time.Duration
	CloudinaryCircuitHalfOpenRq int

	UptraceEnabled         bool
	UptraceDSN             string
	PprofEnabled           bool
	PprofAddr              string
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
}

// ExposeErrorDetail reports whether error responses may carry the underlying cause.
func (c Config) ExposeErrorDetail() bool {
	return c.AppEnv != EnvProd
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}
	uiEnabled, err := strconv.ParseBool(getEnv("UI_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UI_ENABLED: %w", err)
	}
	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	// Gallery finalization waits on every upload, so the write timeout is generous.
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "120s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	storeDriver, err := parseStoreDriver(getEnv("STORE_DRIVER", StoreDriverMongo))
	if err != nil {
		return Config{}, err
	}
	mongoURI := strings.TrimSpace(getEnv("MONGO_URI", "mongodb://localhost:27017"))
	mongoDatabase := strings.TrimSpace(getEnv("MONGO_DATABASE", "athletes"))
	if storeDriver == StoreDriverMongo && mongoDatabase == "" {
		return Config{}, fmt.Errorf("MONGO_DATABASE is required when STORE_DRIVER=mongo")
	}
	mongoConnectTimeout, err := time.ParseDuration(getEnv("MONGO_CONNECT_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MONGO_CONNECT_TIMEOUT: %w", err)
	}
	if mongoConnectTimeout <= 0 {
		return Config{}, fmt.Errorf("MONGO_CONNECT_TIMEOUT must be > 0")
	}

	imageHost, err := parseImageHost(getEnv("IMAGE_HOST_PROVIDER", ImageHostLocal))
	if err != nil {
		return Config{}, err
	}
	uploadConcurrency, err := getEnvAsInt("UPLOAD_CONCURRENCY", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPLOAD_CONCURRENCY: %w", err)
	}
	if uploadConcurrency < 1 {
		return Config{}, fmt.Errorf("UPLOAD_CONCURRENCY must be >= 1")
	}
	sourceFetchTimeout, err := time.ParseDuration(getEnv("SOURCE_FETCH_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SOURCE_FETCH_TIMEOUT: %w", err)
	}
	if sourceFetchTimeout <= 0 {
		return Config{}, fmt.Errorf("SOURCE_FETCH_TIMEOUT must be > 0")
	}
	sourceFetchMaxBytes, err := getEnvAsInt("SOURCE_FETCH_MAX_BYTES", 20<<20)
	if err != nil {
		return Config{}, fmt.Errorf("parse SOURCE_FETCH_MAX_BYTES: %w", err)
	}
	if sourceFetchMaxBytes <= 0 {
		return Config{}, fmt.Errorf("SOURCE_FETCH_MAX_BYTES must be > 0")
	}

	cloudinaryTimeout, err := time.ParseDuration(getEnv("CLOUDINARY_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CLOUDINARY_TIMEOUT: %w", err)
	}
	if cloudinaryTimeout <= 0 {
		return Config{}, fmt.Errorf("CLOUDINARY_TIMEOUT must be > 0")
	}
	cloudinaryCircuitEnabled, err := strconv.ParseBool(getEnv("CLOUDINARY_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CLOUDINARY_CIRCUIT_ENABLED: %w", err)
	}
	cloudinaryCircuitFailures, err := getEnvAsInt("CLOUDINARY_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse CLOUDINARY_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cloudinaryCircuitFailures < 1 {
		return Config{}, fmt.Errorf("CLOUDINARY_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cloudinaryCircuitOpenTimeout, err := time.ParseDuration(getEnv("CLOUDINARY_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CLOUDINARY_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if cloudinaryCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("CLOUDINARY_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cloudinaryCircuitHalfOpenMaxReq, err := getEnvAsInt("CLOUDINARY_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse CLOUDINARY_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cloudinaryCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("CLOUDINARY_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	cloudinaryCloudName := strings.TrimSpace(getEnv("CLOUDINARY_CLOUD_NAME", ""))
	cloudinaryAPIKey := strings.TrimSpace(getEnv("CLOUDINARY_API_KEY", ""))
	cloudinaryAPISecret := strings.TrimSpace(getEnv("CLOUDINARY_API_SECRET", ""))
	if imageHost == ImageHostCloudinary {
		if cloudinaryCloudName == "" {
			return Config{}, fmt.Errorf("CLOUDINARY_CLOUD_NAME is required when IMAGE_HOST_PROVIDER=cloudinary")
		}
		if cloudinaryAPIKey == "" || cloudinaryAPISecret == "" {
			return Config{}, fmt.Errorf("CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required when IMAGE_HOST_PROVIDER=cloudinary")
		}
	}
	localMediaDir := strings.TrimSpace(getEnv("LOCAL_MEDIA_DIR", "./media"))
	if imageHost == ImageHostLocal && localMediaDir == "" {
		return Config{}, fmt.Errorf("LOCAL_MEDIA_DIR is required when IMAGE_HOST_PROVIDER=local")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                      appEnv,
		ServiceName:                 getEnv("APP_SERVICE_NAME", "athlete-imagery-api"),
		ServiceVersion:              getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                    getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                 readTimeout,
		WriteTimeout:                writeTimeout,
		CORSAllowedOrigins:          splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SwaggerEnabled:              swaggerEnabled,
		UIEnabled:                   uiEnabled,
		MetricsEnabled:              metricsEnabled,
		LogLevel:                    logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		StoreDriver:                 storeDriver,
		MongoURI:                    mongoURI,
		MongoDatabase:               mongoDatabase,
		MongoConnectTimeout:         mongoConnectTimeout,
		ImageHostProvider:           imageHost,
		UploadFolderPrefix:          strings.Trim(strings.TrimSpace(getEnv("UPLOAD_FOLDER_PREFIX", "athletes")), "/"),
		UploadConcurrency:           uploadConcurrency,
		SourceFetchTimeout:          sourceFetchTimeout,
		SourceFetchMaxBytes:         int64(sourceFetchMaxBytes),
		LocalMediaDir:               localMediaDir,
		LocalMediaBaseURL:           strings.TrimRight(strings.TrimSpace(getEnv("LOCAL_MEDIA_BASE_URL", "http://localhost:8080/media")), "/"),
		CloudinaryCloudName:         cloudinaryCloudName,
		CloudinaryAPIKey:            cloudinaryAPIKey,
		CloudinaryAPISecret:         cloudinaryAPISecret,
		CloudinaryBaseURL:           strings.TrimRight(strings.TrimSpace(getEnv("CLOUDINARY_BASE_URL", "https://api.cloudinary.com/v1_1")), "/"),
		CloudinaryTimeout:           cloudinaryTimeout,
		CloudinaryCircuitEnabled:    cloudinaryCircuitEnabled,
		CloudinaryCircuitFailures:   cloudinaryCircuitFailures,
		CloudinaryCircuitOpenTime:   cloudinaryCircuitOpenTimeout,
		CloudinaryCircuitHalfOpenRq: cloudinaryCircuitHalfOpenMaxReq,
		UptraceEnabled:              uptraceEnabled,
		UptraceDSN:                  uptraceDSN,
		PprofEnabled:                pprofEnabled,
		PprofAddr:                   pprofAddr,
		PyroscopeEnabled:            pyroscopeEnabled,
		PyroscopeServerAddress:      pyroscopeServerAddress,
		PyroscopeAuthToken:          strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:         pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.UploadFolderPrefix == "" {
		return Config{}, fmt.Errorf("UPLOAD_FOLDER_PREFIX cannot be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseStoreDriver(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case StoreDriverMongo, StoreDriverMemory:
		return value, nil
	default:
		return "", fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s", v, StoreDriverMongo, StoreDriverMemory)
	}
}

func parseImageHost(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case ImageHostLocal, ImageHostCloudinary:
		return value, nil
	default:
		return "", fmt.Errorf("invalid IMAGE_HOST_PROVIDER %q: valid values are %s, %s", v, ImageHostLocal, ImageHostCloudinary)
	}
}
