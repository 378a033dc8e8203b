package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StoreDriver != StoreDriverMongo {
		t.Fatalf("unexpected StoreDriver: %q", cfg.StoreDriver)
	}
	if cfg.ImageHostProvider != ImageHostLocal {
		t.Fatalf("unexpected ImageHostProvider: %q", cfg.ImageHostProvider)
	}
	if cfg.UploadConcurrency != 4 {
		t.Fatalf("unexpected UploadConcurrency: %d", cfg.UploadConcurrency)
	}
	if cfg.UploadFolderPrefix != "athletes" {
		t.Fatalf("unexpected UploadFolderPrefix: %q", cfg.UploadFolderPrefix)
	}
	if cfg.SourceFetchMaxBytes != 20<<20 {
		t.Fatalf("unexpected SourceFetchMaxBytes: %d", cfg.SourceFetchMaxBytes)
	}
	if !cfg.ExposeErrorDetail() {
		t.Fatalf("expected error detail to be exposed outside prod")
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger and error detail", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
		if cfg.ExposeErrorDetail() {
			t.Fatalf("expected error detail to be hidden in prod")
		}
	})

	t.Run("stage keeps swagger on", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvStage)
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in stage by default")
		}
	})
}

func TestLoad_StoreDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORE_DRIVER", "postgres")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported STORE_DRIVER")
	}
}

func TestLoad_CloudinaryRequiresCredentials(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("IMAGE_HOST_PROVIDER", ImageHostCloudinary)
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "")
	t.Setenv("CLOUDINARY_API_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when cloudinary credentials are missing")
	}
}

func TestLoad_CloudinaryConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("IMAGE_HOST_PROVIDER", "Cloudinary")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key-1")
	t.Setenv("CLOUDINARY_API_SECRET", "secret-1")
	t.Setenv("CLOUDINARY_BASE_URL", "https://api.cloudinary.test/v1_1/")
	t.Setenv("CLOUDINARY_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ImageHostProvider != ImageHostCloudinary {
		t.Fatalf("unexpected ImageHostProvider: %q", cfg.ImageHostProvider)
	}
	if cfg.CloudinaryBaseURL != "https://api.cloudinary.test/v1_1" {
		t.Fatalf("unexpected CloudinaryBaseURL: %q", cfg.CloudinaryBaseURL)
	}
	if cfg.CloudinaryTimeout != 5*time.Second {
		t.Fatalf("unexpected CloudinaryTimeout: %s", cfg.CloudinaryTimeout)
	}
}

func TestLoad_UploadConcurrencyMustBePositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPLOAD_CONCURRENCY", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for UPLOAD_CONCURRENCY=0")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-other=1, uptrace-dsn=\"https://token@api.uptrace.dev/1\"")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}
