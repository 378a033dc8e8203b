package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mongodb"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/riskibarqy/athlete-imagery/internal/platform/logging"
)

var errUsage = errors.New("usage")

// command runs one migrate operation. args excludes the command name.
type command func(m *migrate.Migrate, args []string, logger *logging.Logger) error

var commands = map[string]command{
	"up":      runUp,
	"down":    runDown,
	"version": runVersion,
	"force":   runForce,
	"goto":    runGoto,
}

func main() {
	logger := logging.NewJSON(logging.ParseLevel(os.Getenv("LOG_LEVEL")), "service", "athlete-imagery-migration")
	defer func() {
		_ = logger.Sync()
	}()

	err := run(os.Args[1:], os.Getenv, logger)
	switch {
	case errors.Is(err, errUsage):
		printUsage()
		os.Exit(2)
	case err != nil:
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, getenv func(string) string, logger *logging.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[strings.ToLower(strings.TrimSpace(args[0]))]
	if !ok {
		return errUsage
	}

	dbURL, err := migrationDBURL(
		getenv("MIGRATION_DB_URL"),
		envOr(getenv, "MONGO_URI", "mongodb://localhost:27017"),
		envOr(getenv, "MONGO_DATABASE", "athletes"),
	)
	if err != nil {
		return err
	}

	dir, err := resolveMigrationsDir(getenv("MIGRATIONS_DIR"), "./db/migrations", "/app/db/migrations")
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+filepath.ToSlash(dir), dbURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	m.Log = migrateLogger{logger: logger}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Warn("close migrator", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	logger.Info("running migration command", "command", args[0], "dir", dir, "db_url", dbURL)
	return cmd(m, args[1:], logger)
}

func runUp(m *migrate.Migrate, _ []string, logger *logging.Logger) error {
	return settle(m.Up(), logger, "migrations applied")
}

func runDown(m *migrate.Migrate, args []string, logger *logging.Logger) error {
	steps, err := parseSteps(args)
	if err != nil {
		return err
	}
	return settle(m.Steps(-steps), logger, "migrations rolled back", "steps", steps)
}

func runVersion(m *migrate.Migrate, _ []string, _ *logging.Logger) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("version: none")
		fmt.Println("dirty: false")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	fmt.Printf("version: %d\n", version)
	fmt.Printf("dirty: %t\n", dirty)
	return nil
}

func runForce(m *migrate.Migrate, args []string, logger *logging.Logger) error {
	if len(args) == 0 {
		return errors.New("force requires a version argument")
	}
	version, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || version < -1 {
		return fmt.Errorf("invalid version %q", args[0])
	}
	if err := m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	logger.Info("version forced", "version", version)
	return nil
}

func runGoto(m *migrate.Migrate, args []string, logger *logging.Logger) error {
	if len(args) == 0 {
		return errors.New("goto requires a target version argument")
	}
	target, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 32)
	if err != nil {
		return fmt.Errorf("invalid target version %q: %w", args[0], err)
	}
	return settle(m.Migrate(uint(target)), logger, "migrated", "version", target)
}

// settle treats ErrNoChange as success.
func settle(err error, logger *logging.Logger, msg string, args ...any) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info(msg, args...)
	return nil
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, errors.New("down steps must be > 0")
	}
	return steps, nil
}

// resolveMigrationsDir returns the first candidate that is an existing directory.
func resolveMigrationsDir(candidates ...string) (string, error) {
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("migration directory not found in %v", candidates)
}

// migrationDBURL prefers an explicit URL and otherwise points MONGO_URI at
// MONGO_DATABASE, which the mongodb driver reads from the path.
func migrationDBURL(explicit, mongoURI, database string) (string, error) {
	if v := strings.TrimSpace(explicit); v != "" {
		return v, nil
	}

	parsed, err := url.Parse(strings.TrimSpace(mongoURI))
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("invalid MONGO_URI %q", mongoURI)
	}
	if parsed.Scheme != "mongodb" && parsed.Scheme != "mongodb+srv" {
		return "", fmt.Errorf("MONGO_URI must use mongodb or mongodb+srv scheme, got %q", parsed.Scheme)
	}

	if strings.Trim(parsed.Path, "/") == "" {
		database = strings.TrimSpace(database)
		if database == "" {
			return "", errors.New("MONGO_DATABASE is required when MONGO_URI has no database path")
		}
		parsed.Path = "/" + database
	}
	return parsed.String(), nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return fallback
}

// migrateLogger routes golang-migrate's progress output through the service logger.
type migrateLogger struct {
	logger *logging.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrate")
}

func (l migrateLogger) Verbose() bool { return false }

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down [n]|version|force <v>|goto <v>>\n", name)
	fmt.Fprintf(os.Stderr, "env: MIGRATION_DB_URL or MONGO_URI + MONGO_DATABASE, MIGRATIONS_DIR\n")
}
