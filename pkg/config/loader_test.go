package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	wferr "github.com/wallframe/wallframe-core/pkg/errors"
)

// ===========================================================================
// Test Types
// ===========================================================================

// testSecret mimics auth.Secret: a named string type with a redacted
// String() method. Verifies that setField works for named string types
// without importing the auth package.
type testSecret string

func (s testSecret) String() string { return "[REDACTED]" }
func (s testSecret) Value() string  { return string(s) }

type authSettings struct {
	SigningKey    string        `env:"SIGNING_KEY" envDefault:"unit-test-signing-key-32-bytes!!" yaml:"signing_key" json:"signing_key"`
	RateLimit     int           `env:"RATE_LIMIT" envDefault:"10" yaml:"rate_limit" json:"rate_limit"`
	Debug         bool          `env:"DEBUG" envDefault:"false" yaml:"debug" json:"debug"`
	TokenLifetime time.Duration `env:"TOKEN_LIFETIME" envDefault:"1h" yaml:"token_lifetime" json:"token_lifetime"`
}

type requiredConfig struct {
	SigningKey string `env:"SIGNING_KEY" required:"true"`
	RateLimit  int    `env:"RATE_LIMIT"`
}

type secretConfig struct {
	Host       string     `env:"HOST"`
	SigningKey testSecret `env:"SIGNING_KEY"`
}

type nestedConfig struct {
	Service string         `env:"SERVICE"`
	Redis   redisSubConfig `env:"REDIS"`
}

type redisSubConfig struct {
	Addr     string     `env:"ADDR" yaml:"addr" json:"addr"`
	DB       int        `env:"DB" yaml:"db" json:"db"`
	Password testSecret `env:"PASSWORD"`
}

type sliceConfig struct {
	Roles []string `env:"ROLES" envDefault:"admin,user,guest"`
}

type int32Config struct {
	MaxConns int32 `env:"MAX_CONNS" envDefault:"25"`
}

type validatableConfig struct {
	SigningKey string `env:"SIGNING_KEY"`
	RateLimit  int    `env:"RATE_LIMIT"`
}

func (c *validatableConfig) Validate() error {
	if c.RateLimit < 1 {
		return wferr.Newf(wferr.CodeValidation,
			"config: rate limit %d must be at least 1", c.RateLimit)
	}
	return nil
}

type validatableStdlibConfig struct {
	Name string `env:"NAME"`
}

func (c *validatableStdlibConfig) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type nestedRequiredConfig struct {
	Service string                  `env:"SERVICE"`
	Redis   nestedRequiredRedisConf `env:"REDIS"`
}

type nestedRequiredRedisConf struct {
	Addr string `env:"ADDR" required:"true"`
}

// writeTestFile creates a file in the test's temp directory and returns
// its path. The test is failed if the file cannot be written.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writeTestFile() error: %v", err)
	}
	return path
}

// ===========================================================================
// Loader Builder Tests
// ===========================================================================

// TestNew_ReturnsNonNilLoader verifies that New returns a non-nil Loader.
func TestNew_ReturnsNonNilLoader(t *testing.T) {
	l := New()
	if l == nil {
		t.Fatal("New() = nil, want non-nil Loader")
	}
}

// TestLoader_WithEnvPrefix_Chaining verifies that WithEnvPrefix returns
// the same Loader for fluent chaining.
func TestLoader_WithEnvPrefix_Chaining(t *testing.T) {
	l := New()
	got := l.WithEnvPrefix("AUTH")
	if got != l {
		t.Error("WithEnvPrefix() did not return the same Loader")
	}
}

// TestLoader_WithFile_Chaining verifies that WithFile returns the same
// Loader for fluent chaining.
func TestLoader_WithFile_Chaining(t *testing.T) {
	l := New()
	got := l.WithFile("config.yaml")
	if got != l {
		t.Error("WithFile() did not return the same Loader")
	}
}

// ===========================================================================
// Load — Input Validation Tests
// ===========================================================================

// TestLoader_Load_NilPointer verifies that Load returns an error when
// given a nil pointer.
func TestLoader_Load_NilPointer(t *testing.T) {
	err := New().Load((*authSettings)(nil))
	if err == nil {
		t.Fatal("Load(nil) expected error, got nil")
	}
	if !wferr.IsInternal(err) {
		t.Errorf("IsInternal() = false, want true for nil pointer")
	}
}

// TestLoader_Load_NonPointer verifies that Load returns an error when
// given a struct value (not a pointer).
func TestLoader_Load_NonPointer(t *testing.T) {
	err := New().Load(authSettings{})
	if err == nil {
		t.Fatal("Load(struct) expected error, got nil")
	}
	if !wferr.IsInternal(err) {
		t.Errorf("IsInternal() = false, want true for non-pointer")
	}
}

// TestLoader_Load_PointerToNonStruct verifies that Load returns an error
// when given a pointer to a non-struct type.
func TestLoader_Load_PointerToNonStruct(t *testing.T) {
	n := 42
	err := New().Load(&n)
	if err == nil {
		t.Fatal("Load(*int) expected error, got nil")
	}
	if !wferr.IsInternal(err) {
		t.Errorf("IsInternal() = false, want true for non-struct pointer")
	}
}

// ===========================================================================
// Load — envDefault Tag Tests
// ===========================================================================

// TestLoader_Load_Defaults_Applied verifies that envDefault tags are
// applied to zero-valued fields (string, int, bool, Duration).
func TestLoader_Load_Defaults_Applied(t *testing.T) {
	var cfg authSettings
	if err := New().Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SigningKey != "unit-test-signing-key-32-bytes!!" {
		t.Errorf("SigningKey = %q, want default", cfg.SigningKey)
	}
	if cfg.RateLimit != 10 {
		t.Errorf("RateLimit = %d, want %d", cfg.RateLimit, 10)
	}
	if cfg.Debug != false {
		t.Errorf("Debug = %v, want false", cfg.Debug)
	}
	if cfg.TokenLifetime != time.Hour {
		t.Errorf("TokenLifetime = %v, want %v", cfg.TokenLifetime, time.Hour)
	}
}

// TestLoader_Load_Defaults_NotOverwriteExisting verifies that envDefault
// tags do not overwrite pre-existing non-zero values.
func TestLoader_Load_Defaults_NotOverwriteExisting(t *testing.T) {
	cfg := authSettings{SigningKey: "custom-key", RateLimit: 99}
	if err := New().Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SigningKey != "custom-key" {
		t.Errorf("SigningKey = %q, want %q (should not be overwritten)", cfg.SigningKey, "custom-key")
	}
	if cfg.RateLimit != 99 {
		t.Errorf("RateLimit = %d, want %d (should not be overwritten)", cfg.RateLimit, 99)
	}
}

// TestLoader_Load_Defaults_Slice verifies that comma-separated envDefault
// values are correctly parsed into a string slice.
func TestLoader_Load_Defaults_Slice(t *testing.T) {
	var cfg sliceConfig
	if err := New().Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(cfg.Roles) != 3 {
		t.Fatalf("Roles length = %d, want 3", len(cfg.Roles))
	}
	expected := []string{"admin", "user", "guest"}
	for i, want := range expected {
		if cfg.Roles[i] != want {
			t.Errorf("Roles[%d] = %q, want %q", i, cfg.Roles[i], want)
		}
	}
}

// TestLoader_Load_Defaults_Int32 verifies that int32 fields are correctly
// parsed from envDefault tags.
func TestLoader_Load_Defaults_Int32(t *testing.T) {
	var cfg int32Config
	if err := New().Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.MaxConns != 25 {
		t.Errorf("MaxConns = %d, want 25", cfg.MaxConns)
	}
}

// ===========================================================================
// Load — File Loading Tests
// ===========================================================================

// TestLoader_Load_YAMLFile verifies that values are loaded from a YAML file.
func TestLoader_Load_YAMLFile(t *testing.T) {
	path := writeTestFile(t, "config.yaml", `
signing_key: file-signing-key
rate_limit: 30
debug: true
token_lifetime: 10m
`)

	var cfg authSettings
	if err := New().WithFile(path).Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SigningKey != "file-signing-key" {
		t.Errorf("SigningKey = %q, want %q", cfg.SigningKey, "file-signing-key")
	}
	if cfg.RateLimit != 30 {
		t.Errorf("RateLimit = %d, want %d", cfg.RateLimit, 30)
	}
	if cfg.Debug != true {
		t.Errorf("Debug = %v, want true", cfg.Debug)
	}
	if cfg.TokenLifetime != 10*time.Minute {
		t.Errorf("TokenLifetime = %v, want %v", cfg.TokenLifetime, 10*time.Minute)
	}
}

// TestLoader_Load_MissingFile_NoError verifies that a missing config file
// does not produce an error (file configuration is optional).
func TestLoader_Load_MissingFile_NoError(t *testing.T) {
	var cfg authSettings
	err := New().WithFile("/nonexistent/path/config.yaml").Load(&cfg)
	if err != nil {
		t.Fatalf("Load() with missing file error: %v (expected nil)", err)
	}

	// Defaults should still be applied.
	if cfg.RateLimit != 10 {
		t.Errorf("RateLimit = %d, want %d (default should apply)", cfg.RateLimit, 10)
	}
}

// TestLoader_Load_YMLExtension verifies that .yml extension is recognized.
func TestLoader_Load_YMLExtension(t *testing.T) {
	path := writeTestFile(t, "config.yml", `
signing_key: from-yml
`)

	var cfg authSettings
	if err := New().WithFile(path).Load(&cfg); err != nil {
		t.Fatalf("Load() with .yml error: %v", err)
	}

	if cfg.SigningKey != "from-yml" {
		t.Errorf("SigningKey = %q, want %q", cfg.SigningKey, "from-yml")
	}
}

// TestLoader_Load_JSONFile verifies that values are loaded from a JSON file.
func TestLoader_Load_JSONFile(t *testing.T) {
	path := writeTestFile(t, "config.json", `{
  "signing_key": "json-signing-key",
  "rate_limit": 40,
  "debug": true
}`)

	var cfg authSettings
	if err := New().WithFile(path).Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SigningKey != "json-signing-key" {
		t.Errorf("SigningKey = %q, want %q", cfg.SigningKey, "json-signing-key")
	}
	if cfg.RateLimit != 40 {
		t.Errorf("RateLimit = %d, want %d", cfg.RateLimit, 40)
	}
}

// TestLoader_Load_UnsupportedExtension verifies that an unsupported file
// extension returns a CodeInternalConfiguration error.
func TestLoader_Load_UnsupportedExtension(t *testing.T) {
	path := writeTestFile(t, "config.toml", `signing_key = "test"`)

	var cfg authSettings
	err := New().WithFile(path).Load(&cfg)
	if err == nil {
		t.Fatal("Load() with .toml expected error, got nil")
	}
	if !wferr.IsInternal(err) {
		t.Errorf("IsInternal() = false, want true for unsupported extension")
	}
}

// TestLoader_Load_DirectoryTraversal verifies that file paths containing
// directory traversal sequences are rejected.
func TestLoader_Load_DirectoryTraversal(t *testing.T) {
	var cfg authSettings
	err := New().WithFile("../../../etc/passwd").Load(&cfg)
	if err == nil {
		t.Fatal("Load() with directory traversal expected error, got nil")
	}
	if !wferr.IsInternal(err) {
		t.Errorf("IsInternal() = false, want true for directory traversal")
	}
}

// ===========================================================================
// Load — Environment Variable Tests
// ===========================================================================

// TestLoader_Load_EnvOverridesFile verifies that environment variables
// take precedence over file values.
func TestLoader_Load_EnvOverridesFile(t *testing.T) {
	path := writeTestFile(t, "config.yaml", `
signing_key: from-file
rate_limit: 30
`)

	t.Setenv("SIGNING_KEY", "from-env")
	t.Setenv("RATE_LIMIT", "50")

	var cfg authSettings
	if err := New().WithFile(path).Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SigningKey != "from-env" {
		t.Errorf("SigningKey = %q, want %q (env should override file)", cfg.SigningKey, "from-env")
	}
	if cfg.RateLimit != 50 {
		t.Errorf("RateLimit = %d, want %d (env should override file)", cfg.RateLimit, 50)
	}
}

// TestLoader_Load_EnvPrefix verifies that WithEnvPrefix prepends the
// prefix to environment variable lookups.
func TestLoader_Load_EnvPrefix(t *testing.T) {
	t.Setenv("AUTH_SIGNING_KEY", "prefixed-key")
	t.Setenv("AUTH_RATE_LIMIT", "70")

	var cfg authSettings
	if err := New().WithEnvPrefix("AUTH").Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SigningKey != "prefixed-key" {
		t.Errorf("SigningKey = %q, want %q", cfg.SigningKey, "prefixed-key")
	}
	if cfg.RateLimit != 70 {
		t.Errorf("RateLimit = %d, want %d", cfg.RateLimit, 70)
	}
}

// TestLoader_Load_EnvPrefix_UppercaseNormalization verifies that a
// lowercase prefix is uppercased automatically.
func TestLoader_Load_EnvPrefix_UppercaseNormalization(t *testing.T) {
	t.Setenv("AUTH_SIGNING_KEY", "upper-key")

	var cfg authSettings
	if err := New().WithEnvPrefix("auth").Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SigningKey != "upper-key" {
		t.Errorf("SigningKey = %q, want %q (prefix should be uppercased)", cfg.SigningKey, "upper-key")
	}
}

// TestLoader_Load_EnvNotSet_KeepsFileValue verifies that an unset
// environment variable does not clear the file value.
func TestLoader_Load_EnvNotSet_KeepsFileValue(t *testing.T) {
	path := writeTestFile(t, "config.yaml", `
signing_key: from-file
`)

	// Do NOT set SIGNING_KEY env var.

	var cfg authSettings
	if err := New().WithFile(path).Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SigningKey != "from-file" {
		t.Errorf("SigningKey = %q, want %q (unset env should preserve file value)",
			cfg.SigningKey, "from-file")
	}
}

// ===========================================================================
// Load — Type Parsing Tests
// ===========================================================================

// TestLoader_Load_Types verifies that all supported types are correctly
// parsed from environment variables.
func TestLoader_Load_Types(t *testing.T) {
	tests := []struct {
		name    string
		envKey  string
		envVal  string
		loadCfg func(t *testing.T) error
	}{
		{
			name:   "string",
			envKey: "SIGNING_KEY",
			envVal: "env-signing-key",
			loadCfg: func(t *testing.T) error {
				var cfg authSettings
				err := New().Load(&cfg)
				if err == nil && cfg.SigningKey != "env-signing-key" {
					t.Errorf("SigningKey = %q, want %q", cfg.SigningKey, "env-signing-key")
				}
				return err
			},
		},
		{
			name:   "int",
			envKey: "RATE_LIMIT",
			envVal: "90",
			loadCfg: func(t *testing.T) error {
				var cfg authSettings
				err := New().Load(&cfg)
				if err == nil && cfg.RateLimit != 90 {
					t.Errorf("RateLimit = %d, want %d", cfg.RateLimit, 90)
				}
				return err
			},
		},
		{
			name:   "int32",
			envKey: "MAX_CONNS",
			envVal: "50",
			loadCfg: func(t *testing.T) error {
				var cfg int32Config
				err := New().Load(&cfg)
				if err == nil && cfg.MaxConns != 50 {
					t.Errorf("MaxConns = %d, want %d", cfg.MaxConns, 50)
				}
				return err
			},
		},
		{
			name:   "bool_true",
			envKey: "DEBUG",
			envVal: "true",
			loadCfg: func(t *testing.T) error {
				var cfg authSettings
				err := New().Load(&cfg)
				if err == nil && !cfg.Debug {
					t.Error("Debug = false, want true")
				}
				return err
			},
		},
		{
			name:   "duration",
			envKey: "TOKEN_LIFETIME",
			envVal: "1h30m",
			loadCfg: func(t *testing.T) error {
				var cfg authSettings
				err := New().Load(&cfg)
				expected := 90 * time.Minute
				if err == nil && cfg.TokenLifetime != expected {
					t.Errorf("TokenLifetime = %v, want %v", cfg.TokenLifetime, expected)
				}
				return err
			},
		},
		{
			name:   "slice",
			envKey: "ROLES",
			envVal: "admin, user, moderator",
			loadCfg: func(t *testing.T) error {
				var cfg sliceConfig
				err := New().Load(&cfg)
				if err == nil {
					if len(cfg.Roles) != 3 {
						t.Fatalf("Roles length = %d, want 3", len(cfg.Roles))
					}
					expected := []string{"admin", "user", "moderator"}
					for i, want := range expected {
						if cfg.Roles[i] != want {
							t.Errorf("Roles[%d] = %q, want %q", i, cfg.Roles[i], want)
						}
					}
				}
				return err
			},
		},
		{
			name:   "named_string_secret",
			envKey: "SIGNING_KEY",
			envVal: "s3cret",
			loadCfg: func(t *testing.T) error {
				var cfg secretConfig
				err := New().Load(&cfg)
				if err == nil {
					if cfg.SigningKey.Value() != "s3cret" {
						t.Errorf("SigningKey.Value() = %q, want %q", cfg.SigningKey.Value(), "s3cret")
					}
					if cfg.SigningKey.String() != "[REDACTED]" {
						t.Errorf("SigningKey.String() = %q, want %q", cfg.SigningKey.String(), "[REDACTED]")
					}
				}
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.envVal)
			if err := tt.loadCfg(t); err != nil {
				t.Fatalf("Load() error: %v", err)
			}
		})
	}
}

// ===========================================================================
// Load — Nested Struct Tests
// ===========================================================================

// TestLoader_Load_NestedStruct_Env verifies that nested struct fields
// are loaded from environment variables with the parent's env tag as prefix.
func TestLoader_Load_NestedStruct_Env(t *testing.T) {
	t.Setenv("SERVICE", "gallery-api")
	t.Setenv("REDIS_ADDR", "redis.internal:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_PASSWORD", "redispass")

	var cfg nestedConfig
	if err := New().Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Service != "gallery-api" {
		t.Errorf("Service = %q, want %q", cfg.Service, "gallery-api")
	}
	if cfg.Redis.Addr != "redis.internal:6379" {
		t.Errorf("Redis.Addr = %q, want %q", cfg.Redis.Addr, "redis.internal:6379")
	}
	if cfg.Redis.DB != 2 {
		t.Errorf("Redis.DB = %d, want %d", cfg.Redis.DB, 2)
	}
	if cfg.Redis.Password.Value() != "redispass" {
		t.Errorf("Redis.Password.Value() = %q, want %q",
			cfg.Redis.Password.Value(), "redispass")
	}
}

// TestLoader_Load_NestedStruct_WithPrefix verifies that the global env
// prefix is combined with the nested struct prefix.
func TestLoader_Load_NestedStruct_WithPrefix(t *testing.T) {
	t.Setenv("WALLFRAME_REDIS_ADDR", "prefixed-redis:6379")
	t.Setenv("WALLFRAME_REDIS_DB", "3")

	var cfg nestedConfig
	if err := New().WithEnvPrefix("WALLFRAME").Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Redis.Addr != "prefixed-redis:6379" {
		t.Errorf("Redis.Addr = %q, want %q", cfg.Redis.Addr, "prefixed-redis:6379")
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("Redis.DB = %d, want %d", cfg.Redis.DB, 3)
	}
}

// TestLoader_Load_NestedStruct_File verifies that nested struct fields
// are loaded from a YAML file with nested structure.
func TestLoader_Load_NestedStruct_File(t *testing.T) {
	path := writeTestFile(t, "config.yaml", `
service: yaml-service
redis:
  addr: yaml-redis:6379
  db: 4
`)

	var cfg nestedConfig
	if err := New().WithFile(path).Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Service != "yaml-service" {
		t.Errorf("Service = %q, want %q", cfg.Service, "yaml-service")
	}
	if cfg.Redis.Addr != "yaml-redis:6379" {
		t.Errorf("Redis.Addr = %q, want %q", cfg.Redis.Addr, "yaml-redis:6379")
	}
	if cfg.Redis.DB != 4 {
		t.Errorf("Redis.DB = %d, want %d", cfg.Redis.DB, 4)
	}
}

// ===========================================================================
// Load — Validation Tests (required tag)
// ===========================================================================

// TestLoader_Load_RequiredField_Set verifies that no error occurs when
// a required field has a value.
func TestLoader_Load_RequiredField_Set(t *testing.T) {
	t.Setenv("SIGNING_KEY", "required-key")

	var cfg requiredConfig
	if err := New().Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SigningKey != "required-key" {
		t.Errorf("SigningKey = %q, want %q", cfg.SigningKey, "required-key")
	}
}

// TestLoader_Load_RequiredField_Missing verifies that a missing required
// field returns a CodeValidationRequired error.
func TestLoader_Load_RequiredField_Missing(t *testing.T) {
	var cfg requiredConfig
	err := New().Load(&cfg)
	if err == nil {
		t.Fatal("Load() expected error for missing required field, got nil")
	}

	var wfErr *wferr.Error
	if !errors.As(err, &wfErr) {
		t.Fatalf("error type = %T, want *wferr.Error", err)
	}
	if wfErr.Code != wferr.CodeValidationRequired {
		t.Errorf("error code = %q, want %q", wfErr.Code, wferr.CodeValidationRequired)
	}
}

// TestLoader_Load_NestedRequiredField_Missing verifies that required
// validation works for nested struct fields.
func TestLoader_Load_NestedRequiredField_Missing(t *testing.T) {
	var cfg nestedRequiredConfig
	err := New().Load(&cfg)
	if err == nil {
		t.Fatal("Load() expected error for nested required field, got nil")
	}
	if !wferr.IsValidation(err) {
		t.Error("IsValidation() = false, want true for nested required field")
	}
}

// ===========================================================================
// Load — Validator Interface Tests
// ===========================================================================

// TestLoader_Load_Validator_Called verifies that the Validator interface
// Validate method is called after loading and tag validation succeed.
func TestLoader_Load_Validator_Called(t *testing.T) {
	t.Setenv("SIGNING_KEY", "k")
	t.Setenv("RATE_LIMIT", "10")

	var cfg validatableConfig
	if err := New().Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v (Validator should pass for limit 10)", err)
	}

	if cfg.RateLimit != 10 {
		t.Errorf("RateLimit = %d, want 10", cfg.RateLimit)
	}
}

// TestLoader_Load_Validator_ReturnsError verifies that a Validate()
// error is surfaced through Load().
func TestLoader_Load_Validator_ReturnsError(t *testing.T) {
	t.Setenv("SIGNING_KEY", "k")
	t.Setenv("RATE_LIMIT", "0") // Invalid: limit must be at least 1.

	var cfg validatableConfig
	err := New().Load(&cfg)
	if err == nil {
		t.Fatal("Load() expected error from Validator, got nil")
	}
	if !wferr.IsValidation(err) {
		t.Errorf("IsValidation() = false, want true for Validator error")
	}
}

// TestLoader_Load_Validator_StdlibError verifies that stdlib errors from
// Validate() are wrapped with CodeValidation.
func TestLoader_Load_Validator_StdlibError(t *testing.T) {
	// Don't set NAME — triggers Validate() failure.
	var cfg validatableStdlibConfig
	err := New().Load(&cfg)
	if err == nil {
		t.Fatal("Load() expected error from Validator, got nil")
	}
	if !wferr.IsValidation(err) {
		t.Errorf("IsValidation() = false, want true for wrapped stdlib error")
	}
}

// ===========================================================================
// Load — Priority Order Tests
// ===========================================================================

// TestLoader_Load_PriorityOrder verifies the full priority chain:
// env > file > default.
func TestLoader_Load_PriorityOrder(t *testing.T) {
	path := writeTestFile(t, "config.yaml", `
signing_key: from-file
rate_limit: 30
`)

	// Set env to override the file value for SigningKey.
	t.Setenv("SIGNING_KEY", "from-env")
	// Do NOT set RATE_LIMIT env var — file value should be used.

	var cfg authSettings
	if err := New().WithFile(path).Load(&cfg); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// SigningKey: env wins over file.
	if cfg.SigningKey != "from-env" {
		t.Errorf("SigningKey = %q, want %q (env > file)", cfg.SigningKey, "from-env")
	}
	// RateLimit: file wins over default.
	if cfg.RateLimit != 30 {
		t.Errorf("RateLimit = %d, want %d (file > default)", cfg.RateLimit, 30)
	}
	// TokenLifetime: default only (not in file, not in env).
	if cfg.TokenLifetime != time.Hour {
		t.Errorf("TokenLifetime = %v, want %v (default only)", cfg.TokenLifetime, time.Hour)
	}
}

// ===========================================================================
// MustLoad Tests
// ===========================================================================

// TestMustLoad_Success verifies that MustLoad returns a populated struct
// when loading succeeds.
func TestMustLoad_Success(t *testing.T) {
	cfg := MustLoad[authSettings](New())

	if cfg.RateLimit != 10 {
		t.Errorf("RateLimit = %d, want %d", cfg.RateLimit, 10)
	}
	if cfg.TokenLifetime != time.Hour {
		t.Errorf("TokenLifetime = %v, want %v", cfg.TokenLifetime, time.Hour)
	}
}

// TestMustLoad_Panics verifies that MustLoad panics when a required
// field is missing.
func TestMustLoad_Panics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("MustLoad() expected panic, got none")
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("panic value type = %T, want string", r)
		}
		if msg == "" {
			t.Error("panic message is empty, want descriptive message")
		}
	}()

	_ = MustLoad[requiredConfig](New())
}

// ===========================================================================
// Load — Parse Error Tests
// ===========================================================================

// TestLoader_Load_InvalidInt_FromEnv verifies that a non-numeric string
// for an int field returns an error.
func TestLoader_Load_InvalidInt_FromEnv(t *testing.T) {
	t.Setenv("RATE_LIMIT", "not-a-number")

	var cfg authSettings
	err := New().Load(&cfg)
	if err == nil {
		t.Fatal("Load() expected error for invalid int, got nil")
	}
	if !wferr.IsInternal(err) {
		t.Errorf("IsInternal() = false, want true for parse error")
	}
}

// TestLoader_Load_InvalidBool_FromEnv verifies that an invalid bool
// string returns an error.
func TestLoader_Load_InvalidBool_FromEnv(t *testing.T) {
	t.Setenv("DEBUG", "not-a-bool")

	var cfg authSettings
	err := New().Load(&cfg)
	if err == nil {
		t.Fatal("Load() expected error for invalid bool, got nil")
	}
	if !wferr.IsInternal(err) {
		t.Errorf("IsInternal() = false, want true for parse error")
	}
}

// TestLoader_Load_InvalidDuration_FromEnv verifies that an invalid
// duration string returns an error.
func TestLoader_Load_InvalidDuration_FromEnv(t *testing.T) {
	t.Setenv("TOKEN_LIFETIME", "not-a-duration")

	var cfg authSettings
	err := New().Load(&cfg)
	if err == nil {
		t.Fatal("Load() expected error for invalid duration, got nil")
	}
	if !wferr.IsInternal(err) {
		t.Errorf("IsInternal() = false, want true for parse error")
	}
}

// TestLoader_Load_InvalidYAML_File verifies that a malformed YAML file
// returns an error.
func TestLoader_Load_InvalidYAML_File(t *testing.T) {
	path := writeTestFile(t, "bad.yaml", `
signing_key: [invalid yaml
  missing closing bracket
`)

	var cfg authSettings
	err := New().WithFile(path).Load(&cfg)
	if err == nil {
		t.Fatal("Load() expected error for malformed YAML, got nil")
	}
	if !wferr.IsInternal(err) {
		t.Errorf("IsInternal() = false, want true for YAML parse error")
	}
}

// TestLoader_Load_InvalidJSON_File verifies that a malformed JSON file
// returns an error.
func TestLoader_Load_InvalidJSON_File(t *testing.T) {
	path := writeTestFile(t, "bad.json", `{"signing_key": invalid}`)

	var cfg authSettings
	err := New().WithFile(path).Load(&cfg)
	if err == nil {
		t.Fatal("Load() expected error for malformed JSON, got nil")
	}
	if !wferr.IsInternal(err) {
		t.Errorf("IsInternal() = false, want true for JSON parse error")
	}
}
