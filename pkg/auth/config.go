package auth

import (
	"time"

	wferr "github.com/wallframe/wallframe-core/pkg/errors"
)

// MinSigningKeySize is the minimum length in bytes for the HS256 signing
// key. Shorter keys weaken the HMAC and are rejected at configuration time.
const MinSigningKeySize = 32

// secretRedacted is the placeholder returned by Secret's string methods.
const secretRedacted = "[REDACTED]"

// Secret is a string type that prevents accidental logging of sensitive
// values such as the token signing key. Its [Secret.String] and
// [Secret.GoString] methods return a redacted placeholder. Use
// [Secret.Value] to retrieve the actual value for signing operations.
//
// Example:
//
//	cfg.SigningKey = auth.Secret(os.Getenv("AUTH_SIGNING_KEY"))
//	log.Printf("key=%s", cfg.SigningKey) // logs key=[REDACTED]
type Secret string

// String returns a redacted placeholder, never the actual secret.
func (s Secret) String() string {
	return secretRedacted
}

// GoString returns a redacted placeholder for %#v formatting.
func (s Secret) GoString() string {
	return secretRedacted
}

// Value returns the actual secret value for use in signing operations.
func (s Secret) Value() string {
	return string(s)
}

// MarshalText implements encoding.TextMarshaler, returning the redacted
// placeholder so secrets do not leak through JSON or YAML serialization.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(secretRedacted), nil
}

// Config holds the tunable parameters of the authentication core. It is
// designed to be loaded with the pkg/config layered loader:
//
//	cfg := config.MustLoad[auth.Config](config.New().WithEnvPrefix("AUTH"))
//
// With the "AUTH" prefix the fields map to AUTH_SIGNING_KEY,
// AUTH_TOKEN_LIFETIME, AUTH_RATE_WINDOW, AUTH_RATE_LIMIT,
// AUTH_ATTEMPT_THRESHOLD, and AUTH_ATTEMPT_RESET_INTERVAL.
type Config struct {
	// SigningKey is the symmetric HS256 key used to sign and verify
	// tokens. Required, and must be at least [MinSigningKeySize] bytes.
	SigningKey Secret `json:"-" yaml:"-" env:"SIGNING_KEY" required:"true"`

	// TokenLifetime is how long issued tokens remain valid.
	TokenLifetime time.Duration `json:"token_lifetime" yaml:"token_lifetime" env:"TOKEN_LIFETIME" envDefault:"1h"`

	// RateWindow is the length of the fixed rate-limiting window.
	RateWindow time.Duration `json:"rate_window" yaml:"rate_window" env:"RATE_WINDOW" envDefault:"15m"`

	// RateLimit is the maximum number of authentication requests a single
	// client may make within one RateWindow.
	RateLimit int `json:"rate_limit" yaml:"rate_limit" env:"RATE_LIMIT" envDefault:"10"`

	// AttemptThreshold is the number of failed verification attempts at
	// which a client becomes blocked until the next tracker reset.
	AttemptThreshold int `json:"attempt_threshold" yaml:"attempt_threshold" env:"ATTEMPT_THRESHOLD" envDefault:"5"`

	// AttemptResetInterval is how often the attempt tracker clears all
	// per-client failure counts.
	AttemptResetInterval time.Duration `json:"attempt_reset_interval" yaml:"attempt_reset_interval" env:"ATTEMPT_RESET_INTERVAL" envDefault:"30m"`
}

// DefaultConfig returns a Config with production defaults applied. The
// SigningKey is left empty and must be set by the caller.
func DefaultConfig() Config {
	return Config{
		TokenLifetime:        time.Hour,
		RateWindow:           15 * time.Minute,
		RateLimit:            10,
		AttemptThreshold:     5,
		AttemptResetInterval: 30 * time.Minute,
	}
}

// Validate checks the configuration for structural problems. It implements
// the pkg/config Validator interface so loading fails fast on a weak
// signing key or non-positive thresholds.
func (c *Config) Validate() error {
	if len(c.SigningKey.Value()) < MinSigningKeySize {
		return wferr.Newf(wferr.CodeValidation,
			"auth: signing key must be at least %d bytes, got %d",
			MinSigningKeySize, len(c.SigningKey.Value()))
	}
	if c.TokenLifetime <= 0 {
		return wferr.New(wferr.CodeValidation, "auth: token lifetime must be positive")
	}
	if c.RateWindow <= 0 {
		return wferr.New(wferr.CodeValidation, "auth: rate window must be positive")
	}
	if c.RateLimit <= 0 {
		return wferr.New(wferr.CodeValidation, "auth: rate limit must be positive")
	}
	if c.AttemptThreshold <= 0 {
		return wferr.New(wferr.CodeValidation, "auth: attempt threshold must be positive")
	}
	if c.AttemptResetInterval <= 0 {
		return wferr.New(wferr.CodeValidation, "auth: attempt reset interval must be positive")
	}
	return nil
}
