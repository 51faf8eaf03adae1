package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required variables are enforced by must() and a
// missing value aborts startup; optional values fall back to sane defaults
// so a bare .env is enough for local development.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
	FrontendURL    string // base URL the email verification link redirects to
	SMTPHost       string // SMTP relay host (empty disables outbound mail)
	SMTPPort       int    // SMTP relay port
	SMTPUser       string // SMTP username
	SMTPPass       string // SMTP password
	MailFrom       string // From address on outgoing mail
	MailFromName   string // display name on outgoing mail
}

// AppURL returns the externally reachable base URL of the API, used when
// building links embedded in outgoing email.
func (c Config) AppURL() string {
	if v := os.Getenv("APP_URL"); v != "" {
		return v
	}
	return "http://localhost:" + c.Port
}

// Load reads configuration values from environment variables and returns a
// Config.  Database and JWT settings are required; mail settings are
// optional because local development runs without an SMTP relay.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		FrontendURL:    envStr("FRONTEND_URL", "http://localhost:3002"),
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       envInt("SMTP_PORT", 587),
		SMTPUser:       os.Getenv("SMTP_USERNAME"),
		SMTPPass:       os.Getenv("SMTP_PASSWORD"),
		MailFrom:       envStr("MAIL_FROM", "bookings@resort.local"),
		MailFromName:   envStr("MAIL_FROM_NAME", "Resort Bookings"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
