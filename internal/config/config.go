package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string

	UploadDir   string
	MaxUploadMB int

	CORSOrigins          []string
	CORSAllowCredentials bool

	// AuditDBDriver is empty when the audit log is off.
	AuditDBDriver string // sqlite|postgres
	AuditDBDSN    string
	SiteID        string

	// RandomSeed fixes the selection source; 0 seeds from the clock.
	RandomSeed uint64
}

// LoadDotEnv reads .env files into the environment when they exist. A
// missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

func FromEnv() Config {
	return Config{
		HTTPAddr:             envOr("HTTP_ADDR", ":3000"),
		UploadDir:            envOr("UPLOAD_DIR", "uploads"),
		MaxUploadMB:          envInt("MAX_UPLOAD_MB", 10),
		CORSOrigins:          csvOr("CORS_ORIGINS", "*"),
		CORSAllowCredentials: envBool("CORS_ALLOW_CREDENTIALS", false),
		AuditDBDriver:        strings.ToLower(os.Getenv("AUDIT_DB_DRIVER")),
		AuditDBDSN:           os.Getenv("AUDIT_DB_DSN"),
		SiteID:               envOr("SITE_ID", "local"),
		RandomSeed:           uint64(envInt("RANDOM_SEED", 0)),
	}
}

func (c Config) AuditEnabled() bool { return c.AuditDBDriver != "" }

func (c Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) << 20 }

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil || v < 0 {
		return def
	}
	return v
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
