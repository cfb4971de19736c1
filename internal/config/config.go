package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr string

	ShareBaseURL string // page that reads the token from ShareParam
	ShareParam   string

	DBDriver       string
	DBDSN          string
	EnableEventLog bool
	SiteID         string

	CORSOrigins []string

	MaxTokenBytes    int
	QRSize           int
	PassRatioPercent int

	TemplateCatalog string // YAML path; empty uses the embedded catalog
}

func FromEnv() Config {
	return Config{
		HTTPAddr:         envOr("HTTP_ADDR", ":8080"),
		ShareBaseURL:     envOr("SHARE_BASE_URL", "https://quizlink.example.com/play/"),
		ShareParam:       envOr("SHARE_PARAM", "q"),
		DBDriver:         envOr("DB_DRIVER", "sqlite"),
		DBDSN:            envOr("DB_DSN", ""),
		EnableEventLog:   envBool("ENABLE_EVENT_LOG", true),
		SiteID:           envOr("SITE_ID", "local"),
		CORSOrigins:      csvOr("CORS_ORIGINS", "http://localhost:3000"),
		MaxTokenBytes:    envInt("MAX_TOKEN_BYTES", 64<<10),
		QRSize:           envInt("QR_SIZE", 512),
		PassRatioPercent: envInt("PASS_RATIO_PERCENT", 50),
		TemplateCatalog:  os.Getenv("TEMPLATE_CATALOG"),
	}
}

// PassRatio converts PassRatioPercent to a fraction.
func (c Config) PassRatio() float64 { return float64(c.PassRatioPercent) / 100 }

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
	if err != nil {
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
