package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string
	DBUrl         string
	AdminPassword string
	WebHost       string
	Debug         bool
}

// ParseFlags reads configuration from command-line flags, with the
// SURVEY_* environment variables (optionally from a .env file) as
// defaults for the deployment-specific values.
func ParseFlags() (cfg Config, err error) {
	_ = godotenv.Load()

	var host string
	flag.StringVar(&host, "host", "0.0.0.0", "listen host name (default 0.0.0.0)")
	var port uint
	flag.UintVar(&port, "port", 8080, "listen port number (default 8080)")
	flag.StringVar(&cfg.DBUrl, "db-url", envOr("SURVEY_DB_URL", "survey.sqlite"), "path to SQLite3 DB file (default survey.sqlite)")
	flag.StringVar(&cfg.AdminPassword, "admin-password", os.Getenv("SURVEY_ADMIN_PASSWORD"), "shared password for the /admin pages")
	flag.StringVar(&cfg.WebHost, "web-host", os.Getenv("SURVEY_WEB_HOST"), "externally visible host used to build survey URLs")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	if cfg.WebHost == "" {
		cfg.WebHost = cfg.Url()
	}

	if cfg.AdminPassword == "" {
		err = errors.New("missing parameter -admin-password (SURVEY_ADMIN_PASSWORD)")
	}

	return
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
