package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          string
	DBDSN         string
	APIBaseURL    string
	Locale        string
	LogFile       string
	StaffPassHash string
	HTTPTimeout   time.Duration
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "velora.db" // sqlite file in project root
	}
	base := os.Getenv("API_BASE_URL")
	if base == "" {
		base = "https://api.velora.test/api/v1"
	}
	locale := os.Getenv("LOCALE")
	if locale == "" {
		locale = "en"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./velora.log" // default log sink in project root
	}
	// bcrypt hash of the staff passcode; staff routes are disabled when empty
	staffHash := os.Getenv("STAFF_PASS_HASH")

	timeout := 30 * time.Second
	if s := os.Getenv("HTTP_TIMEOUT_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}

	cfg := Config{
		Port: port, DBDSN: dsn, APIBaseURL: base, Locale: locale,
		LogFile: logFile, StaffPassHash: staffHash, HTTPTimeout: timeout,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s API_BASE_URL=%s LOCALE=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.APIBaseURL, cfg.Locale, cfg.LogFile)
	return cfg
}
