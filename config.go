package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL string
	Token      string
	CaseID     int64
	ExportDir  string
}

// loadConfig resolves configuration in three layers: defaults, then
// ~/.caseboardrc key=value overrides, then .env/environment (environment
// wins). The case id may also arrive as the first CLI argument.
func loadConfig(args []string) (Config, error) {
	cfg := Config{
		APIBaseURL: "http://localhost:8000/api",
		ExportDir:  ".",
	}

	applyRCFile(&cfg)

	// Missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	if v := os.Getenv("CASEBOARD_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("CASEBOARD_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("CASEBOARD_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	if v := os.Getenv("CASEBOARD_CASE_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, &ValidationError{Field: "CASEBOARD_CASE_ID", Reason: "not a number"}
		}
		cfg.CaseID = id
	}
	if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return cfg, &ValidationError{Field: "case id", Reason: "not a number"}
		}
		cfg.CaseID = id
	}

	if cfg.CaseID <= 0 {
		return cfg, &ValidationError{Field: "case id", Reason: "required (argument or CASEBOARD_CASE_ID)"}
	}
	return cfg, nil
}

func applyRCFile(cfg *Config) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return
	}
	file, err := os.Open(filepath.Join(homeDir, ".caseboardrc"))
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		switch key {
		case "api_url":
			cfg.APIBaseURL = value
		case "token":
			cfg.Token = value
		case "export_dir", "exportdir":
			if strings.HasPrefix(value, "~") {
				value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
			}
			cfg.ExportDir = value
		case "case_id":
			if id, err := strconv.ParseInt(value, 10, 64); err == nil {
				cfg.CaseID = id
			}
		}
	}
}
