package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Google credentials
	CredentialsFile string

	// Drive placement and sharing
	DriveFolderID  string
	ShareDocuments bool
	ShareRole      string
	ShareType      string

	// Report layout policy (optional YAML file overriding default caps)
	LayoutFile string

	// Resolution failures become hard errors instead of skipped tables.
	StrictResolution bool
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		CredentialsFile: envOr("GOOGLE_CREDENTIALS_FILE", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),

		DriveFolderID:  os.Getenv("GOOGLE_DRIVE_FOLDER_ID"),
		ShareDocuments: envBool("REPORT_SHARE", true),
		ShareRole:      envOr("REPORT_SHARE_ROLE", "reader"),
		ShareType:      envOr("REPORT_SHARE_TYPE", "anyone"),

		LayoutFile: os.Getenv("REPORT_LAYOUT_FILE"),

		StrictResolution: envBool("REPORT_STRICT_RESOLUTION", false),
	}
}

func (c Config) Validate() error {
	if c.CredentialsFile == "" {
		return fmt.Errorf("GOOGLE_CREDENTIALS_FILE (or GOOGLE_APPLICATION_CREDENTIALS) is required")
	}
	if c.ShareDocuments && c.ShareRole == "" {
		return fmt.Errorf("REPORT_SHARE_ROLE must not be empty when sharing is enabled")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
