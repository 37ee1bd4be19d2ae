// Package profile holds the runtime configuration of the server process.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where tutorcal stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// AIEnabled toggles the LLM-backed query parser. When disabled, the
	// deterministic pattern parser answers alone.
	AIEnabled bool   // TUTORCAL_AI_ENABLED
	AIAPIKey  string // TUTORCAL_AI_API_KEY
	AIBaseURL string // TUTORCAL_AI_BASE_URL (default: https://api.openai.com/v1)
	AIModel   string // TUTORCAL_AI_MODEL (default: gpt-4o-mini)
	// AIRequestsPerMinute caps calls to the model endpoint.
	AIRequestsPerMinute int // TUTORCAL_AI_REQUESTS_PER_MINUTE (default: 30)
}

// IsDev returns true unless the profile runs in prod mode.
func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// FromEnv loads configuration from TUTORCAL_* environment variables.
// Empty values are skipped so defaults take effect.
func (p *Profile) FromEnv() {
	getEnv := func(key, defaultValue string) string {
		if val := os.Getenv(key); val != "" {
			return val
		}
		return defaultValue
	}

	p.Mode = getEnv("TUTORCAL_MODE", p.Mode)
	p.Addr = getEnv("TUTORCAL_ADDR", p.Addr)
	if val := os.Getenv("TUTORCAL_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			p.Port = port
		}
	}
	p.Data = getEnv("TUTORCAL_DATA", p.Data)
	p.DSN = getEnv("TUTORCAL_DSN", p.DSN)
	p.Driver = getEnv("TUTORCAL_DRIVER", p.Driver)

	p.AIEnabled = getEnv("TUTORCAL_AI_ENABLED", boolString(p.AIEnabled)) == "true"
	p.AIAPIKey = getEnv("TUTORCAL_AI_API_KEY", p.AIAPIKey)
	p.AIBaseURL = getEnv("TUTORCAL_AI_BASE_URL", "https://api.openai.com/v1")
	p.AIModel = getEnv("TUTORCAL_AI_MODEL", "gpt-4o-mini")
	if val := os.Getenv("TUTORCAL_AI_REQUESTS_PER_MINUTE"); val != "" {
		if rpm, err := strconv.Atoi(val); err == nil {
			p.AIRequestsPerMinute = rpm
		}
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	dataDir = strings.TrimRight(dataDir, "\\/")

	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}

	return dataDir, nil
}

// Validate normalizes the profile and applies defaults.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		p.Data = "/var/opt/tutorcal"
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("tutorcal_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.AIRequestsPerMinute <= 0 {
		p.AIRequestsPerMinute = 30
	}

	return nil
}
