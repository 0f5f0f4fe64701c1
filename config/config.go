// Package config loads client configuration from YAML or flags and
// credentials from the environment.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	defaultAPIURL            = "http://localhost:3000/api/v1"
	defaultPollQuoteInterval = 30 * time.Second
	defaultOperationTimeout  = 30 * time.Second
	defaultDashboardAddr     = "127.0.0.1:8181"
	defaultWalDir            = "./wal/receipts"
	defaultQueueCapacity     = 16
)

// Config client configuration.
type Config struct {
	APIURL            string
	PollQuoteInterval time.Duration
	OperationTimeout  time.Duration
	DashboardAddr     string
	WalDir            string
	QueueCapacity     int
}

type configTmp struct {
	APIURL               string `yaml:"api_url"`
	PollQuoteIntervalStr string `yaml:"poll_quote_interval,omitempty"`
	OperationTimeoutStr  string `yaml:"operation_timeout,omitempty"`
	DashboardAddr        string `yaml:"dashboard_addr,omitempty"`
	WalDir               string `yaml:"wal_dir,omitempty"`
	QueueCapacity        int    `yaml:"queue_capacity,omitempty"`
}

// Credentials login material read from the environment, never from
// the YAML config.
type Credentials struct {
	Email    string `envconfig:"ORBITAL_EMAIL" required:"true"`
	Password string `envconfig:"ORBITAL_PASSWORD" required:"true"`
}

// Get parses configuration from the given flag arguments, reading the
// YAML file when -config is provided.
func Get(args []string) (Config, error) {
	fs := flag.NewFlagSet("orbital", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to yaml config")
	apiURL := fs.String("api-url", defaultAPIURL, "base URL of the Orbital backend API")
	pollInterval := fs.Duration("poll-quote-interval", defaultPollQuoteInterval, "quote refresh interval")
	dashboardAddr := fs.String("dashboard-addr", defaultDashboardAddr, "dashboard listen address")
	walDir := fs.String("wal-dir", defaultWalDir, "receipts journal directory")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *configPath != "" {
		return getYaml(*configPath)
	}

	return Config{
		APIURL:            *apiURL,
		PollQuoteInterval: *pollInterval,
		OperationTimeout:  defaultOperationTimeout,
		DashboardAddr:     *dashboardAddr,
		WalDir:            *walDir,
		QueueCapacity:     defaultQueueCapacity,
	}, nil
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp configTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, err
	}

	if tmp.APIURL == "" {
		return Config{}, fmt.Errorf("missing 'api_url' param in yaml config")
	}

	cfg := Config{
		APIURL:            tmp.APIURL,
		PollQuoteInterval: defaultPollQuoteInterval,
		OperationTimeout:  defaultOperationTimeout,
		DashboardAddr:     defaultDashboardAddr,
		WalDir:            defaultWalDir,
		QueueCapacity:     defaultQueueCapacity,
	}

	if tmp.PollQuoteIntervalStr != "" {
		interval, err := time.ParseDuration(tmp.PollQuoteIntervalStr)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'poll_quote_interval' param in yaml config: %w", err)
		}
		cfg.PollQuoteInterval = interval
	}
	if tmp.OperationTimeoutStr != "" {
		timeout, err := time.ParseDuration(tmp.OperationTimeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'operation_timeout' param in yaml config: %w", err)
		}
		cfg.OperationTimeout = timeout
	}
	if tmp.DashboardAddr != "" {
		cfg.DashboardAddr = tmp.DashboardAddr
	}
	if tmp.WalDir != "" {
		cfg.WalDir = tmp.WalDir
	}
	if tmp.QueueCapacity > 0 {
		cfg.QueueCapacity = tmp.QueueCapacity
	}

	return cfg, nil
}

// GetCredentials loads login credentials from the environment, reading
// a .env file first when present.
func GetCredentials() (Credentials, error) {
	// .env is optional; real environments set the variables directly
	_ = godotenv.Load()

	var creds Credentials
	if err := envconfig.Process("", &creds); err != nil {
		return Credentials{}, fmt.Errorf("read credentials from environment: %w", err)
	}
	return creds, nil
}
