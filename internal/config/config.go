package config

import (
	"flag"
	"os"
	"strconv"
)

// Config holds all daemon configuration.
type Config struct {
	Addr        string // control/metrics HTTP address
	Iface       string // wireless interface backing the SME
	MacAddr     string // station MAC, overrides the interface default
	MockMode    bool   // run against the simulated driver
	Debug       bool
	MaxInflight int // per-session concurrent command bound
}

// Load parses command line flags and environment variables to populate
// Config. Flags take precedence over environment variables.
func Load() *Config {
	cfg := &Config{}

	// Defaults and Environment Variables
	cfg.Addr = getEnv("SME_ADDR", ":8080")
	cfg.Iface = getEnv("SME_IFACE", "wlan0")
	cfg.MacAddr = getEnv("SME_MAC", "02:00:00:00:01:00")
	cfg.MockMode = getEnvBool("SME_MOCK", false)
	cfg.MaxInflight = getEnvInt("SME_MAX_INFLIGHT", 1000)

	// Command Line Flags (Override Env)
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Control/metrics HTTP address")
	flag.StringVar(&cfg.Iface, "i", cfg.Iface, "Wireless interface")
	flag.StringVar(&cfg.MacAddr, "mac", cfg.MacAddr, "Station MAC address")
	flag.BoolVar(&cfg.MockMode, "mock", cfg.MockMode, "Run against the simulated driver")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable verbose debug logging")
	flag.IntVar(&cfg.MaxInflight, "max-inflight", cfg.MaxInflight, "Per-session concurrent command bound")

	flag.Parse()

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
