// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the SkillBridge service.
type Config struct {
	Port           string
	DatabaseURL    string
	RedisURL       string
	AdminJWTSecret string

	MinStakeAmount uint64 // collateral floor for RegisterAndStake
	MinSalary      uint64 // salary floor for employer registration
	AuditInterval  int    // hours between auditor sweeps
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	secret := os.Getenv("ADMIN_JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("ADMIN_JWT_SECRET is required")
	}

	port := os.Getenv("SKILLBRIDGE_PORT")
	if port == "" {
		port = "8083"
	}

	minStake, err := uintEnv("MIN_STAKE_AMOUNT", 5)
	if err != nil {
		return nil, err
	}

	minSalary, err := uintEnv("MIN_SALARY", 1)
	if err != nil {
		return nil, err
	}

	interval := 6
	if s := os.Getenv("AUDIT_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("AUDIT_INTERVAL_HOURS must be a positive integer, got %q", s)
		}
		interval = v
	}

	return &Config{
		Port:           port,
		DatabaseURL:    dbURL,
		RedisURL:       redisURL,
		AdminJWTSecret: secret,
		MinStakeAmount: minStake,
		MinSalary:      minSalary,
		AuditInterval:  interval,
	}, nil
}

func uintEnv(key string, def uint64) (uint64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, s)
	}
	return v, nil
}
