package config

import (
	"os"
	"strings"
	"time"
)

type Env struct {
	AppAddr        string
	GinMode        string
	DBDSN          string
	JWTSecret      string
	TickInterval   time.Duration
	PaymentTimeout time.Duration
	SeedDemo       bool
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		secret = "super-secret-key-change-me"
	}

	tick := 30 * time.Second
	if v := strings.TrimSpace(os.Getenv("TICK_INTERVAL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			tick = d
		}
	}

	payTimeout := 3 * time.Second
	if v := strings.TrimSpace(os.Getenv("PAYMENT_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			payTimeout = d
		}
	}

	return Env{
		AppAddr:        appAddr,
		GinMode:        strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBDSN:          strings.TrimSpace(os.Getenv("DB_DSN")),
		JWTSecret:      secret,
		TickInterval:   tick,
		PaymentTimeout: payTimeout,
		SeedDemo:       strings.TrimSpace(os.Getenv("SEED_DEMO")) != "false",
	}
}
