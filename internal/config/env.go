package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Env struct {
	AppAddr string
	GinMode string

	DBDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTTTL    time.Duration

	CORSAllowedOrigins []string

	PaymentLatency     time.Duration
	PaymentSuccessRate float64
	NotifyLatency      time.Duration

	FlowTTL time.Duration
}

// LoadEnv reads configuration from environment variables, falling back to defaults.
func LoadEnv() Env {
	return loadEnv(viper.New())
}

func loadEnv(v *viper.Viper) Env {
	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("GIN_MODE", "")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_SECRET", "super-secret-key-change-me")
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")
	v.SetDefault("PAYMENT_LATENCY", 3*time.Second)
	v.SetDefault("PAYMENT_SUCCESS_RATE", 0.9)
	v.SetDefault("NOTIFY_LATENCY", 2*time.Second)
	v.SetDefault("FLOW_TTL", 30*time.Minute)
	v.AutomaticEnv()

	appAddr := strings.TrimSpace(v.GetString("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	rate := v.GetFloat64("PAYMENT_SUCCESS_RATE")
	if rate < 0 || rate > 1 {
		rate = 0.9
	}

	return Env{
		AppAddr:            appAddr,
		GinMode:            strings.TrimSpace(v.GetString("GIN_MODE")),
		DBDSN:              strings.TrimSpace(v.GetString("DB_DSN")),
		RedisAddr:          strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTTTL:             v.GetDuration("JWT_TTL"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		PaymentLatency:     v.GetDuration("PAYMENT_LATENCY"),
		PaymentSuccessRate: rate,
		NotifyLatency:      v.GetDuration("NOTIFY_LATENCY"),
		FlowTTL:            v.GetDuration("FLOW_TTL"),
	}
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
