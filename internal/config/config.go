package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds simulation configuration.
type Config struct {
	ServerAddr string

	// Remote audit log. Empty AuditDSN disables it.
	AuditDSN string

	Seed    int64
	Horizon time.Duration
	Buyers  int
	Sellers int

	DemandEvery    time.Duration
	RFQValidity    time.Duration
	QuoteValidity  time.Duration
	PaymentTerm    time.Duration
	HandlingMin    time.Duration
	HandlingMax    time.Duration
	WireDelay      time.Duration
	DeliveryGrace  time.Duration
	BillGrace      time.Duration
	RankingSpec    string
	ProfitMargin   float64
	MaxPriceMargin float64

	FineFixed               float64
	DeliveryFineMargin      float64
	PaymentFineMarginPerDay float64
}

// Load reads configuration from environment.
func Load() (*Config, error) {
	dsn := os.Getenv("AUDIT_DATABASE_URL")
	if dsn == "" && parseBool(getenv("AUDIT_ENABLED", "false"), false) {
		user := getenv("POSTGRES_USER", "trade_hub")
		pass := getenv("POSTGRES_PASSWORD", "trade_hub_pass")
		db := getenv("POSTGRES_DB", "trade_hub")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}

	cfg := &Config{
		ServerAddr: getenv("SERVER_ADDR", "0.0.0.0:8080"),
		AuditDSN:   dsn,

		Seed:    parseInt64(getenv("SIM_SEED", "1"), 1),
		Horizon: parseDuration(getenv("SIM_HORIZON", "2160h"), 90*24*time.Hour),
		Buyers:  parseInt(getenv("SIM_BUYERS", "2"), 2),
		Sellers: parseInt(getenv("SIM_SELLERS", "2"), 2),

		DemandEvery:    parseDuration(getenv("DEMAND_EVERY", "72h"), 72*time.Hour),
		RFQValidity:    parseDuration(getenv("RFQ_VALIDITY", "48h"), 48*time.Hour),
		QuoteValidity:  parseDuration(getenv("QUOTE_VALIDITY", "72h"), 72*time.Hour),
		PaymentTerm:    parseDuration(getenv("PAYMENT_TERM", "720h"), 30*24*time.Hour),
		HandlingMin:    parseDuration(getenv("HANDLING_MIN", "1h"), time.Hour),
		HandlingMax:    parseDuration(getenv("HANDLING_MAX", "8h"), 8*time.Hour),
		WireDelay:      parseDuration(getenv("WIRE_DELAY", "0"), 0),
		DeliveryGrace:  parseDuration(getenv("DELIVERY_GRACE", "24h"), 24*time.Hour),
		BillGrace:      parseDuration(getenv("BILL_GRACE", "24h"), 24*time.Hour),
		RankingSpec:    getenv("QUOTE_RANKING", "price,date,distance"),
		ProfitMargin:   parseFloat(getenv("PROFIT_MARGIN", "0.2"), 0.2),
		MaxPriceMargin: parseFloat(getenv("MAX_PRICE_MARGIN", "0.5"), 0.5),

		FineFixed:               parseFloat(getenv("FINE_FIXED", "100"), 100),
		DeliveryFineMargin:      parseFloat(getenv("DELIVERY_FINE_MARGIN", "0.1"), 0.1),
		PaymentFineMarginPerDay: parseFloat(getenv("PAYMENT_FINE_MARGIN_PER_DAY", "0.01"), 0.01),
	}

	if cfg.Horizon <= 0 {
		return nil, fmt.Errorf("config: SIM_HORIZON must be positive")
	}
	if cfg.HandlingMax < cfg.HandlingMin {
		return nil, fmt.Errorf("config: HANDLING_MAX below HANDLING_MIN")
	}
	if cfg.Buyers < 1 || cfg.Sellers < 1 {
		return nil, fmt.Errorf("config: need at least one buyer and one seller")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return d
}

func parseBool(val string, def bool) bool {
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return n
}

func parseInt64(val string, def int64) int64 {
	if val == "" {
		return def
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func parseFloat(val string, def float64) float64 {
	if val == "" {
		return def
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return def
	}
	return f
}
