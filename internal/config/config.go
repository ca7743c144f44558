package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=teller_posting_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultListenAddr = ":8080"
const defaultChannelID = "BranchTeller"
const defaultTransferFeeReference = "income:transfer_fee"
const defaultCheckCashingFeeReference = "income:check_cashing_fee"
const defaultDraftFeeReference = "income:draft_fee"
const defaultCashOverReference = "income:cash_over"
const defaultCashShortReference = "expense:cash_short"

type Config struct {
	DatabaseDSN               string
	MigrationsDir             string
	ListenAddr                string
	ChannelID                 string
	ChannelKey                string
	TransferFeeReference      string
	CheckCashingFeeReference  string
	DraftFeeReference         string
	CashOverIncomeReference   string
	CashShortExpenseReference string
}

func Load() (Config, error) {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	return Config{
		DatabaseDSN:               normalizeConnectionString(envOrDefault("DATABASE_DSN", defaultConnectionString)),
		MigrationsDir:             envOrDefault("MIGRATIONS_DIR", filepath.Join("migrations")),
		ListenAddr:                envOrDefault("LISTEN_ADDR", defaultListenAddr),
		ChannelID:                 envOrDefault("CHANNEL_ID", defaultChannelID),
		ChannelKey:                strings.TrimSpace(os.Getenv("CHANNEL_KEY")),
		TransferFeeReference:      envOrDefault("TRANSFER_FEE_REFERENCE", defaultTransferFeeReference),
		CheckCashingFeeReference:  envOrDefault("CHECK_CASHING_FEE_REFERENCE", defaultCheckCashingFeeReference),
		DraftFeeReference:         envOrDefault("DRAFT_FEE_REFERENCE", defaultDraftFeeReference),
		CashOverIncomeReference:   envOrDefault("CASH_OVER_INCOME_REFERENCE", defaultCashOverReference),
		CashShortExpenseReference: envOrDefault("CASH_SHORT_EXPENSE_REFERENCE", defaultCashShortReference),
	}, nil
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

// normalizeConnectionString accepts both a libpq DSN and the legacy
// Host=..;Port=.. form used by the branch middleware, producing a libpq DSN.
func normalizeConnectionString(raw string) string {
	if !strings.Contains(raw, ";") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
