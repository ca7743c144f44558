package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeConnectionStringLegacyForm(t *testing.T) {
	dsn := normalizeConnectionString("Host=db.internal;Port=5433;Database=teller_posting_db;Username=teller;Password=pw;Timeout=30")
	assert.Equal(t, "host=db.internal port=5433 dbname=teller_posting_db user=teller password=pw connect_timeout=30 sslmode=disable", dsn)
}

func TestNormalizeConnectionStringPassthrough(t *testing.T) {
	dsn := "postgres://teller:pw@db.internal:5432/teller_posting_db?sslmode=require"
	assert.Equal(t, dsn, normalizeConnectionString(dsn))
}

func TestNormalizeConnectionStringKeepsExplicitSSLMode(t *testing.T) {
	dsn := normalizeConnectionString("Host=db.internal;Port=5432;Database=d;SslMode=require")
	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "sslmode=disable")
}
