package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/shop-api/config"
)

func TestInitSQLite(t *testing.T) {
	db, err := InitDB(&config.Config{Database: config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1}})
	require.NoError(t, err)
	defer func() { assert.NoError(t, Close(db)) }()

	assert.False(t, SupportsRowLocking(db))
	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestDialectorFor(t *testing.T) {
	pg, err := dialectorFor(config.DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", Name: "shop", SSLMode: "disable"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", pg.Name())

	my, err := dialectorFor(config.DatabaseConfig{Driver: "mysql", Host: "db", Port: 3306, User: "u", Password: "p", Name: "shop"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", my.Name())

	_, err = dialectorFor(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, logLevel("silent"))
	assert.Equal(t, gormlogger.Info, logLevel("info"))
	assert.Equal(t, gormlogger.Error, logLevel("error"))
	assert.Equal(t, gormlogger.Warn, logLevel(""))
}
