package cfg

import (
	"io"
	"testing"
	"time"

	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/DRSN-tech/basket-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("POSTGRES_USER", "basket")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "basket")
	t.Setenv("JWT_SECRET", "jwt-secret")
}

func testLogger() logger.Logger {
	return logger.NewSlogLoggerWithWriter(io.Discard, "error")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(testLogger())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Http.Port)
	assert.Equal(t, "8091", cfg.Grpc.Port)
	assert.Equal(t, "localhost", cfg.Db.Host)
	assert.Equal(t, "file://db/migrations", cfg.Db.MigrationsURL)
	assert.Equal(t, "carts", cfg.Mongo.CartCollection)
	assert.Equal(t, 3*time.Minute, cfg.Redis.CatalogTTL)
	assert.Equal(t, 3*time.Second, cfg.Redis.Timeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "basket-events", cfg.Kafka.Topic)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Empty(t, cfg.Auth.AdminEmails)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("ADMIN_EMAILS", "Boss@Shop.io,ops@shop.io")
	t.Setenv("WRITE_TIMEOUT", "7s")
	t.Setenv("JWT_TTL", "1h")

	cfg, err := Load(testLogger())
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Http.Port)
	assert.Equal(t, "http://localhost:9000/swagger/doc.json", cfg.Http.SwaggerURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"boss@shop.io", "ops@shop.io"}, cfg.Auth.AdminEmails)
	assert.Equal(t, 7*time.Second, cfg.Redis.Timeout)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load(testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_InvalidDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_READ_TIMEOUT", "soon")

	_, err := Load(testLogger())
	require.Error(t, err)
}

func TestParseIntEnv(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	v, err := parseIntEnv("SOME_INT", 4)
	assert.ErrorIs(t, err, e.ErrIncorrectEnvVariable)
	assert.Equal(t, 4, v)
}

func TestPGDBCfg_DSN(t *testing.T) {
	c := &PGDBCfg{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", c.DSN())
}
