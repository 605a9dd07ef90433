package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{URI: "mongodb://localhost:27017"}.withDefaults()

	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.Equal(t, "shopit", cfg.Database)
	assert.Equal(t, "storefront", cfg.AppName)
}

func TestClientOptions(t *testing.T) {
	opts := clientOptions(Config{
		URI:         "mongodb://db.internal:27017",
		AppName:     "storefront-test",
		MaxPoolSize: 42,
		Timeout:     3 * time.Second,
	})

	require.NotNil(t, opts.AppName)
	assert.Equal(t, "storefront-test", *opts.AppName)
	require.NotNil(t, opts.MaxPoolSize)
	assert.EqualValues(t, 42, *opts.MaxPoolSize)
	require.NotNil(t, opts.ConnectTimeout)
	assert.Equal(t, 3*time.Second, *opts.ConnectTimeout)
	assert.Equal(t, []string{"db.internal:27017"}, opts.Hosts)
}

func TestClientOptions_KeepsDriverPoolDefault(t *testing.T) {
	opts := clientOptions(Config{URI: "mongodb://localhost:27017"}.withDefaults())
	assert.Nil(t, opts.MaxPoolSize)
}
