package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("SHOP_BASE_FILE", "index.php")

	cfg, err := Load("does-not-exist")
	require.NoError(t, err)

	assert.Equal(t, "storefront-service", cfg.AppName)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "index.php", cfg.Shop.BaseFile)
	assert.Equal(t, "EK", cfg.Shop.FallbackCustomerGroup)
	assert.Equal(t, 1, cfg.Shop.RootCategoryID)
	assert.Equal(t, 100, cfg.Shop.MaxPurchase)
	assert.Equal(t, "storefront.catalog", cfg.Kafka.CatalogTopic)
	assert.Equal(t, 1024, cfg.Cache.LocalSize)
	assert.False(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	viper.Reset()
	cfg, err := Load("does-not-exist")
	require.NoError(t, err)

	t.Run("invalid currency", func(t *testing.T) {
		c := *cfg
		c.Shop.Currency = "EURO"
		assert.Error(t, c.Validate())
	})

	t.Run("unknown media adapter", func(t *testing.T) {
		c := *cfg
		c.Media.Adapter = "s3"
		assert.Error(t, c.Validate())
	})

	t.Run("keycloak without realm", func(t *testing.T) {
		c := *cfg
		c.Security.Keycloak.Enabled = true
		c.Security.Keycloak.ServerURL = "http://keycloak:8080"
		assert.Error(t, c.Validate())
	})

	t.Run("valid", func(t *testing.T) {
		c := *cfg
		assert.NoError(t, c.Validate())
	})
}
