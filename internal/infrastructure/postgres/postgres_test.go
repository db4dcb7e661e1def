package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationVersions(t *testing.T) {
	versions, err := MigrationVersions()
	require.NoError(t, err)
	require.NotEmpty(t, versions)
	assert.Equal(t, []string{"001_storefront", "002_translations"}, versions)
}

func TestMigrationsCreateCatalogTables(t *testing.T) {
	script, err := migrations.ReadFile("migrations/001_storefront.sql")
	require.NoError(t, err)

	for _, table := range []string{"articles", "article_details", "prices", "categories", "payment_risk_rules", "article_history"} {
		assert.Contains(t, string(script), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}

func TestMigrationsCreateTranslations(t *testing.T) {
	script, err := migrations.ReadFile("migrations/002_translations.sql")
	require.NoError(t, err)
	assert.Contains(t, string(script), "CREATE TABLE IF NOT EXISTS translations (")
	assert.Contains(t, string(script), "PRIMARY KEY (object_type, object_id, shop_id)")
}
