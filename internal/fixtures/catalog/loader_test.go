package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amirasaad/backoffice/internal/fixtures/catalog"
	"github.com/amirasaad/backoffice/pkg/domain/product"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	entries, err := catalog.Load("")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	var savings *catalog.Entry
	for i := range entries {
		if entries[i].Details.Name == "SAVINGS" {
			savings = &entries[i]
		}
	}
	require.NotNil(t, savings)
	assert.Equal(t, product.KindAccountType, savings.Kind)
	assert.True(t, savings.Details.Interest.Equal(decimal.RequireFromString("1.5")))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	content := "kind,name,description,interest\n" +
		"card_type,VIRTUAL,Online only card,\n" +
		"short,row\n" +
		"account_type,GOLD,Gold account,0.75\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	entries, err := catalog.Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 2, "short rows are skipped")
	assert.Equal(t, product.KindCardType, entries[0].Kind)
	assert.True(t, entries[0].Details.Interest.IsZero())
	assert.Equal(t, "GOLD", entries[1].Details.Name)
	assert.True(t, entries[1].Details.Interest.Equal(decimal.RequireFromString("0.75")))
}

func TestLoadErrors(t *testing.T) {
	_, err := catalog.Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("kind,name,description,interest\nbogus,X,,\n"), 0o600))
	_, err = catalog.Load(path)
	assert.ErrorContains(t, err, "unknown kind")

	require.NoError(t, os.WriteFile(path, []byte("kind,name\n"), 0o600))
	_, err = catalog.Load(path)
	assert.ErrorContains(t, err, "invalid CSV format")
}
