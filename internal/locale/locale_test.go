package locale

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Fallback(t *testing.T) {
	en, err := Load("en")
	require.NoError(t, err)

	assert.Equal(t, "en", en.Name())
	assert.Equal(t, "Start of Spring", en.Get("solar_terms", "立春"))
	// zw_stars only exists in the Chinese catalog.
	assert.Equal(t, "紫微", en.Get("zw_stars", "紫微"))
	assert.Equal(t, "", en.Get("zw_stars", "missing"))
	assert.Equal(t, "", en.Get("no_such_category", "立春"))
}

func TestLoad_Default(t *testing.T) {
	zh, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Fallback, zh.Name())
	assert.Equal(t, "角木蛟", zh.Get("lodges", "角"))
	assert.Equal(t, "腊月", zh.Get("lunar_months", "12"))
}

func TestLoad_UnknownLocale(t *testing.T) {
	_, err := Load("xx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown locale "xx"`)
}

func TestLoad_WithDir(t *testing.T) {
	dir := t.TempDir()
	content := "officers:\n  建: Build\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lang_en.yaml"), []byte(content), 0o644))

	b, err := Load("en", WithDir(dir))
	require.NoError(t, err)

	assert.Equal(t, "Build", b.Get("officers", "建"))
	// Keys absent from the override fall back to the embedded Chinese catalog.
	assert.Equal(t, "除", b.Get("officers", "除"))
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("officers: [not, a, map]"))
	assert.Error(t, err)

	c, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "", c.Get("a", "b"))
}

func TestAvailable(t *testing.T) {
	assert.Equal(t, []string{"en", "zh"}, Available())
}

func TestCatalogsCoverSameCategories(t *testing.T) {
	zh, err := Load("zh")
	require.NoError(t, err)
	en, err := Load("en")
	require.NoError(t, err)

	for category := range en.primary {
		_, ok := zh.primary[category]
		assert.True(t, ok, "category %q missing from the fallback catalog", category)
	}
}
