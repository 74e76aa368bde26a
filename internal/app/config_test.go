package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chartspoint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://cms.chartspoint.com/graphql", cfg.GraphQLURL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.False(t, cfg.EnableACF)
	assert.Empty(t, cfg.DSN)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
graphql_url: https://staging.chartspoint.com/graphql
site_url: https://staging.chartspoint.com
cache_ttl: 90s
concurrency: 2
static_pages: [about]
enable_seo: true
mysql_dsn: mysql://user:pass@db/chartspoint
`)
	t.Setenv("BUILD_CONCURRENCY", "6")
	t.Setenv("WORDPRESS_ACF", "true")
	t.Setenv("WORDPRESS_JWT_USERNAME", "editor")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.chartspoint.com/graphql", cfg.GraphQLURL)
	assert.Equal(t, "https://staging.chartspoint.com", cfg.SiteURL)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 6, cfg.Concurrency, "env overrides the file")
	assert.Equal(t, []string{"about"}, cfg.StaticPages)
	assert.True(t, cfg.EnableSEO)
	assert.True(t, cfg.EnableACF)
	assert.Equal(t, "editor", cfg.JWTUsername)
	assert.Equal(t, "user:pass@tcp(db:3306)/chartspoint?parseTime=true", cfg.DSN)
	assert.Equal(t, true, cfg.Features().ACF)
}

func TestLoadConfigEnvAliases(t *testing.T) {
	t.Setenv("WORDPRESS_API_URL", "https://legacy.example.com/graphql")
	t.Setenv("STATIC_PAGES", "about, terms ,,")
	t.Setenv("DATABASE_URL", "root@tcp(127.0.0.1:3306)/cp")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "https://legacy.example.com/graphql", cfg.GraphQLURL)
	assert.Equal(t, []string{"about", "terms"}, cfg.StaticPages)
	assert.Equal(t, "root@tcp(127.0.0.1:3306)/cp?parseTime=true", cfg.DSN)

	t.Setenv("WORDPRESS_GRAPHQL_URL", "https://primary.example.com/graphql")
	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "https://primary.example.com/graphql", cfg.GraphQLURL)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := map[string]func(t *testing.T) string{
		"bad yaml": func(t *testing.T) string { return writeConfig(t, "cache_ttl: [") },
		"bad duration env": func(t *testing.T) string {
			t.Setenv("CACHE_TTL", "soon")
			return ""
		},
		"bad bool env": func(t *testing.T) string {
			t.Setenv("WORDPRESS_SEO", "maybe")
			return ""
		},
		"bad url": func(t *testing.T) string { return writeConfig(t, "site_url: chartspoint.com") },
		"zero concurrency": func(t *testing.T) string {
			t.Setenv("BUILD_CONCURRENCY", "0")
			return ""
		},
		"bad port": func(t *testing.T) string {
			t.Setenv("PORT", "http")
			return ""
		},
		"bad dsn scheme": func(t *testing.T) string {
			t.Setenv("MYSQL_DSN", "postgres://u@h/db")
			return ""
		},
	}
	for name, setup := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(setup(t))
			assert.Error(t, err)
		})
	}
}

func TestNormalizeMySQLDSN(t *testing.T) {
	tests := map[string]string{
		"mysql://u:p@host/db":               "u:p@tcp(host:3306)/db?parseTime=true",
		"mariadb://u@host:3307/db?tls=true": "u@tcp(host:3307)/db?tls=true&parseTime=true",
		"u:p@tcp(h:1)/db?parseTime=false":   "u:p@tcp(h:1)/db?parseTime=false",
	}
	for input, want := range tests {
		got, err := normalizeMySQLDSN(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, input := range []string{"mysql:///db", "mysql://host/"} {
		_, err := normalizeMySQLDSN(input)
		assert.Error(t, err, input)
	}
}
