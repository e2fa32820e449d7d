package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/thomas-vilte/prtriage/internal/errors"
	"github.com/thomas-vilte/prtriage/internal/filters"
	"github.com/thomas-vilte/prtriage/internal/scoring"
)

func clearTokenEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GH_TOKEN", "")
	t.Setenv("PRTRIAGE_ADMIN_TOKEN", "")
}

func TestLoad(t *testing.T) {
	t.Run("debería crear la configuración por defecto si no existe", func(t *testing.T) {
		// Arrange
		clearTokenEnv(t)
		path := filepath.Join(t.TempDir(), ".prtriage", "config.toml")

		// Act
		cfg, err := Load(path)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, path, cfg.PathFile)
		assert.Equal(t, "en", cfg.Language)
		assert.Equal(t, 50, cfg.DefaultLimit)
		assert.Equal(t, CacheMemory, cfg.Cache.Backend)
		assert.Equal(t, 5*time.Minute, cfg.Cache.TTL.Duration)
		assert.Equal(t, filters.DefaultConfig(), cfg.Filters)
		assert.Equal(t, scoring.DefaultWeights(), cfg.Weights)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("debería usar HOME cuando no se indica ruta", func(t *testing.T) {
		clearTokenEnv(t)
		home := t.TempDir()
		t.Setenv("HOME", home)

		cfg, err := Load("")

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".prtriage", "config.toml"), cfg.PathFile)
	})

	t.Run("debería leer un archivo parcial y completar con valores por defecto", func(t *testing.T) {
		// Arrange
		clearTokenEnv(t)
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
language = "es"
github_token = "file-token"

[cache]
backend = "sqlite"
ttl = "90s"

[filters]
hold_labels = ["frozen"]
exclude_conflicts = true

[weights]
lines = 0.5
`), 0o600))

		// Act
		cfg, err := Load(path)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "es", cfg.Language)
		assert.Equal(t, "file-token", cfg.Token())
		assert.Equal(t, CacheSQLite, cfg.Cache.Backend)
		assert.Equal(t, 90*time.Second, cfg.Cache.TTL.Duration)
		assert.Equal(t, 100, cfg.Cache.MaxEntries)
		assert.Equal(t, []string{"frozen"}, cfg.Filters.HoldLabels)
		assert.True(t, cfg.Filters.ExcludeConflicts)
		assert.True(t, cfg.Filters.ExcludeDrafts)
		assert.Equal(t, 0.5, cfg.Weights.Lines)
		assert.Equal(t, 0.20, cfg.Weights.Files)
	})

	t.Run("debería preferir el token del entorno sin guardarlo", func(t *testing.T) {
		// Arrange
		clearTokenEnv(t)
		t.Setenv("GH_TOKEN", "env-token")
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(`github_token = "file-token"`), 0o600))

		// Act
		cfg, err := Load(path)
		require.NoError(t, err)
		require.NoError(t, Save(cfg))

		// Assert
		assert.Equal(t, "env-token", cfg.Token())
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "file-token")
		assert.NotContains(t, string(data), "env-token")
	})

	t.Run("debería rechazar claves desconocidas", func(t *testing.T) {
		clearTokenEnv(t)
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("gemini_api_key = \"x\"\n"), 0o600))

		_, err := Load(path)

		assert.True(t, errors.Is(err, apperrors.ErrConfigInvalid))
	})

	t.Run("debería rechazar TOML inválido", func(t *testing.T) {
		clearTokenEnv(t)
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[cache\nbackend ="), 0o600))

		_, err := Load(path)

		assert.True(t, errors.Is(err, apperrors.ErrConfigInvalid))
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"idioma no soportado", func(c *Config) { c.Language = "fr" }},
		{"límite cero", func(c *Config) { c.DefaultLimit = 0 }},
		{"límite excesivo", func(c *Config) { c.DefaultLimit = 1001 }},
		{"backend desconocido", func(c *Config) { c.Cache.Backend = "redis" }},
		{"ttl no positivo", func(c *Config) { c.Cache.TTL = Duration{} }},
		{"tamaño de cache cero", func(c *Config) { c.Cache.MaxEntries = 0 }},
		{"peso negativo", func(c *Config) { c.Weights.Docs = -0.1 }},
		{"rate limit cero", func(c *Config) { c.Server.ClientRatePerMinute = 0 }},
		{"github app incompleta", func(c *Config) { c.GitHubApp.AppID = 42 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			assert.True(t, errors.Is(cfg.Validate(), apperrors.ErrConfigInvalid))
		})
	}

	t.Run("debería aceptar pesos que no suman uno", func(t *testing.T) {
		cfg := Default()
		cfg.Weights.Lines = 3

		assert.NoError(t, cfg.Validate())
	})

	t.Run("debería permitir cache none sin ttl", func(t *testing.T) {
		cfg := Default()
		cfg.Cache.Backend = CacheNone
		cfg.Cache.TTL = Duration{}

		assert.NoError(t, cfg.Validate())
	})
}

func TestSave(t *testing.T) {
	t.Run("debería fallar sin ruta", func(t *testing.T) {
		err := Save(Default())

		assert.True(t, errors.Is(err, apperrors.ErrConfigMissing))
	})

	t.Run("debería guardar y volver a leer", func(t *testing.T) {
		// Arrange
		clearTokenEnv(t)
		cfg := Default()
		cfg.PathFile = filepath.Join(t.TempDir(), "nested", "config.toml")
		cfg.Server.Addr = "127.0.0.1:9090"
		cfg.Cache.TTL = Duration{time.Hour}

		// Act
		require.NoError(t, Save(cfg))
		loaded, err := Load(cfg.PathFile)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:9090", loaded.Server.Addr)
		assert.Equal(t, time.Hour, loaded.Cache.TTL.Duration)
	})
}

func TestSet(t *testing.T) {
	t.Run("should set values of every kind", func(t *testing.T) {
		// Arrange
		cfg := Default()

		// Act
		require.NoError(t, cfg.Set("language", "es"))
		require.NoError(t, cfg.Set("default_limit", "200"))
		require.NoError(t, cfg.Set("cache.ttl", "10m"))
		require.NoError(t, cfg.Set("filters.hold_labels", "frozen, parked"))
		require.NoError(t, cfg.Set("filters.exclude_drafts", "false"))
		require.NoError(t, cfg.Set("weights.cross_cutting", "0.2"))
		require.NoError(t, cfg.Set("github_app.app_id", "0"))

		// Assert
		assert.Equal(t, "es", cfg.Language)
		assert.Equal(t, 200, cfg.DefaultLimit)
		assert.Equal(t, 10*time.Minute, cfg.Cache.TTL.Duration)
		assert.Equal(t, []string{"frozen", "parked"}, cfg.Filters.HoldLabels)
		assert.False(t, cfg.Filters.ExcludeDrafts)
		assert.Equal(t, 0.2, cfg.Weights.CrossCutting)
	})

	t.Run("should reject unknown keys", func(t *testing.T) {
		err := Default().Set("gemini_api_key", "x")

		assert.True(t, errors.Is(err, apperrors.ErrUnknownConfigKey))
	})

	t.Run("should leave the config untouched on invalid values", func(t *testing.T) {
		// Arrange
		cfg := Default()

		// Act
		errParse := cfg.Set("default_limit", "many")
		errRange := cfg.Set("default_limit", "5000")

		// Assert
		assert.True(t, errors.Is(errParse, apperrors.ErrConfigInvalid))
		assert.True(t, errors.Is(errRange, apperrors.ErrConfigInvalid))
		assert.Equal(t, 50, cfg.DefaultLimit)
	})

	t.Run("should list sorted keys", func(t *testing.T) {
		keys := Keys()

		assert.Contains(t, keys, "weights.lines")
		assert.IsIncreasing(t, keys)
	})
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "*****", MaskSecret("short"))
	assert.Equal(t, "ghp_************7890", MaskSecret("ghp_abcdefghijkl7890"))
}

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, LangES, NormalizeLanguage("es-AR"))
	assert.Equal(t, LangEN, NormalizeLanguage("en_US"))
	assert.Equal(t, LangEN, NormalizeLanguage("pt"))
	assert.Equal(t, LangEN, NormalizeLanguage(""))
}
