package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("APP_ENV", "")
	c := FromEnv()
	assert.Equal(t, "file", c.DBType)
	assert.Equal(t, "development", c.Env)
	assert.NotEmpty(t, c.DefaultTitle)
	assert.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		t.Setenv("APP_ENV", "development")
		return FromEnv()
	}

	c := base()
	c.DBType = "postgres"
	assert.Error(t, c.Validate())
	c.DBDSN = "postgres://localhost/hiit"
	assert.NoError(t, c.Validate())

	c = base()
	c.DBType = "sqlite"
	c.SQLitePath = ""
	assert.Error(t, c.Validate())

	c = base()
	c.DBType = "mongo"
	assert.Error(t, c.Validate())

	c = base()
	c.Env = "production"
	c.AuthServiceURL = ""
	assert.Error(t, c.Validate())
	c.AuthServiceURL = "https://auth.example.com/validate"
	assert.NoError(t, c.Validate())
}
