package core

import (
	"os"
	"path/filepath"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("ENV", "")

		conf, err := NewConfig("")
		require.NoError(t, err)
		assert.Equal(t, "DEV", conf.Env)
		assert.True(t, conf.Debug)
		assert.Equal(t, "postgres", conf.Database.Engine)
		assert.Equal(t, "localhost:5432", conf.Database.Address())
		assert.Equal(t, 19, conf.Packet.StartHour)
		assert.Equal(t, 21, conf.Packet.EndHour)
		assert.Equal(t, 14, conf.Packet.DurationDays)
		assert.Equal(t, 15, conf.Packet.RequiredMiscSignatures)
		assert.Equal(t, "America/New_York", conf.Location().String())
		assert.Equal(t, "packet@csh.rit.edu", conf.DefaultFromEmail().Address)
		assert.Equal(t, "CSH Packet", conf.DefaultFromEmail().Name)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("ENV", "test")
		t.Setenv("TEST_DATABASE_ENGINE", "sqlite")
		t.Setenv("TEST_PACKET_URL", "https://packet.example.com/")
		t.Setenv("TEST_TIMEZONE", "UTC")

		conf, err := NewConfig("")
		require.NoError(t, err)
		assert.Equal(t, "TEST", conf.Env)
		assert.True(t, conf.TestMode)
		assert.Equal(t, "sqlite", conf.Database.Engine)
		assert.Equal(t, "https://packet.example.com", conf.Packet.URL)
		assert.Equal(t, "UTC", conf.Location().String())
	})

	t.Run("prod", func(t *testing.T) {
		t.Setenv("ENV", "prod")

		conf, err := NewConfig("")
		require.NoError(t, err)
		assert.False(t, conf.Debug)
	})

	t.Run("config file", func(t *testing.T) {
		t.Setenv("ENV", "")
		path := filepath.Join(t.TempDir(), "packet.yaml")
		require.NoError(t, os.WriteFile(path, []byte("packet:\n  durationDays: 7\n  requiredMiscSignatures: 10\n"), 0o600))

		conf, err := NewConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 7, conf.Packet.DurationDays)
		assert.Equal(t, 10, conf.Packet.RequiredMiscSignatures)
	})

	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "missing config file", wantErr: "reading config file"},
		{name: "bad engine", env: map[string]string{"DEV_DATABASE_ENGINE": "mysql"}, wantErr: `unsupported database engine "mysql"`},
		{name: "bad timezone", env: map[string]string{"DEV_TIMEZONE": "Mars/Olympus"}, wantErr: "loading timezone"},
		{name: "bad hour", env: map[string]string{"DEV_PACKET_STARTHOUR": "24"}, wantErr: "packet start and end hours must be within 0-23"},
		{name: "bad duration", env: map[string]string{"DEV_PACKET_DURATIONDAYS": "0"}, wantErr: "packet duration must be at least one day"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENV", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			configFile := ""
			if tt.env == nil {
				configFile = filepath.Join(t.TempDir(), "missing.yaml")
			}

			_, err := NewConfig(configFile)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
