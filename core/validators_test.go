package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStruct(t *testing.T) {
	type entry struct {
		Name     string `field:"name" validate:"required"`
		Username string `field:"username" validate:"required,alphanum_"`
	}

	tests := []struct {
		name    string
		entry   entry
		wantErr string
	}{
		{name: "valid", entry: entry{Name: "Alice", Username: "alice_1"}},
		{name: "missing name", entry: entry{Username: "alice1"}, wantErr: "name: name is required"},
		{name: "bad username", entry: entry{Name: "Alice", Username: "alice-1"}, wantErr: "username: username must only contain alphanumeric characters and underscores"},
		{
			name:    "both",
			entry:   entry{},
			wantErr: "name: name is required; username: username is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckStruct(tt.entry)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Alice", CleanString("  Alice \t"))
	assert.Equal(t, "alice", CleanString(" ALICE ", true))
}
