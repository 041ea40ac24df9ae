package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"create customers table", "create_customers_table"},
		{"Add-Email-Index", "add_email_index"},
		{"add__credit__check", "add_credit_check"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")

	mf, err := CreateMigration(dir, "add customer notes", "Free-text notes per customer")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14)
	assert.Equal(t, mf.Version+"_add_customer_notes.up.sql", filepath.Base(mf.UpPath))
	assert.Equal(t, mf.Version+"_add_customer_notes.down.sql", filepath.Base(mf.DownPath))

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(up), "-- add customer notes\n"))
	assert.Contains(t, string(up), "-- Free-text notes per customer")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(rollback)")
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory is empty", func(t *testing.T) {
		names, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("lists up files in version order", func(t *testing.T) {
		dir := t.TempDir()
		for _, f := range []string{
			"20250201000000_b.up.sql", "20250201000000_b.down.sql",
			"20250101000000_a.up.sql", "20250101000000_a.down.sql",
			"README.md",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
		}

		names, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"20250101000000_a", "20250201000000_b"}, names)
	})

	t.Run("the shipped migrations are paired", func(t *testing.T) {
		dir := filepath.Join("..", "..", "..", "migrations")
		names, err := ListMigrations(dir)
		require.NoError(t, err)
		require.NotEmpty(t, names)
		for _, name := range names {
			assert.FileExists(t, filepath.Join(dir, name+".down.sql"))
		}
	})
}
