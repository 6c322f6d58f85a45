package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/app"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
	"github.com/aussiebroadwan/tenantgate/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestHashPassword(t *testing.T) {
	pepper := filepath.Join(t.TempDir(), "pepper")

	out, err := run(t, "", "hash-password", "--pepper-file", pepper, "s3cret")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))
	require.NoError(t, cryptox.VerifyPassword("s3cret", hash))

	out, err = run(t, "from-stdin\n", "hash-password", "--pepper-file", pepper)
	require.NoError(t, err)
	require.NoError(t, cryptox.VerifyPassword("from-stdin", strings.TrimSpace(out)))

	out, err = run(t, "", "hash-password", "--pepper-file", pepper, "--generate")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	require.NoError(t, cryptox.VerifyPassword(lines[0], lines[1]))

	_, err = run(t, "", "hash-password", "--pepper-file", pepper)
	require.Error(t, err, "empty stdin")
}

func TestMigrateAndUserAdd(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "gateway.db")
	pepper := filepath.Join(dir, "pepper")

	out, err := run(t, "", "migrate", "--db", db)
	require.NoError(t, err)
	require.Contains(t, out, "migrations applied")

	out, err = run(t, "", "user", "add", "alice", "--db", db, "--pepper-file", pepper,
		"--tenant", "42", "--role", "Admin", "--password", "pw-alice")
	require.NoError(t, err)
	require.Contains(t, out, "in tenant 42")
	require.NotContains(t, out, "password:")

	_, err = run(t, "", "user", "add", "alice", "--db", db, "--pepper-file", pepper, "--password", "x")
	require.Error(t, err, "usernames are unique")

	out, err = run(t, "", "user", "add", "bob", "--db", db, "--pepper-file", pepper)
	require.NoError(t, err)
	require.Contains(t, out, "password: ")
	require.Contains(t, out, "in tenant default")

	st, err := app.OpenStore(db)
	require.NoError(t, err)
	defer st.Close()

	u, err := st.Users().GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, domain.TenantID("42"), u.TenantID)
	require.Equal(t, domain.RoleAdmin, u.Role)
	require.Len(t, u.ID, 26)
	require.NoError(t, cryptox.VerifyPassword("pw-alice", u.PasswordHash))
}
