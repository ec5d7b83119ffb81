package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse-io/gatehouse/internal/app"
	"github.com/gatehouse-io/gatehouse/internal/auth"
	"github.com/gatehouse-io/gatehouse/internal/content"
)

// fakeExecer honours the ON CONFLICT DO NOTHING contract: a repeated key
// leaves the row untouched instead of duplicating it.
type fakeExecer struct {
	userRows     map[string][]any
	resourceRows map[string]struct{}
}

func newFakeExecer() *fakeExecer {
	return &fakeExecer{
		userRows:     make(map[string][]any),
		resourceRows: make(map[string]struct{}),
	}
}

func (f *fakeExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	switch {
	case strings.Contains(sql, "INSERT INTO users"):
		email := args[1].(string)
		if _, ok := f.userRows[email]; !ok {
			f.userRows[email] = args
		}
	case strings.Contains(sql, "INSERT INTO resources"):
		f.resourceRows[args[0].(string)] = struct{}{}
	}
	return pgconn.CommandTag{}, nil
}

func testConfig() *app.Config {
	return &app.Config{
		SuperadminEmail:    "root@gatehouse.local",
		SuperadminPassword: "rootpass123",
	}
}

func TestRunSeedsSuperadminAndDefaultResources(t *testing.T) {
	db := newFakeExecer()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, Run(context.Background(), db, auth.NewHasher(), testConfig(), logger))

	require.Len(t, db.userRows, 1)
	row := db.userRows["root@gatehouse.local"]
	assert.Equal(t, "superadmin", row[3])
	digest := row[2].(string)
	assert.NotEqual(t, "rootpass123", digest)
	assert.True(t, auth.NewHasher().Verify("rootpass123", digest))

	assert.Len(t, db.resourceRows, len(content.ResourceNames()))
	for _, name := range content.ResourceNames() {
		_, ok := db.resourceRows[name]
		assert.True(t, ok, "resource %s", name)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	db := newFakeExecer()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig()

	require.NoError(t, Run(context.Background(), db, auth.NewHasher(), cfg, logger))
	firstRow := db.userRows["root@gatehouse.local"]

	require.NoError(t, Run(context.Background(), db, auth.NewHasher(), cfg, logger))

	assert.Len(t, db.userRows, 1)
	assert.Len(t, db.resourceRows, len(content.ResourceNames()))
	// The second run must not have replaced the existing account row.
	assert.Equal(t, firstRow, db.userRows["root@gatehouse.local"])
}
