//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloo-solutions/faqrag/internal/testutil"
)

func newIntegrationPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()

	pc := testutil.NewPostgresContainer(ctx, t)
	t.Cleanup(func() { pc.Terminate(ctx) })

	return testutil.NewTestPool(ctx, t, pc, "../../migrations")
}
