package checkstore

import (
	"context"
	"testing"
	"time"

	"stocksnoop/lib/checkstore/db"
	"stocksnoop/lib/scrapers/shopify"
	"stocksnoop/lib/testutil"

	"github.com/stretchr/testify/require"
)

func TestPushAndHistory(t *testing.T) {
	service, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "checkstore",
		DbSchema: db.Schema,
	})
	defer cleanup()

	store := NewStore(service.DB)
	ctx := context.Background()

	first := time.Unix(1700000000, 0)
	err := store.Push(ctx, PushRequest{
		Time:  first,
		RunId: "run1",
		Checks: []shopify.CheckResult{
			{
				Handle: "atlas-ii",
				Url:    "https://shop.example.com/products/atlas-ii",
				Status: shopify.StatusSoldOut,
			},
			{
				Handle: "overlord",
				Url:    "https://shop.example.com/products/overlord",
				Status: shopify.StatusUnknown,
				Detail: "unreachable (HTTP 503)",
			},
		},
	})
	require.NoError(t, err)

	second := first.Add(time.Hour)
	err = store.Push(ctx, PushRequest{
		Time:  second,
		RunId: "run2",
		Checks: []shopify.CheckResult{
			{
				Handle: "atlas-ii",
				Url:    "https://shop.example.com/products/atlas-ii",
				Status: shopify.StatusAvailable,
			},
		},
	})
	require.NoError(t, err)

	checks, err := store.History(ctx, "atlas-ii", 10)
	require.NoError(t, err)
	require.Len(t, checks, 2)
	require.Equal(t, "run2", checks[0].RunId)
	require.Equal(t, shopify.StatusAvailable, checks[0].Status)
	require.Equal(t, second.Unix(), checks[0].CheckedAt.Unix())
	require.Equal(t, "run1", checks[1].RunId)
	require.Equal(t, shopify.StatusSoldOut, checks[1].Status)

	checks, err = store.History(ctx, "overlord", 10)
	require.NoError(t, err)
	require.Len(t, checks, 1)
	require.Equal(t, "unreachable (HTTP 503)", checks[0].Detail)

	handles, err := store.Handles(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"atlas-ii", "overlord"}, handles)
}

func TestHistoryLimit(t *testing.T) {
	service, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "checkstore",
		DbSchema: db.Schema,
	})
	defer cleanup()

	store := NewStore(service.DB)
	ctx := context.Background()

	base := time.Unix(1700000000, 0)
	for i := 0; i < 5; i++ {
		err := store.Push(ctx, PushRequest{
			Time:  base.Add(time.Duration(i) * time.Hour),
			RunId: "run",
			Checks: []shopify.CheckResult{
				{Handle: "atlas-ii", Status: shopify.StatusSoldOut},
			},
		})
		require.NoError(t, err)
	}

	checks, err := store.History(ctx, "atlas-ii", 3)
	require.NoError(t, err)
	require.Len(t, checks, 3)
	require.Equal(t, base.Add(4*time.Hour).Unix(), checks[0].CheckedAt.Unix())
}
