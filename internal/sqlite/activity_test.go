package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rdlittle/contractor/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	entry1 := &activity.ActivityEntry{
		InvoiceID:    1,
		ActivityType: activity.TypeInvoiceCreated,
		Summary:      "created invoice 1",
		CreatedAt:    base,
	}
	entry2 := &activity.ActivityEntry{
		InvoiceID:    1,
		ActivityType: activity.TypeEntryAdded,
		Summary:      "added entry 3",
		Details:      `{"hours":"2"}`,
		CreatedAt:    base.Add(time.Minute),
	}

	require.NoError(t, repo.Log(ctx, entry1))
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)

	entries, err := repo.List(ctx, activity.ListActivityOptions{InvoiceID: 1})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.ActivityType, entries[0].ActivityType)
	require.Equal(t, entry1.ActivityType, entries[1].ActivityType)
	require.Equal(t, `{"hours":"2"}`, entries[0].Details)
}

func TestActivityRepository_FiltersByInvoiceAndType(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{InvoiceID: 1, ActivityType: activity.TypeInvoiceClosed, Summary: "closed"}))
	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{InvoiceID: 1, ActivityType: activity.TypeInvoiceSent, Summary: "sent"}))
	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{InvoiceID: 2, ActivityType: activity.TypeInvoiceClosed, Summary: "closed"}))

	closed := activity.TypeInvoiceClosed
	entries, err := repo.List(ctx, activity.ListActivityOptions{InvoiceID: 1, ActivityType: &closed})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, activity.ListActivityOptions{InvoiceID: 3})
	require.NoError(t, err)
	require.Empty(t, entries)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
