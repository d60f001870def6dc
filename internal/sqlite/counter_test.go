package sqlite

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/rdlittle/contractor/internal/domain/sequence"
	"github.com/rdlittle/contractor/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestCounterRepository_NextReturnsCurrentAndAdvances(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCounterRepository(db)

	created, err := repo.Provision(ctx, sequence.Invoice, 42)
	require.NoError(t, err)
	require.True(t, created)

	value, err := repo.Next(ctx, sequence.Invoice)
	require.NoError(t, err)
	require.Equal(t, int64(42), value)

	counters, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []sequence.Counter{{Name: sequence.Invoice, Next: 43}}, counters)
}

func TestCounterRepository_NextMissing(t *testing.T) {
	db := NewTestDB(t)
	_, err := NewCounterRepository(db).Next(context.Background(), "widget")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCounterRepository_ProvisionKeepsExisting(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCounterRepository(db)

	_, err := repo.Provision(ctx, sequence.Client, 1)
	require.NoError(t, err)
	_, err = repo.Next(ctx, sequence.Client)
	require.NoError(t, err)

	created, err := repo.Provision(ctx, sequence.Client, 1)
	require.NoError(t, err)
	require.False(t, created)

	value, err := repo.Next(ctx, sequence.Client)
	require.NoError(t, err)
	require.Equal(t, int64(2), value)
}

func TestCounterRepository_Set(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCounterRepository(db)

	require.ErrorIs(t, repo.Set(ctx, sequence.Period, 10), repository.ErrNotFound)

	_, err := repo.Provision(ctx, sequence.Period, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Set(ctx, sequence.Period, 500))

	value, err := repo.Next(ctx, sequence.Period)
	require.NoError(t, err)
	require.Equal(t, int64(500), value)
}

func TestCounterRepository_ConcurrentNextNeverDuplicates(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCounterRepository(db)
	_, err := repo.Provision(ctx, sequence.Timesheet, 1000)
	require.NoError(t, err)

	const workers, perWorker = 8, 25
	var (
		mu     sync.Mutex
		values []int64
		wg     sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				v, err := repo.Next(ctx, sequence.Timesheet)
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				values = append(values, v)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, values, workers*perWorker)
	slices.Sort(values)
	for i, v := range values {
		require.Equal(t, int64(1000+i), v)
	}
}

func TestCounterRepository_CountersAreIndependent(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCounterRepository(db)
	for _, name := range sequence.Names {
		_, err := repo.Provision(ctx, name, 1)
		require.NoError(t, err)
	}

	a, err := repo.Next(ctx, sequence.Invoice)
	require.NoError(t, err)
	b, err := repo.Next(ctx, sequence.Period)
	require.NoError(t, err)
	require.Equal(t, a, b)
}
