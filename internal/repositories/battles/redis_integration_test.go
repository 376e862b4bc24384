package battles_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/KirkDiggler/battle-engine/internal/errors"
	"github.com/KirkDiggler/battle-engine/internal/repositories/battles"
	"github.com/KirkDiggler/battle-engine/internal/testutils"
)

func TestRedisRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	client := testutils.StartRedisContainer(t)
	repo := battles.NewRedis(client, battles.SystemTimeProvider())
	ctx := context.Background()

	for _, id := range []string{"b", "a"} {
		err := repo.Save(ctx, &battles.Snapshot{
			ID:   id,
			Turn: 3,
			Entities: []battles.EntitySnapshot{
				{ID: "hero", Name: "Hero", Side: "player", HP: 40, MaxHP: 105, Alive: true, Stages: map[string]int{"attack": 2}},
			},
		})
		require.NoError(t, err)
	}

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Turn)
	assert.Equal(t, 2, got.Entities[0].Stages["attack"])
	assert.False(t, got.UpdatedAt.IsZero())

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)

	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.Get(ctx, "a")
	assert.True(t, apperr.IsNotFound(err))

	all, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
