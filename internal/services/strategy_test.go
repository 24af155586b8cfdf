package services

import (
	"context"
	"errors"
	"testing"

	"gatehouse/internal/apperrors"
	"gatehouse/internal/logger"

	"github.com/stretchr/testify/assert"
)

func TestTryInOrder(t *testing.T) {
	log := logger.New("test")

	t.Run("first strategy wins", func(t *testing.T) {
		result, err := TryInOrder(context.Background(), log,
			Strategy[string]{Name: "first", Run: func(ctx context.Context) (string, error) {
				return "a", nil
			}},
			Strategy[string]{Name: "second", Run: func(ctx context.Context) (string, error) {
				t.Fatal("second strategy should not run")
				return "", nil
			}},
		)
		assert.NoError(t, err)
		assert.Equal(t, "a", result)
	})

	t.Run("not found falls through to next", func(t *testing.T) {
		result, err := TryInOrder(context.Background(), log,
			Strategy[string]{Name: "first", Run: func(ctx context.Context) (string, error) {
				return "", apperrors.NotFound("nope")
			}},
			Strategy[string]{Name: "second", Run: func(ctx context.Context) (string, error) {
				return "b", nil
			}},
		)
		assert.NoError(t, err)
		assert.Equal(t, "b", result)
	})

	t.Run("hard error aborts the chain", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := TryInOrder(context.Background(), log,
			Strategy[string]{Name: "first", Run: func(ctx context.Context) (string, error) {
				return "", boom
			}},
			Strategy[string]{Name: "second", Run: func(ctx context.Context) (string, error) {
				t.Fatal("second strategy should not run after hard error")
				return "", nil
			}},
		)
		assert.Error(t, err)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("all exhausted returns not found", func(t *testing.T) {
		_, err := TryInOrder(context.Background(), log,
			Strategy[int]{Name: "only", Run: func(ctx context.Context) (int, error) {
				return 0, apperrors.NotFound("nope")
			}},
		)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
