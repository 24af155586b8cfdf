package services

import (
	"context"
	"errors"

	"gatehouse/internal/apperrors"
	"gatehouse/internal/logger"
)

// Strategy is one lookup attempt in an ordered fallback chain.
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// TryInOrder runs strategies until one succeeds, logging which strategy
// produced the result. NotFound from a strategy means "try the next one";
// any other error aborts the chain. All strategies exhausted returns
// NotFound.
func TryInOrder[T any](ctx context.Context, log logger.Logger, strategies ...Strategy[T]) (T, error) {
	var zero T

	for _, strategy := range strategies {
		result, err := strategy.Run(ctx)
		if err == nil {
			log.Debug("strategy succeeded", "strategy", strategy.Name)
			return result, nil
		}
		if !isNotFound(err) {
			return zero, log.Err("strategy failed", err, "strategy", strategy.Name)
		}
	}

	return zero, apperrors.NotFound("all strategies exhausted")
}

func isNotFound(err error) bool {
	return err != nil && errors.Is(err, apperrors.ErrNotFound)
}
