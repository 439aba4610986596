package service

import (
	"context"

	"StockScope/internal/domain/models"
)

// Decomposer splits a series into trend, seasonal and residual components.
type Decomposer interface {
	Decompose(ctx context.Context, values []float64, period int) (models.Decomposition, error)
}
