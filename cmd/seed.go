package cmd

import (
	"context"
	"fmt"

	"movie-catalog/internal/usecase"

	"go.uber.org/zap"
)

// Seed loads the admin account and the demo catalog.
func Seed(ctx context.Context, service usecase.SeedService, logger *zap.Logger) error {
	result, err := service.Seed(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	fmt.Printf("Seeded catalog: %d created, %d updated (admin created: %t)\n",
		result.Created, result.Updated, result.AdminCreated)
	logger.Debug("Seed command done")
	return nil
}
