package interfaces

import (
	"context"

	"github.com/Buchara777/AI-Adventure/shared/models"
)

// Relay is the only path from the game to the language model.
// Implementations return *models.TurnError for every failure.
type Relay interface {
	// Continue extends the story with the player's action.
	Continue(ctx context.Context, req models.ContinuationRequest) (*models.ContinuationResult, error)
	// Seed generates a standalone start condition, optionally based on a hint.
	Seed(ctx context.Context, req models.SeedRequest) (*models.SeedResult, error)
}
