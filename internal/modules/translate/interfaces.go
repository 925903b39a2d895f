package translate

import (
	"context"

	"github.com/google/uuid"

	"unitra/internal/domain"
)

// EngineResult is a single translation from the MT engine.
type EngineResult struct {
	Translation    string
	TokensUsed     int64
	LatencyMS      float64
	ProcessingMode string
}

// EngineBatchResult is a batch translation from the MT engine.
type EngineBatchResult struct {
	Translations   []string
	TotalTokens    int64
	LatencyMS      float64
	ProcessingMode string
}

// Engine is the external machine-translation collaborator. Translation
// computation itself is out of scope here; we only call it.
type Engine interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (*EngineResult, error)
	TranslateBatch(ctx context.Context, texts []string, sourceLang, targetLang string) (*EngineBatchResult, error)
}

// UsageLogStore persists durable usage records and serves history reads.
type UsageLogStore interface {
	Create(ctx context.Context, l *domain.UsageLog) error
	RecentByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]domain.UsageLog, error)
}
