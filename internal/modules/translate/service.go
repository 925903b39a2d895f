package translate

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"unitra/internal/domain"
	"unitra/internal/pkg/limits"
	"unitra/internal/pkg/quota"
)

// Service runs the quota-guarded translation flow. The gate has already
// authenticated and rate limited the request; this layer adds the tier
// feature check, the quota pre-check with a token estimate, the engine call,
// and consumption reporting after completion.
type Service struct {
	engine    Engine
	tracker   *quota.Tracker
	usageLogs UsageLogStore
	failOpen  bool
	now       func() time.Time
}

func NewService(engine Engine, tracker *quota.Tracker, usageLogs UsageLogStore, failOpen bool) *Service {
	return &Service{
		engine:    engine,
		tracker:   tracker,
		usageLogs: usageLogs,
		failOpen:  failOpen,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Translate(ctx context.Context, userID uuid.UUID, tier string, req TranslateRequest) (*TranslateResponse, error) {
	src, tgt, err := normalizePair(req.SourceLang, req.TargetLang)
	if err != nil {
		return nil, err
	}

	estimate := estimateTokens(len(req.Text), 1)
	if err := s.precheck(ctx, userID, tier, estimate); err != nil {
		return nil, err
	}

	result, err := s.engine.Translate(ctx, req.Text, src, tgt)
	if err != nil {
		return nil, err
	}

	s.recordUsage(ctx, userID, tier, result.TokensUsed, src, tgt, result.ProcessingMode)

	return &TranslateResponse{
		TranslatedText: result.Translation,
		SourceLang:     src,
		TargetLang:     tgt,
		TokensUsed:     result.TokensUsed,
		LatencyMS:      result.LatencyMS,
		ProcessingMode: result.ProcessingMode,
	}, nil
}

func (s *Service) TranslateBatch(ctx context.Context, userID uuid.UUID, tier string, req BatchTranslateRequest) (*BatchTranslateResponse, error) {
	for _, text := range req.Texts {
		if len(text) == 0 {
			return nil, &InvalidLanguageError{Lang: "", Reason: "empty text in batch"}
		}
	}

	src, tgt, err := normalizePair(req.SourceLang, req.TargetLang)
	if err != nil {
		return nil, err
	}

	totalChars := 0
	for _, t := range req.Texts {
		totalChars += len(t)
	}
	estimate := estimateTokens(totalChars, len(req.Texts))
	if err := s.precheck(ctx, userID, tier, estimate); err != nil {
		return nil, err
	}

	result, err := s.engine.TranslateBatch(ctx, req.Texts, src, tgt)
	if err != nil {
		return nil, err
	}

	s.recordUsage(ctx, userID, tier, result.TotalTokens, src, tgt, result.ProcessingMode)

	return &BatchTranslateResponse{
		Translations:   result.Translations,
		SourceLang:     src,
		TargetLang:     tgt,
		TotalTokens:    result.TotalTokens,
		TotalLatencyMS: result.LatencyMS,
		ProcessingMode: result.ProcessingMode,
	}, nil
}

// Usage reports the live weekly accumulator against the tier ceiling.
func (s *Service) Usage(ctx context.Context, userID uuid.UUID, tier string) (*UsageResponse, error) {
	l := limits.ForTier(tier)
	used, err := s.tracker.Peek(ctx, userID.String(), quota.WeekKey(s.now()))
	if err != nil {
		return nil, err
	}
	return &UsageResponse{
		TokensUsedThisWeek:     used,
		TokensLimit:            l.TokensPerWeek,
		TokensRemaining:        quota.Remaining(used, l.TokensPerWeek),
		RequestsPerMinuteLimit: l.RequestsPerMinute,
	}, nil
}

// History returns the user's newest usage records from the durable log.
func (s *Service) History(ctx context.Context, userID uuid.UUID, limit int) (*HistoryResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	logs, err := s.usageLogs.RecentByUserID(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	resp := &HistoryResponse{Entries: make([]HistoryEntry, 0, len(logs))}
	for _, l := range logs {
		resp.Entries = append(resp.Entries, HistoryEntry{
			TokensUsed:     l.TokensUsed,
			SourceLang:     l.SourceLang,
			TargetLang:     l.TargetLang,
			ProcessingMode: l.ProcessingMode,
			CreatedAt:      l.CreatedAt,
		})
	}
	return resp, nil
}

// Languages lists the supported language catalogue.
func (s *Service) Languages() *LanguagesResponse {
	resp := &LanguagesResponse{}
	for code, name := range priorityLanguages {
		resp.PriorityLanguages = append(resp.PriorityLanguages, LanguageInfo{Code: code, Name: name, Priority: true})
	}
	for code, name := range extendedLanguages {
		resp.ExtendedLanguages = append(resp.ExtendedLanguages, LanguageInfo{Code: code, Name: name})
	}
	resp.TotalSupported = len(priorityLanguages) + len(extendedLanguages)
	return resp
}

// precheck rejects before dispatch when the tier forbids cloud MT or the
// estimated tokens would blow the weekly ceiling. The authoritative charge
// happens after completion with the engine's real token count.
func (s *Service) precheck(ctx context.Context, userID uuid.UUID, tier string, estimate int64) error {
	l := limits.ForTier(tier)
	if !l.CloudMTAllowed {
		return ErrInsufficientTier
	}
	if l.TokensPerWeek == limits.Unlimited {
		return nil
	}

	used, err := s.tracker.Peek(ctx, userID.String(), quota.WeekKey(s.now()))
	if err != nil {
		if s.failOpen {
			return nil
		}
		return err
	}
	if used+estimate > l.TokensPerWeek {
		return &QuotaExceededError{Limit: l.TokensPerWeek, Used: used}
	}
	return nil
}

// recordUsage charges the completed request. The request already finished
// successfully, so failures here are logged, not surfaced: the next
// request's precheck picks up whatever was recorded.
func (s *Service) recordUsage(ctx context.Context, userID uuid.UUID, tier string, tokens int64, src, tgt, mode string) {
	ceiling := limits.ForTier(tier).TokensPerWeek
	if _, _, err := s.tracker.Consume(ctx, userID.String(), quota.WeekKey(s.now()), tokens, ceiling); err != nil {
		log.Printf("warn: failed to record usage for user %s: %v", userID, err)
	}

	if err := s.usageLogs.Create(ctx, &domain.UsageLog{
		UserID:         userID,
		TokensUsed:     tokens,
		SourceLang:     src,
		TargetLang:     tgt,
		ProcessingMode: mode,
	}); err != nil {
		log.Printf("warn: failed to persist usage log for user %s: %v", userID, err)
	}
}

func normalizePair(srcRaw, tgtRaw string) (string, string, error) {
	if srcRaw == "" {
		srcRaw = "en"
	}
	src, err := NormalizeLanguage(srcRaw)
	if err != nil {
		return "", "", err
	}
	tgt, err := NormalizeLanguage(tgtRaw)
	if err != nil {
		return "", "", err
	}
	if src == tgt {
		return "", "", &InvalidLanguageError{Lang: src, Reason: "source and target languages must be different"}
	}
	return src, tgt, nil
}

// estimateTokens approximates cost before the engine reports the real
// count: one token per four characters, floor of ten per text.
func estimateTokens(chars, texts int) int64 {
	estimate := int64(chars / 4)
	floor := int64(10 * texts)
	if estimate < floor {
		return floor
	}
	return estimate
}
