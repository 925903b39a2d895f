package translate

import "time"

type TranslateRequest struct {
	Text       string `json:"text" binding:"required,max=512"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang" binding:"required"`
}

type TranslateResponse struct {
	TranslatedText string  `json:"translated_text"`
	SourceLang     string  `json:"source_lang"`
	TargetLang     string  `json:"target_lang"`
	TokensUsed     int64   `json:"tokens_used"`
	LatencyMS      float64 `json:"latency_ms"`
	ProcessingMode string  `json:"processing_mode"`
}

type BatchTranslateRequest struct {
	Texts      []string `json:"texts" binding:"required,min=1,max=16,dive,required,max=512"`
	SourceLang string   `json:"source_lang"`
	TargetLang string   `json:"target_lang" binding:"required"`
}

type BatchTranslateResponse struct {
	Translations   []string `json:"translations"`
	SourceLang     string   `json:"source_lang"`
	TargetLang     string   `json:"target_lang"`
	TotalTokens    int64    `json:"total_tokens"`
	TotalLatencyMS float64  `json:"total_latency_ms"`
	ProcessingMode string   `json:"processing_mode"`
}

type LanguageInfo struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Priority bool   `json:"priority"`
}

type LanguagesResponse struct {
	PriorityLanguages []LanguageInfo `json:"priority_languages"`
	ExtendedLanguages []LanguageInfo `json:"extended_languages"`
	TotalSupported    int            `json:"total_supported"`
}

type HistoryEntry struct {
	TokensUsed     int64     `json:"tokens_used"`
	SourceLang     string    `json:"source_lang"`
	TargetLang     string    `json:"target_lang"`
	ProcessingMode string    `json:"processing_mode"`
	CreatedAt      time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

type UsageResponse struct {
	TokensUsedThisWeek     int64 `json:"tokens_used_this_week"`
	TokensLimit            int64 `json:"tokens_limit"`
	TokensRemaining        int64 `json:"tokens_remaining"`
	RequestsPerMinuteLimit int   `json:"requests_per_minute_limit"`
}
