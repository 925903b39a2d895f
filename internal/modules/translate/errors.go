package translate

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientTier  = errors.New("tier does not allow cloud translation")
	ErrEngineUnavailable = errors.New("translation engine unavailable")
)

// InvalidLanguageError reports an unsupported or unusable language code.
type InvalidLanguageError struct {
	Lang   string
	Reason string
}

func (e *InvalidLanguageError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid language %q: %s", e.Lang, e.Reason)
	}
	return fmt.Sprintf("invalid language code: %q", e.Lang)
}

// QuotaExceededError reports that a request would push the weekly
// accumulator past the tier ceiling.
type QuotaExceededError struct {
	Limit int64
	Used  int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("weekly usage limit exceeded: used %d of %d", e.Used, e.Limit)
}
