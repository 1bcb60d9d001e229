package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/apperrors"
)

// MaxSymbolsPerRequest is the batch ceiling enforced on the price surface.
const MaxSymbolsPerRequest = 50

// symbolPattern accepts common ticker shapes: letters first, then optional
// digits, dots, or dashes (BRK.B, BF-B).
var symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// ParseSymbols validates and normalizes a caller-supplied symbol list.
// Symbols are case-insensitive and normalized to uppercase; duplicates are
// preserved here (the scheduler deduplicates) but the ceiling applies to the
// raw list. Rejection happens before any upstream work is attempted.
func ParseSymbols(raw []string) ([]string, error) {
	symbols := make([]string, 0, len(raw))

	for _, part := range raw {
		for _, s := range strings.Split(part, ",") {
			s = strings.ToUpper(strings.TrimSpace(s))
			if s == "" {
				continue
			}
			symbols = append(symbols, s)
		}
	}

	if len(symbols) == 0 {
		return nil, apperrors.ErrEmptySymbolList
	}
	if len(symbols) > MaxSymbolsPerRequest {
		return nil, fmt.Errorf("%w: %d symbols, maximum is %d", apperrors.ErrTooManySymbols, len(symbols), MaxSymbolsPerRequest)
	}

	for _, s := range symbols {
		if !symbolPattern.MatchString(s) {
			return nil, &Error{Fields: map[string]string{"symbols": fmt.Sprintf("invalid symbol: %s", s)}}
		}
	}

	return symbols, nil
}
