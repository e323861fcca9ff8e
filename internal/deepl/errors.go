package deepl

import (
	"fmt"
	"net/http"

	"github.com/pricofy/sheet-translator/internal/domain"
)

// statusRule maps the status codes matched by match to err.
type statusRule struct {
	match func(code int) bool
	err   error
}

// statusRules are evaluated top to bottom: exact codes before ranges.
var statusRules = []statusRule{
	{match: func(code int) bool { return code == http.StatusTooManyRequests }, err: domain.ErrRateLimited},
	{match: func(code int) bool { return code == 456 }, err: domain.ErrQuotaExceeded},
	{match: func(code int) bool { return code >= http.StatusInternalServerError }, err: domain.ErrServiceUnavailable},
}

// CheckResponse classifies a DeepL response by status code.
// It returns nil for 200 and a domain error otherwise. Unclassified codes
// yield domain.ErrRemoteCallFailed carrying the response body.
// See https://developers.deepl.com/docs/best-practices/error-handling
func CheckResponse(statusCode int, body []byte) error {
	if statusCode == http.StatusOK {
		return nil
	}
	for _, rule := range statusRules {
		if rule.match(statusCode) {
			return rule.err
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrRemoteCallFailed, body)
}
