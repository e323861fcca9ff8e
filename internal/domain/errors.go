package domain

import "errors"

// Domain errors.
var (
	ErrEmptyInput            = errors.New("empty input")
	ErrCredentialUnavailable = errors.New("API key unavailable: set the DeepL API authentication key first")
	ErrOversizedItem         = errors.New("the following cell value exceeds the maximum length of the text to translate, consider splitting the content into multiple cells")
	ErrRateLimited           = errors.New("too many requests: try again after some time")
	ErrQuotaExceeded         = errors.New("quota exceeded: the translation limit of your account has been reached")
	ErrServiceUnavailable    = errors.New("temporary errors in the DeepL service: retry after waiting for a while")
	ErrRemoteCallFailed      = errors.New("error on calling DeepL API")
	ErrInvalidLocale         = errors.New("invalid locale")
	ErrInvalidLimits         = errors.New("chunk limits must be at least 1")
	ErrRaggedGrid            = errors.New("all rows of the grid must have the same length")
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrEmptyInput, "EmptyInput"},
	{ErrCredentialUnavailable, "CredentialUnavailable"},
	{ErrOversizedItem, "OversizedItem"},
	{ErrRateLimited, "RateLimited"},
	{ErrQuotaExceeded, "QuotaExceeded"},
	{ErrServiceUnavailable, "ServiceUnavailable"},
	{ErrRemoteCallFailed, "RemoteCallFailed"},
	{ErrInvalidLocale, "InvalidLocale"},
	{ErrInvalidLimits, "InvalidLimits"},
	{ErrRaggedGrid, "RaggedGrid"},
}

// Kind returns the machine-readable kind of a domain error, or "" when err
// does not wrap one.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ""
}
