// Package chunker splits texts into request-sized chunks by item count and serialized byte size.
package chunker

import (
	"fmt"

	"github.com/pricofy/sheet-translator/internal/domain"
)

const (
	// DefaultMaxItems is the maximum number of texts DeepL accepts per request.
	DefaultMaxItems = 50

	// DefaultMaxBytes keeps a chunk under DeepL's 128 KiB request ceiling,
	// leaving room for the rest of the request body.
	DefaultMaxBytes = 120 * 1024
)

// ByteSizer returns the length of a string in bytes.
type ByteSizer func(text string) int

// UTF8Size measures a string as UTF-8 bytes.
func UTF8Size(text string) int {
	return len(text)
}

// Split partitions items into chunks of at most maxCount items whose JSON
// serialization is at most maxBytes long, measured with UTF8Size.
func Split[T any](items []T, maxCount, maxBytes int) ([][]T, error) {
	return SplitWith(items, maxCount, maxBytes, UTF8Size)
}

// SplitWith is Split with an explicit ByteSizer.
// Inputs already within both limits come back as a single chunk. Larger inputs
// are bisected and each half is split again, so chunks keep the input order.
// A single item that is too large on its own fails with domain.ErrOversizedItem.
func SplitWith[T any](items []T, maxCount, maxBytes int, sizer ByteSizer) ([][]T, error) {
	if maxCount < 1 || maxBytes < 1 {
		return nil, fmt.Errorf("%w: maxCount=%d, maxBytes=%d", domain.ErrInvalidLimits, maxCount, maxBytes)
	}
	if sizer == nil {
		sizer = UTF8Size
	}
	return split(items, maxCount, maxBytes, sizer)
}

func split[T any](items []T, maxCount, maxBytes int, sizer ByteSizer) ([][]T, error) {
	size, err := serializedSize(items, sizer)
	if err != nil {
		return nil, err
	}
	if len(items) <= maxCount && size <= maxBytes {
		return [][]T{items}, nil
	}

	// One item over the byte limit cannot be split any further
	if len(items) == 1 {
		return nil, fmt.Errorf("%w:\n%v", domain.ErrOversizedItem, items[0])
	}

	mid := len(items) / 2
	first, err := split(items[:mid], maxCount, maxBytes, sizer)
	if err != nil {
		return nil, err
	}
	second, err := split(items[mid:], maxCount, maxBytes, sizer)
	if err != nil {
		return nil, err
	}
	return append(first, second...), nil
}

// serializedSize measures the JSON form of the whole slice, brackets and
// separators included, as domain.EncodeJSON puts it on the wire.
func serializedSize[T any](items []T, sizer ByteSizer) (int, error) {
	data, err := domain.EncodeJSON(items)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize chunk: %w", err)
	}
	return sizer(string(data)), nil
}
