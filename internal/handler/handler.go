// Package handler provides the Lambda handler for the sheet translator.
package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/pricofy/sheet-translator/internal/deepl"
	"github.com/pricofy/sheet-translator/internal/domain"
	"github.com/pricofy/sheet-translator/internal/translator"
)

// Actions.
const (
	ActionTranslate = "translate"
	ActionLanguages = "languages"
	ActionUsage     = "usage"
)

// Request is the input to the sheet translator.
type Request struct {
	Action     string          `json:"action,omitempty"`
	Grid       [][]domain.Cell `json:"grid"`
	SourceLang string          `json:"sourceLang"`
	TargetLang string          `json:"targetLang"`
	Type       string          `json:"type,omitempty"`
}

// Response is the output from the sheet translator.
type Response struct {
	Translations    [][]string        `json:"translations,omitempty"`
	Languages       []domain.Language `json:"languages,omitempty"`
	Usage           *domain.Usage     `json:"usage,omitempty"`
	ChunksProcessed int               `json:"chunksProcessed,omitempty"`
	Error           string            `json:"error,omitempty"`
	ErrorKind       string            `json:"errorKind,omitempty"`
}

// Client is the part of the DeepL client the handler calls.
type Client interface {
	translator.TextTranslator
	Languages(ctx context.Context, kind deepl.LanguageType) ([]domain.Language, error)
	Usage(ctx context.Context) (domain.Usage, error)
}

// Deps holds what Handle needs to serve a request.
type Deps struct {
	Client  Client
	Options translator.Options
}

// Handle processes a request. Failures are reported in Response.Error, the
// returned error is reserved for the Lambda runtime.
func Handle(ctx context.Context, deps Deps, req Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return &Response{Error: err.Error()}, nil
	}

	switch action(req) {
	case ActionLanguages:
		languages, err := deps.Client.Languages(ctx, deepl.LanguageType(req.Type))
		if err != nil {
			return errorResponse(err), nil
		}
		return &Response{Languages: languages}, nil

	case ActionUsage:
		usage, err := deps.Client.Usage(ctx)
		if err != nil {
			return errorResponse(err), nil
		}
		return &Response{Usage: &usage}, nil
	}

	// Empty input - return immediately
	if len(req.Grid) == 0 {
		return &Response{Translations: [][]string{}, ChunksProcessed: 0}, nil
	}

	result, err := translator.New(deps.Client, deps.Options).Translate(ctx, domain.GridFromCells(req.Grid), req.TargetLang, req.SourceLang)
	if err != nil {
		return errorResponse(err), nil
	}

	return &Response{
		Translations:    result.Grid,
		ChunksProcessed: result.ChunksProcessed,
	}, nil
}

func action(req Request) string {
	if req.Action == "" {
		return ActionTranslate
	}
	return req.Action
}

func errorResponse(err error) *Response {
	return &Response{Error: err.Error(), ErrorKind: domain.Kind(err)}
}

// validateRequest checks the request is valid.
func validateRequest(req Request) error {
	switch action(req) {
	case ActionTranslate:
	case ActionLanguages:
		if req.Type != "" && req.Type != string(deepl.SourceLanguages) && req.Type != string(deepl.TargetLanguages) {
			return fmt.Errorf("type must be %q or %q", deepl.SourceLanguages, deepl.TargetLanguages)
		}
		return nil
	case ActionUsage:
		return nil
	default:
		return fmt.Errorf("unknown action %q", req.Action)
	}

	if req.TargetLang == "" {
		return fmt.Errorf("targetLang is required")
	}
	if strings.EqualFold(req.SourceLang, req.TargetLang) {
		return fmt.Errorf("sourceLang and targetLang must be different")
	}
	if req.Grid == nil {
		return fmt.Errorf("grid is required")
	}
	return nil
}
