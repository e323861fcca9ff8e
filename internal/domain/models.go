// Package domain contains the core domain types for the sheet translator.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Grid is a rectangular block of cell texts, row-major.
type Grid [][]string

// Columns returns the width of the grid, taken from its first row.
func (g Grid) Columns() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Cell is a spreadsheet cell value as received over JSON.
// Text and numbers are both accepted; numbers keep their literal form.
type Cell string

// UnmarshalJSON accepts a JSON string, number, boolean or null.
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Cell(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*c = Cell(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*c = "TRUE"
		} else {
			*c = "FALSE"
		}
		return nil
	}
	return fmt.Errorf("unsupported cell value: %s", data)
}

// GridFromCells converts decoded JSON cells into a Grid.
func GridFromCells(cells [][]Cell) Grid {
	grid := make(Grid, len(cells))
	for i, row := range cells {
		grid[i] = make([]string, len(row))
		for j, cell := range row {
			grid[i][j] = string(cell)
		}
	}
	return grid
}

// Language is a DeepL-supported language as returned by GET /languages.
type Language struct {
	Language          string `json:"language"`
	Name              string `json:"name"`
	SupportsFormality bool   `json:"supports_formality"`
}

// Usage is the account usage returned by GET /usage.
type Usage struct {
	CharacterCount int64 `json:"character_count"`
	CharacterLimit int64 `json:"character_limit"`
}

// Remaining returns the characters left before the limit is reached.
func (u Usage) Remaining() int64 {
	if u.CharacterLimit <= u.CharacterCount {
		return 0
	}
	return u.CharacterLimit - u.CharacterCount
}

// TranslateRequest is the JSON body sent to POST /translate.
type TranslateRequest struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
	SourceLang string   `json:"source_lang,omitempty"`
}

// Translation is a single translated text in the DeepL response.
type Translation struct {
	DetectedSourceLanguage string `json:"detected_source_language"`
	Text                   string `json:"text"`
}

// TranslateResponse is the response body of POST /translate.
type TranslateResponse struct {
	Translations []Translation `json:"translations"`
}
