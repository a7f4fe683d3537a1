package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/scry-feed/internal/domain"
)

// responseSchema is the object a provider is asked to return. Older prompts
// produced a flat "snippets" list instead of "cards"; both are accepted.
type responseSchema struct {
	Cards    *[]cardSchema  `json:"cards"`
	Snippets *[]string      `json:"snippets"`
	Options  []optionSchema `json:"options"`
}

type cardSchema struct {
	Text string `json:"text"`
}

type optionSchema struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Parse extracts cards and sub-topic options from raw model output. It looks
// for the first balanced JSON object, ignoring braces inside string literals,
// and decodes it. Cards beyond maxCards are dropped (maxCards <= 0 keeps all)
// and at most domain.MaxOptions options are returned.
//
// The returned cards slice is non-nil whenever err is nil; an empty slice is
// a valid result. Anything else yields an error wrapping ErrMalformedResponse.
func Parse(raw string, maxCards int) ([]string, []domain.SubTopicOption, error) {
	span, err := extractObject(raw)
	if err != nil {
		return nil, nil, err
	}

	var resp responseSchema
	if err := json.Unmarshal([]byte(span), &resp); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var texts []string
	switch {
	case resp.Cards != nil:
		texts = make([]string, 0, len(*resp.Cards))
		for _, card := range *resp.Cards {
			texts = append(texts, card.Text)
		}
	case resp.Snippets != nil:
		texts = *resp.Snippets
	default:
		return nil, nil, fmt.Errorf("%w: no cards or snippets field", ErrMalformedResponse)
	}

	cards := make([]string, 0, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if maxCards > 0 && len(cards) == maxCards {
			break
		}
		cards = append(cards, text)
	}

	var options []domain.SubTopicOption
	for _, opt := range resp.Options {
		title := strings.TrimSpace(opt.Title)
		if title == "" {
			continue
		}
		if len(options) == domain.MaxOptions {
			break
		}
		options = append(options, domain.SubTopicOption{
			Title:       title,
			Description: strings.TrimSpace(opt.Description),
		})
	}

	return cards, options, nil
}

// extractObject returns the first balanced {...} region of raw.
func extractObject(raw string) (string, error) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(raw); i++ {
		c := raw[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("%w: unbalanced braces", ErrMalformedResponse)
}
