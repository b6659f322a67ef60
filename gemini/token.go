package gemini

import (
	"context"
	"unicode/utf8"

	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// TokenCounter counts tokens using the local Gemini tokenizer.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a new TokenCounter for the given model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, err
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the number of tokens in the given text.
func (tc *TokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, "user")}, nil)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}

// trimAttempts bounds how often Trim re-counts while shrinking text.
const trimAttempts = 4

// Trim returns the longest prefix of text it finds within limit tokens.
// Text is shortened in proportion to the overshoot, with a 10% margin,
// until it fits.
func (tc *TokenCounter) Trim(ctx context.Context, text string, limit int) (string, error) {
	for range trimAttempts {
		n, err := tc.CountTokens(ctx, text)
		if err != nil {
			return "", err
		}
		if n <= limit {
			return text, nil
		}
		runes := []rune(text)
		keep := len(runes) * limit / n * 9 / 10
		text = string(runes[:keep])
	}
	// Fall back to roughly four characters per token.
	if utf8.RuneCountInString(text) > limit*4 {
		text = string([]rune(text)[:limit*4])
	}
	return text, nil
}
