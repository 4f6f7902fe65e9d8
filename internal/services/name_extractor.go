package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/logger"
)

// NameExtractor returns the first person name found in free text, or ""
// when there is none.
type NameExtractor interface {
	ExtractPersonName(ctx context.Context, text string) (string, error)
}

// Lines that look like names but are document titles.
var nameStopLines = map[string]bool{
	"curriculum vitae": true,
	"resume":           true,
	"résumé":           true,
	"cover letter":     true,
	"personal details": true,
	"contact details":  true,
}

type heuristicNameExtractor struct {
	maxLines int
}

// NewHeuristicNameExtractor returns an offline extractor that takes the
// first short line of two to four capitalized words near the top of the
// text.
func NewHeuristicNameExtractor() NameExtractor {
	return &heuristicNameExtractor{maxLines: 10}
}

// ExtractPersonName implements NameExtractor.
func (h *heuristicNameExtractor) ExtractPersonName(_ context.Context, text string) (string, error) {
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if seen > h.maxLines {
			break
		}
		if name, ok := nameFromLine(line); ok {
			return name, nil
		}
	}
	return "", nil
}

func nameFromLine(line string) (string, bool) {
	if nameStopLines[strings.ToLower(line)] {
		return "", false
	}

	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return "", false
	}

	for _, w := range words {
		first := []rune(w)[0]
		if !unicode.IsUpper(first) {
			return "", false
		}
		for _, r := range w {
			if !unicode.IsLetter(r) && r != '.' && r != '\'' && r != '-' {
				return "", false
			}
		}
	}

	return strings.Join(words, " "), true
}

type geminiNameExtractor struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
	maxChars      int
}

// NewGeminiNameExtractor asks Gemini for the name. Answers that do not
// occur verbatim in the text are discarded.
func NewGeminiNameExtractor(gemini GeminiService, maxRetries int) NameExtractor {
	return &geminiNameExtractor{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
		maxChars:      4000,
	}
}

type nameResponse struct {
	Name string `json:"name"`
}

// ExtractPersonName implements NameExtractor.
func (g *geminiNameExtractor) ExtractPersonName(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	// The name sits at the top; the rest only costs tokens.
	excerpt := text
	if runes := []rune(excerpt); len(runes) > g.maxChars {
		excerpt = string(runes[:g.maxChars])
	}

	prompt := g.promptBuilder.BuildNameExtractionPrompt(excerpt)
	response, err := g.gemini.GenerateTextWithRetry(ctx, prompt, 0, g.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to extract name: %w", err)
	}

	var parsed nameResponse
	if err := json.Unmarshal([]byte(extractJSON(response)), &parsed); err != nil {
		return "", fmt.Errorf("failed to parse name response: %w", err)
	}

	name := strings.TrimSpace(parsed.Name)
	if name == "" || !strings.Contains(strings.ToLower(text), strings.ToLower(name)) {
		return "", nil
	}

	return name, nil
}

type fallbackNameExtractor struct {
	primary  NameExtractor
	fallback NameExtractor
	logger   *zap.Logger
}

// NewFallbackNameExtractor uses fallback whenever primary errors.
func NewFallbackNameExtractor(primary, fallback NameExtractor, log *zap.Logger) NameExtractor {
	return &fallbackNameExtractor{
		primary:  primary,
		fallback: fallback,
		logger:   logger.OrNop(log),
	}
}

// ExtractPersonName implements NameExtractor.
func (f *fallbackNameExtractor) ExtractPersonName(ctx context.Context, text string) (string, error) {
	name, err := f.primary.ExtractPersonName(ctx, text)
	if err == nil {
		return name, nil
	}

	f.logger.Warn("primary name extractor failed, using fallback", zap.Error(err))
	return f.fallback.ExtractPersonName(ctx, text)
}
