package metrics

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

const (
	defaultJudgmentAttempts = 3
	maxPromptDocument       = 6000
)

var scoreLinePattern = regexp.MustCompile(`^([0-1](?:\.\d+)?)\s*:\s*(.*)$`)

// parseScoreLine reads "<score>: <explanation>" from the first non-empty line.
func parseScoreLine(reply string) (float64, string, bool) {
	for _, line := range strings.Split(strings.TrimSpace(reply), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		match := scoreLinePattern.FindStringSubmatch(line)
		if match == nil {
			return 0, "", false
		}
		score, err := strconv.ParseFloat(match[1], 64)
		if err != nil || score > 1 {
			return 0, "", false
		}
		return score, match[2], true
	}
	return 0, "", false
}

// parseFloatReply accepts a reply that is exactly one number.
func parseFloatReply(reply string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(reply), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// firstFloat returns the first token of reply that parses as a number.
func firstFloat(reply string) (float64, bool) {
	fields := strings.FieldsFunc(reply, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\n' || r == '\t'
	})
	for _, f := range fields {
		if v, err := strconv.ParseFloat(strings.TrimRight(f, "."), 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// askScoreLine prompts until the reply parses as a score line. An LLM failure ends
// the loop at once with domain.ErrUnavailable; exhausting attempts yields
// domain.ErrParseFailure.
func askScoreLine(ctx context.Context, llm ports.LLMClient, prompt string, attempts int) (float64, string, error) {
	if llm == nil {
		return 0, "", fmt.Errorf("%w: no llm configured", domain.ErrUnavailable)
	}
	for i := 0; i < attempts; i++ {
		reply, err := llm.Complete(ctx, prompt)
		if err != nil {
			return 0, "", fmt.Errorf("judgment prompt: %w", err)
		}
		if score, explanation, ok := parseScoreLine(reply); ok {
			return score, explanation, nil
		}
	}
	return 0, "", fmt.Errorf("%w after %d attempts", domain.ErrParseFailure, attempts)
}
