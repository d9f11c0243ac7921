package metrics

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

// Ramp-up scoring modes.
const (
	RampUpAdoption      = "adoption"
	RampUpDocumentation = "documentation"
)

const (
	downloadsSaturation = 1_000_000
	likesSaturation     = 1_000
	recencyHorizon      = 730 * 24 * time.Hour

	heuristicShare = 0.7
	llmShare       = 0.3
)

var (
	quickstartKeywords = []string{"getting started", "quick start", "quickstart", "usage", "how to use"}
	installKeywords    = []string{"pip install ", "pip3 install ", "conda install ", "poetry add ", "requirements.txt"}
	exampleKeywords    = []string{"from transformers import", "pipeline("}
)

type RampUpTime struct {
	hub  ports.ModelHub
	llm  ports.LLMClient
	mode string
	now  func() time.Time
}

func NewRampUpTime(hub ports.ModelHub, llm ports.LLMClient, mode string) *RampUpTime {
	if mode != RampUpDocumentation {
		mode = RampUpAdoption
	}
	return &RampUpTime{hub: hub, llm: llm, mode: mode, now: time.Now}
}

func (r *RampUpTime) Name() string { return domain.MetricRampUpTime }

func (r *RampUpTime) Compute(ctx context.Context, m *domain.Model) (domain.MetricValue, error) {
	if r.hub == nil {
		return scalar(0), fmt.Errorf("ramp up for %s: %w", m.ID, domain.ErrUnavailable)
	}
	if r.mode == RampUpDocumentation {
		return r.documentation(ctx, m)
	}

	info, err := r.hub.ModelInfo(ctx, m.ID)
	if err != nil || info.Empty() {
		return scalar(0), fmt.Errorf("ramp up for %s: no metadata: %w", m.ID, domain.ErrUnavailable)
	}
	return scalar(AdoptionScore(info, r.now())), nil
}

// AdoptionScore is the mean of download, engagement and recency signals.
func AdoptionScore(info ports.ModelInfo, now time.Time) float64 {
	downloads := math.Log10(math.Max(float64(info.Downloads), 1)) / math.Log10(downloadsSaturation)
	engagement := math.Log10(float64(max(info.Likes, 0))+1) / math.Log10(likesSaturation+1)

	recency := 0.0
	if info.LastModified != nil {
		age := now.Sub(*info.LastModified)
		if age < 0 {
			age = 0
		}
		recency = 1 - float64(age)/float64(recencyHorizon)
	}

	return clamp01((clamp01(downloads) + clamp01(engagement) + clamp01(recency)) / 3)
}

func (r *RampUpTime) documentation(ctx context.Context, m *domain.Model) (domain.MetricValue, error) {
	card, _ := r.hub.ModelCard(ctx, m.ID)
	info, _ := r.hub.ModelInfo(ctx, m.ID)
	if strings.TrimSpace(card) == "" && info.Empty() {
		return scalar(0), fmt.Errorf("ramp up for %s: no metadata: %w", m.ID, domain.ErrUnavailable)
	}

	heuristic := DocumentationScore(card, info)
	if r.llm == nil || strings.TrimSpace(card) == "" {
		return scalar(heuristic), nil
	}

	reply, err := r.llm.Complete(ctx, "Rate how easy it is for a new engineer to start using this model, "+
		"judging only from its model card. Consider installation steps, runnable examples and clarity. "+
		"Reply ONLY with a float between 0 and 1.\n\n"+truncate(card, maxPromptDocument))
	if err != nil {
		return scalar(heuristic), nil
	}
	grade, ok := firstFloat(reply)
	if !ok {
		return scalar(heuristic), nil
	}
	return scalar(clamp01(heuristicShare*heuristic + llmShare*clamp01(grade))), nil
}

// DocumentationScore grades a model card on readme presence, quickstart and install
// sections, runnable examples and hub metadata.
func DocumentationScore(card string, info ports.ModelInfo) float64 {
	var score float64
	if strings.TrimSpace(card) != "" {
		score += 0.10
	}

	doc := scanCard([]byte(card))
	if containsAny(doc.headings, quickstartKeywords) {
		score += 0.25
	}
	if containsAny(doc.code, installKeywords) {
		score += 0.20
	}
	if containsAny(doc.code, exampleKeywords) {
		score += 0.25
	}
	if info.PipelineTag != "" || len(info.Tags) > 0 || info.HasCardData {
		score += 0.20
	}
	return clamp01(score)
}

type cardOutline struct {
	headings string
	code     string
}

func scanCard(src []byte) cardOutline {
	var headings, code bytes.Buffer
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			headings.Write(inlineText(node, src))
			headings.WriteByte('\n')
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				code.Write(seg.Value(src))
			}
			code.WriteByte('\n')
		case *ast.CodeSpan:
			code.Write(inlineText(node, src))
			code.WriteByte('\n')
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return cardOutline{
		headings: strings.ToLower(headings.String()),
		code:     strings.ToLower(code.String()),
	}
}

func inlineText(n ast.Node, src []byte) []byte {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.Bytes()
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
