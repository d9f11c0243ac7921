package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

const manifestColumns = 3

// ManifestParser reads URL manifests: one "code_url, dataset_url, model_url" line per model.
type ManifestParser struct {
	llm ports.LLMClient
}

// NewManifestParser creates a parser. llm may be nil, in which case dataset URLs
// outside Hugging Face are dropped.
func NewManifestParser(llm ports.LLMClient) *ManifestParser {
	return &ManifestParser{llm: llm}
}

// Parse returns the models in manifest order and the datasets they reference.
// Malformed lines are logged and skipped.
func (p *ManifestParser) Parse(ctx context.Context, r io.Reader) ([]*domain.Model, domain.DatasetRegistry, error) {
	var models []*domain.Model
	registry := domain.DatasetRegistry{}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) != manifestColumns {
			log.Warnf("line %d does not have exactly %d columns: %s", lineNum, manifestColumns, line)
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		codeURL, datasetURL, modelURL := parts[0], parts[1], parts[2]

		if modelURL == "" {
			log.Warnf("line %d has no model URL", lineNum)
			continue
		}
		ref := domain.Classify(modelURL)
		if ref.Kind != domain.KindModel {
			log.Warnf("line %d: %s: %v", lineNum, modelURL, domain.ErrInvalidModelURL)
			continue
		}
		model := domain.NewModel(modelURL, "")

		if codeURL != "" {
			code, err := domain.NewCode(codeURL)
			if err != nil {
				log.Warnf("line %d: code link %s: %v", lineNum, codeURL, err)
			} else {
				_ = model.LinkCode(code)
			}
		}

		if datasetURL != "" {
			if ds := p.dataset(ctx, lineNum, datasetURL); ds != nil {
				_ = model.LinkDataset(ds)
				registry.Add(ds)
			}
		}

		models = append(models, model)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading manifest: %w", err)
	}

	log.WithFields(log.Fields{"models": len(models), "datasets": len(registry)}).Debug("manifest parsed")
	return models, registry, nil
}

func (p *ManifestParser) dataset(ctx context.Context, lineNum int, rawURL string) *domain.Dataset {
	ref := domain.Classify(rawURL)
	switch ref.Kind {
	case domain.KindDataset:
		ds, _ := domain.NewDataset(rawURL)
		return ds
	case domain.KindUnknown:
		name, ok := p.confirmDataset(ctx, rawURL)
		if !ok {
			log.Warnf("line %d: %s is not a dataset link", lineNum, rawURL)
			return nil
		}
		return domain.NewNamedDataset(ref.RawURL, name)
	default:
		log.Warnf("line %d: %s: %v", lineNum, rawURL, domain.ErrInvalidDatasetURL)
		return nil
	}
}

// confirmDataset asks the LLM whether rawURL is a dataset. The reply's first line
// names the dataset and its last line is yes or no.
func (p *ManifestParser) confirmDataset(ctx context.Context, rawURL string) (string, bool) {
	if p.llm == nil {
		return "", false
	}
	reply, err := p.llm.Complete(ctx, fmt.Sprintf("Analyze the following URL: %s. "+
		"The URL might point to a machine learning dataset on a platform like Kaggle, Zenodo, or a university website. "+
		"Respond with two lines. On line 1, the name of the dataset or 'None'. On line 2, only the word 'yes' or 'no'. "+
		"Do not use any punctuation. Is this a valid link to a dataset?", rawURL))
	if err != nil {
		log.WithError(err).Debugf("dataset check failed for %s", rawURL)
		return "", false
	}

	lines := strings.Split(strings.TrimSpace(reply), "\n")
	if !strings.EqualFold(strings.TrimSpace(lines[len(lines)-1]), "yes") {
		return "", false
	}
	name := strings.TrimSpace(lines[0])
	if name == "" || strings.EqualFold(name, "none") || len(lines) == 1 {
		name = rawURL
	}
	return name, true
}
