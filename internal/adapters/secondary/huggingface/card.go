package huggingface

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// cardMeta is the YAML front matter of a model or dataset card, also served as
// cardData by the API.
type cardMeta struct {
	License     licenseField `json:"license" yaml:"license"`
	PipelineTag string       `json:"pipeline_tag" yaml:"pipeline_tag"`
	Tags        []string     `json:"tags" yaml:"tags"`
}

// licenseField accepts a single license or a list of them.
type licenseField []string

func (l licenseField) String() string {
	return strings.Join(l, ", ")
}

func (l *licenseField) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = licenseField{value.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*l = list
		return nil
	}
	return nil
}

func (l *licenseField) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = licenseField{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil
	}
	*l = list
	return nil
}

// splitFrontMatter separates a card's leading YAML block from its markdown body.
// Malformed front matter yields empty metadata and the body after the block.
func splitFrontMatter(card string) (cardMeta, string) {
	var meta cardMeta
	normalized := strings.ReplaceAll(card, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") {
		return meta, card
	}

	rest := normalized[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return meta, card
	}

	_ = yaml.Unmarshal([]byte(rest[:end]), &meta)

	body := rest[end+len("\n---"):]
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = ""
	}
	return meta, strings.TrimLeft(body, "\n")
}
