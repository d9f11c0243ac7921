package domain

import (
	"net/url"
	"strings"
)

type ArtifactKind string

const (
	KindModel   ArtifactKind = "model"
	KindDataset ArtifactKind = "dataset"
	KindCode    ArtifactKind = "code"
	KindUnknown ArtifactKind = "unknown"
)

// Host identifies where a referenced artifact lives.
type Host string

const (
	HostNone        Host = ""
	HostGitHub      Host = "github"
	HostGitLab      Host = "gitlab"
	HostHFSpace     Host = "hf-space"
	HostHuggingFace Host = "huggingface"
)

// ArtifactReference is a classified URL. It is produced by Classify and never mutated.
type ArtifactReference struct {
	Kind   ArtifactKind `json:"kind"`
	Host   Host         `json:"host"`
	RawURL string       `json:"raw_url"`
	Owner  string       `json:"owner,omitempty"`
	Name   string       `json:"name,omitempty"`
}

// ID returns the owner/name composite, or just the name for un-namespaced references.
func (r ArtifactReference) ID() string {
	if r.Owner == "" {
		return r.Name
	}
	return r.Owner + "/" + r.Name
}

var huggingFaceHosts = map[string]bool{
	"huggingface.co": true,
	"hf.co":          true,
}

// Classify maps raw text to an artifact reference. It is a pure function of its input.
func Classify(raw string) ArtifactReference {
	trimmed := strings.TrimSpace(raw)
	ref := ArtifactReference{Kind: KindUnknown, RawURL: trimmed}
	if trimmed == "" {
		return ref
	}

	candidate := trimmed
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		return ref
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segments := pathSegments(u.Path)

	switch {
	case host == "github.com":
		if len(segments) < 2 {
			return ref
		}
		ref.Kind, ref.Host = KindCode, HostGitHub
		ref.Owner, ref.Name = segments[0], strings.TrimSuffix(segments[1], ".git")

	case host == "gitlab.com" || strings.HasPrefix(host, "gitlab."):
		if len(segments) < 2 {
			return ref
		}
		ref.Kind, ref.Host = KindCode, HostGitLab
		ref.Owner, ref.Name = segments[0], strings.TrimSuffix(segments[1], ".git")

	case huggingFaceHosts[host]:
		classifyHuggingFace(&ref, segments)
	}

	return ref
}

func classifyHuggingFace(ref *ArtifactReference, segments []string) {
	if len(segments) == 0 {
		return
	}
	switch segments[0] {
	case "spaces":
		if len(segments) < 3 {
			return
		}
		ref.Kind, ref.Host = KindCode, HostHFSpace
		ref.Owner, ref.Name = segments[1], segments[2]
	case "datasets":
		rest := segments[1:]
		if len(rest) == 0 {
			return
		}
		ref.Kind, ref.Host = KindDataset, HostHuggingFace
		ref.Owner, ref.Name = splitNamespace(rest)
	case "docs", "blog", "models", "api", "organizations", "collections", "papers", "settings":
		return
	default:
		ref.Kind, ref.Host = KindModel, HostHuggingFace
		ref.Owner, ref.Name = splitNamespace(segments)
	}
}

// splitNamespace reads owner/name from the leading path segments. Trailing segments
// such as tree/main are ignored.
func splitNamespace(segments []string) (string, string) {
	if len(segments) == 1 || isRevisionSegment(segments[1]) {
		return "", segments[0]
	}
	return segments[0], segments[1]
}

func isRevisionSegment(s string) bool {
	switch s {
	case "tree", "blob", "resolve", "raw", "discussions", "commits":
		return true
	}
	return false
}

func pathSegments(p string) []string {
	parts := strings.Split(p, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
