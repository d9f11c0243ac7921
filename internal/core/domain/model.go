package domain

import (
	"sort"
	"time"
)

// Metric keys as they appear in score records.
const (
	MetricRampUpTime          = "ramp_up_time"
	MetricBusFactor           = "bus_factor"
	MetricPerformanceClaims   = "performance_claims"
	MetricLicense             = "license"
	MetricSizeScore           = "size_score"
	MetricDatasetAndCodeScore = "dataset_and_code_score"
	MetricDatasetQuality      = "dataset_quality"
	MetricCodeQuality         = "code_quality"
	MetricNetScore            = "net_score"
)

// MetricNames lists every metric a Model carries, in report order.
var MetricNames = []string{
	MetricRampUpTime,
	MetricBusFactor,
	MetricPerformanceClaims,
	MetricLicense,
	MetricSizeScore,
	MetricDatasetAndCodeScore,
	MetricDatasetQuality,
	MetricCodeQuality,
}

// LatencyKey returns the latency report key for a metric.
func LatencyKey(metric string) string {
	return metric + "_latency"
}

// Deployment platforms scored by size_score.
const (
	PlatformRaspberryPi = "raspberry_pi"
	PlatformJetsonNano  = "jetson_nano"
	PlatformDesktopPC   = "desktop_pc"
	PlatformAWSServer   = "aws_server"
)

var Platforms = []string{PlatformRaspberryPi, PlatformJetsonNano, PlatformDesktopPC, PlatformAWSServer}

// SizeScore maps platform name to a [0,1] score.
type SizeScore map[string]float64

// NewSizeScore returns a score with every platform set to v.
func NewSizeScore(v float64) SizeScore {
	s := make(SizeScore, len(Platforms))
	for _, p := range Platforms {
		s[p] = v
	}
	return s
}

// MetricValue is a metric result. Size is set only for size_score.
type MetricValue struct {
	Score float64
	Size  SizeScore
}

func ScalarValue(v float64) MetricValue {
	return MetricValue{Score: v}
}

func SizeValue(s SizeScore) MetricValue {
	return MetricValue{Size: s}
}

// Code is a source repository linked to exactly one Model.
type Code struct {
	URL         string  `json:"url"`
	Owner       string  `json:"owner"`
	Name        string  `json:"name"`
	RepoType    Host    `json:"repo_type"`
	ClonedPath  string  `json:"cloned_path,omitempty"`
	CodeQuality float64 `json:"code_quality"`
}

// NewCode builds a Code from a github, gitlab or Hugging Face Space URL.
func NewCode(rawURL string) (*Code, error) {
	ref := Classify(rawURL)
	if ref.Kind != KindCode {
		return nil, ErrInvalidCodeURL
	}
	return &Code{URL: ref.RawURL, Owner: ref.Owner, Name: ref.Name, RepoType: ref.Host}, nil
}

// ID returns owner/name.
func (c *Code) ID() string {
	return c.Owner + "/" + c.Name
}

// Dataset is a dataset linked to a Model.
type Dataset struct {
	URL            string  `json:"url"`
	Name           string  `json:"name"`
	DatasetQuality float64 `json:"dataset_quality"`
}

// NewDataset builds a Dataset from a Hugging Face dataset URL.
func NewDataset(rawURL string) (*Dataset, error) {
	ref := Classify(rawURL)
	if ref.Kind != KindDataset {
		return nil, ErrInvalidDatasetURL
	}
	return &Dataset{URL: ref.RawURL, Name: ref.ID()}, nil
}

// NewNamedDataset builds a Dataset whose name was established outside URL parsing.
func NewNamedDataset(rawURL, name string) *Dataset {
	return &Dataset{URL: rawURL, Name: name}
}

// DatasetRegistry indexes datasets by name across models. It does not own them.
type DatasetRegistry map[string]*Dataset

// Add records d under its name unless a dataset with that name is already indexed.
func (r DatasetRegistry) Add(d *Dataset) {
	if d == nil || d.Name == "" {
		return
	}
	if _, ok := r[d.Name]; !ok {
		r[d.Name] = d
	}
}

func (r DatasetRegistry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Model is the central entity: a model reference plus optional linked code and dataset.
type Model struct {
	URL     string
	ID      string
	Name    string
	Code    *Code
	Dataset *Dataset

	Metrics   map[string]MetricValue
	Latencies map[string]int64
	NetScore  float64

	evaluated bool
}

// NewModel creates a model with every metric and latency initialised to zero.
// When id is empty it is derived from url.
func NewModel(url, id string) *Model {
	ref := Classify(url)
	if id == "" {
		id = ref.ID()
	}
	name := ref.Name
	if name == "" {
		name = id
	}

	m := &Model{
		URL:       ref.RawURL,
		ID:        id,
		Name:      name,
		Metrics:   make(map[string]MetricValue, len(MetricNames)),
		Latencies: make(map[string]int64, len(MetricNames)+1),
	}
	for _, metric := range MetricNames {
		m.Metrics[metric] = MetricValue{}
		m.Latencies[LatencyKey(metric)] = 0
	}
	m.Metrics[MetricSizeScore] = SizeValue(NewSizeScore(0))
	m.Latencies[LatencyKey(MetricNetScore)] = 0
	return m
}

func (m *Model) LinkCode(c *Code) error {
	if m.evaluated {
		return ErrModelEvaluated
	}
	m.Code = c
	return nil
}

func (m *Model) LinkDataset(d *Dataset) error {
	if m.evaluated {
		return ErrModelEvaluated
	}
	m.Dataset = d
	return nil
}

func (m *Model) Evaluated() bool {
	return m.evaluated
}

// SetMetric overwrites one metric result. Negative latencies are recorded as zero.
func (m *Model) SetMetric(name string, v MetricValue, latency time.Duration) {
	if name == MetricSizeScore && v.Size == nil {
		v.Size = NewSizeScore(0)
	}
	m.Metrics[name] = v
	m.Latencies[LatencyKey(name)] = millis(latency)

	switch name {
	case MetricCodeQuality:
		if m.Code != nil {
			m.Code.CodeQuality = v.Score
		}
	case MetricDatasetQuality:
		if m.Dataset != nil {
			m.Dataset.DatasetQuality = v.Score
		}
	}
}

// Seal records the net score and marks the model evaluated.
func (m *Model) Seal(netScore float64, latency time.Duration) {
	m.NetScore = netScore
	m.Latencies[LatencyKey(MetricNetScore)] = millis(latency)
	m.evaluated = true
}

func millis(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return d.Milliseconds()
}
