package domain

import "math"

const CategoryModel = "MODEL"

// Net score weights. They sum to 1.0.
const (
	weightSize                = 0.08
	weightLicense             = 0.12
	weightRampUpTime          = 0.20
	weightBusFactor           = 0.05
	weightDatasetAndCodeScore = 0.10
	weightDatasetQuality      = 0.15
	weightCodeQuality         = 0.10
	weightPerformanceClaims   = 0.20
)

// Platform weights inside the size component.
var platformWeights = map[string]float64{
	PlatformRaspberryPi: 0.05,
	PlatformJetsonNano:  0.15,
	PlatformDesktopPC:   0.30,
	PlatformAWSServer:   0.50,
}

// NetScore combines metric values into the composite score rounded to two decimals.
// It depends only on its argument.
func NetScore(metrics map[string]MetricValue) float64 {
	size := 0.0
	sizeScore := metrics[MetricSizeScore].Size
	for _, p := range Platforms {
		size += platformWeights[p] * sizeScore[p]
	}

	score := weightSize*size +
		weightLicense*metrics[MetricLicense].Score +
		weightRampUpTime*metrics[MetricRampUpTime].Score +
		weightBusFactor*metrics[MetricBusFactor].Score +
		weightDatasetAndCodeScore*metrics[MetricDatasetAndCodeScore].Score +
		weightDatasetQuality*metrics[MetricDatasetQuality].Score +
		weightCodeQuality*metrics[MetricCodeQuality].Score +
		weightPerformanceClaims*metrics[MetricPerformanceClaims].Score

	return math.Round(math.Max(0, math.Min(1, score))*100) / 100
}

// ScoreRecord is the flat evaluation report for one model.
type ScoreRecord struct {
	Name     string `json:"name"`
	Category string `json:"category"`

	NetScore        float64 `json:"net_score"`
	NetScoreLatency int64   `json:"net_score_latency"`

	RampUpTime                 float64   `json:"ramp_up_time"`
	RampUpTimeLatency          int64     `json:"ramp_up_time_latency"`
	BusFactor                  float64   `json:"bus_factor"`
	BusFactorLatency           int64     `json:"bus_factor_latency"`
	PerformanceClaims          float64   `json:"performance_claims"`
	PerformanceClaimsLatency   int64     `json:"performance_claims_latency"`
	License                    float64   `json:"license"`
	LicenseLatency             int64     `json:"license_latency"`
	SizeScore                  SizeScore `json:"size_score"`
	SizeScoreLatency           int64     `json:"size_score_latency"`
	DatasetAndCodeScore        float64   `json:"dataset_and_code_score"`
	DatasetAndCodeScoreLatency int64     `json:"dataset_and_code_score_latency"`
	DatasetQuality             float64   `json:"dataset_quality"`
	DatasetQualityLatency      int64     `json:"dataset_quality_latency"`
	CodeQuality                float64   `json:"code_quality"`
	CodeQualityLatency         int64     `json:"code_quality_latency"`
}

// Record flattens the model's identity, metrics and latencies.
func (m *Model) Record() ScoreRecord {
	score := func(name string) float64 { return m.Metrics[name].Score }
	latency := func(name string) int64 { return m.Latencies[LatencyKey(name)] }

	size := NewSizeScore(0)
	for p, v := range m.Metrics[MetricSizeScore].Size {
		size[p] = v
	}

	return ScoreRecord{
		Name:     m.Name,
		Category: CategoryModel,

		NetScore:        m.NetScore,
		NetScoreLatency: latency(MetricNetScore),

		RampUpTime:                 score(MetricRampUpTime),
		RampUpTimeLatency:          latency(MetricRampUpTime),
		BusFactor:                  score(MetricBusFactor),
		BusFactorLatency:           latency(MetricBusFactor),
		PerformanceClaims:          score(MetricPerformanceClaims),
		PerformanceClaimsLatency:   latency(MetricPerformanceClaims),
		License:                    score(MetricLicense),
		LicenseLatency:             latency(MetricLicense),
		SizeScore:                  size,
		SizeScoreLatency:           latency(MetricSizeScore),
		DatasetAndCodeScore:        score(MetricDatasetAndCodeScore),
		DatasetAndCodeScoreLatency: latency(MetricDatasetAndCodeScore),
		DatasetQuality:             score(MetricDatasetQuality),
		DatasetQualityLatency:      latency(MetricDatasetQuality),
		CodeQuality:                score(MetricCodeQuality),
		CodeQualityLatency:         latency(MetricCodeQuality),
	}
}
