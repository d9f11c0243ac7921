package metrics

import (
	"context"
	"fmt"

	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

const (
	defaultSizeFloor = 0.5
	unknownSizeScore = 0.05
	bytesPerParam    = 2
)

// platformCapacity is the model size in bytes each platform comfortably serves.
var platformCapacity = map[string]float64{
	domain.PlatformRaspberryPi: 100e6,
	domain.PlatformJetsonNano:  1e9,
	domain.PlatformDesktopPC:   10e9,
	domain.PlatformAWSServer:   100e9,
}

type SizeScore struct {
	hub   ports.ModelHub
	floor float64
}

func NewSizeScore(hub ports.ModelHub, floor float64) *SizeScore {
	if floor < 0 || floor > 1 {
		floor = defaultSizeFloor
	}
	return &SizeScore{hub: hub, floor: floor}
}

func (s *SizeScore) Name() string { return domain.MetricSizeScore }

func (s *SizeScore) Compute(ctx context.Context, m *domain.Model) (domain.MetricValue, error) {
	if s.hub == nil {
		return domain.SizeValue(domain.NewSizeScore(unknownSizeScore)), fmt.Errorf("size for %s: %w", m.ID, domain.ErrUnavailable)
	}

	info, err := s.hub.ModelInfo(ctx, m.ID)
	size := info.TotalBytes
	if size <= 0 {
		size = info.Parameters * bytesPerParam
	}
	if size <= 0 {
		if err == nil {
			err = domain.ErrUnavailable
		}
		return domain.SizeValue(domain.NewSizeScore(unknownSizeScore)), fmt.Errorf("size for %s unknown: %w", m.ID, err)
	}
	return domain.SizeValue(SizeScores(size, s.floor)), nil
}

// SizeScores scores a model of the given byte size on every platform.
func SizeScores(size int64, floor float64) domain.SizeScore {
	scores := domain.NewSizeScore(0)
	for _, p := range domain.Platforms {
		scores[p] = clamp(1-float64(size)/platformCapacity[p], floor, 1)
	}
	return scores
}
