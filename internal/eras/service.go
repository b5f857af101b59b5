// Package eras detects mood eras in the stored listening history.
package eras

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/justestif/moodtunes/internal/analysis"
	"github.com/justestif/moodtunes/internal/moodlog"
	"github.com/justestif/moodtunes/internal/store"
)

// SnapshotSource supplies the current mood log.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (store.Snapshot, error)
}

// Service runs era detection over the store's current snapshot.
type Service struct {
	source SnapshotSource
	cfg    analysis.EraConfig
	logger *zap.Logger
}

// New creates a new era service. A nil logger disables logging.
func New(source SnapshotSource, cfg analysis.EraConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, cfg: cfg, logger: logger}
}

// Config returns the default clustering configuration.
func (s *Service) Config() analysis.EraConfig {
	return s.cfg
}

// DetectResult contains the outcome of era detection.
type DetectResult struct {
	Eras         []analysis.Era  `json:"eras"`
	Outliers     []moodlog.Entry `json:"outliers"`
	OutlierCount int             `json:"outlier_count"`
	TotalLogs    int             `json:"total_logs"`
	Version      uint64          `json:"version"`
}

// Summary renders the result as text.
func (r *DetectResult) Summary() string {
	return analysis.FormatEraSummary(r.Eras, r.Outliers)
}

// Detect clusters the current snapshot with the service configuration.
func (s *Service) Detect(ctx context.Context) (*DetectResult, error) {
	return s.DetectWith(ctx, s.cfg)
}

// DetectWith clusters the current snapshot with cfg.
func (s *Service) DetectWith(ctx context.Context, cfg analysis.EraConfig) (*DetectResult, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading mood logs: %w", err)
	}

	result := &DetectResult{
		Eras:      []analysis.Era{},
		Outliers:  []moodlog.Entry{},
		TotalLogs: len(snap.Entries),
		Version:   snap.Version,
	}
	if len(snap.Entries) == 0 {
		return result, nil
	}

	found, outliers := analysis.DetectEras(snap.Entries, cfg)
	if found != nil {
		result.Eras = found
	}
	if outliers != nil {
		result.Outliers = outliers
	}
	result.OutlierCount = len(result.Outliers)

	s.logger.Debug("eras detected",
		zap.Int("eras", len(result.Eras)),
		zap.Int("outliers", result.OutlierCount),
		zap.Int("logs", result.TotalLogs),
		zap.Int("clusters", cfg.NumClusters),
		zap.Int("min_cluster_size", cfg.MinClusterSize),
	)
	return result, nil
}
