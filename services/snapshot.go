package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/storage"
)

// Snapshot kinds, used as the object name prefix.
const (
	SnapshotGroupSchedule = "group-schedule"
	SnapshotPhase         = "phase"
	SnapshotReorganize    = "reorganize"
)

// SnapshotPublisher uploads a JSON copy of each generated schedule so the
// printed fixture lists can link to an immutable version. Every upload also
// refreshes a "current" object per schedule name, which Remove deletes when
// the schedule behind it is discarded.
type SnapshotPublisher struct {
	uploader storage.FileUploader
	logger   *slog.Logger
}

// NewSnapshotPublisher returns a publisher that does nothing when uploader is
// nil.
func NewSnapshotPublisher(uploader storage.FileUploader, logger *slog.Logger) *SnapshotPublisher {
	return &SnapshotPublisher{uploader: uploader, logger: logger}
}

func SnapshotKey(tournamentID int, kind, runID string) string {
	return fmt.Sprintf("schedules/%d/%s-%s.json", tournamentID, kind, runID)
}

func CurrentSnapshotKey(tournamentID int, name string) string {
	return fmt.Sprintf("schedules/%d/%s-current.json", tournamentID, name)
}

// PhaseSnapshotName names the current snapshot of one bracket.
func PhaseSnapshotName(modalityID int, gender models.Gender) string {
	return fmt.Sprintf("%s-m%d-%s", SnapshotPhase, modalityID, gender)
}

// Publish returns the public URL of the versioned snapshot, or "" when
// publishing is disabled or failed. Failures are only logged.
func (p *SnapshotPublisher) Publish(ctx context.Context, tournamentID int, kind, name, runID string, payload interface{}) string {
	if p == nil || p.uploader == nil {
		return ""
	}
	key := SnapshotKey(tournamentID, kind, runID)

	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Warn("failed to encode schedule snapshot", slog.String("key", key), slog.Any("error", err))
		return ""
	}
	result, err := p.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		p.logger.Warn("failed to upload schedule snapshot", slog.String("key", key), slog.Any("error", err))
		return ""
	}
	p.logger.Info("schedule snapshot uploaded", slog.String("key", result.Key), slog.String("location", result.Location))

	current := CurrentSnapshotKey(tournamentID, name)
	if _, err := p.uploader.Upload(ctx, current, "application/json", bytes.NewReader(body)); err != nil {
		p.logger.Warn("failed to refresh current schedule snapshot", slog.String("key", current), slog.Any("error", err))
	}
	return p.uploader.GetPublicURL(result.Key)
}

// Remove deletes the current snapshots of the given names. Versioned
// snapshots are kept.
func (p *SnapshotPublisher) Remove(ctx context.Context, tournamentID int, names ...string) {
	if p == nil || p.uploader == nil {
		return
	}
	for _, name := range names {
		key := CurrentSnapshotKey(tournamentID, name)
		if err := p.uploader.Delete(ctx, key); err != nil {
			p.logger.Warn("failed to delete schedule snapshot", slog.String("key", key), slog.Any("error", err))
			continue
		}
		p.logger.Info("schedule snapshot deleted", slog.String("key", key))
	}
}
