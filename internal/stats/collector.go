// Package stats aggregates counts across the stores and broadcasts them to
// the admin dashboard channel.
package stats

import (
	"context"
	"log/slog"
	"time"

	"shelterhub/internal/adoption/models"
	"shelterhub/internal/notify"
	dErrors "shelterhub/pkg/domain-errors"
)

type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

type ShelterCounter interface {
	Count(ctx context.Context) (int, error)
}

type AnimalCounter interface {
	Count(ctx context.Context) (int, error)
}

type RequestCounter interface {
	CountByStatus(ctx context.Context) (map[models.Status]int, error)
}

// Snapshot is the dashboard payload.
type Snapshot struct {
	Users            int            `json:"users"`
	Shelters         int            `json:"shelters"`
	Animals          int            `json:"animals"`
	RequestsByStatus map[string]int `json:"requests_by_status"`
	TakenAt          time.Time      `json:"taken_at"`
}

type Collector struct {
	users    UserCounter
	shelters ShelterCounter
	animals  AnimalCounter
	requests RequestCounter
	notifier notify.Publisher
	logger   *slog.Logger
}

func New(users UserCounter, shelters ShelterCounter, animals AnimalCounter, requests RequestCounter, notifier notify.Publisher, logger *slog.Logger) *Collector {
	return &Collector{
		users:    users,
		shelters: shelters,
		animals:  animals,
		requests: requests,
		notifier: notifier,
		logger:   logger,
	}
}

func (c *Collector) Snapshot(ctx context.Context) (Snapshot, error) {
	snapshot := Snapshot{TakenAt: time.Now()}

	var err error
	if snapshot.Users, err = c.users.Count(ctx); err != nil {
		return Snapshot{}, dErrors.Wrap(err, dErrors.CodeInternal, "count users")
	}
	if snapshot.Shelters, err = c.shelters.Count(ctx); err != nil {
		return Snapshot{}, dErrors.Wrap(err, dErrors.CodeInternal, "count shelters")
	}
	if snapshot.Animals, err = c.animals.Count(ctx); err != nil {
		return Snapshot{}, dErrors.Wrap(err, dErrors.CodeInternal, "count animals")
	}

	byStatus, err := c.requests.CountByStatus(ctx)
	if err != nil {
		return Snapshot{}, dErrors.Wrap(err, dErrors.CodeInternal, "count requests")
	}
	snapshot.RequestsByStatus = make(map[string]int, len(byStatus))
	for status, n := range byStatus {
		snapshot.RequestsByStatus[string(status)] = n
	}
	return snapshot, nil
}

// Run broadcasts a fresh snapshot every interval until ctx is cancelled.
func (c *Collector) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			snapshot, err := c.Snapshot(ctx)
			if err != nil {
				c.logger.ErrorContext(ctx, "collect dashboard stats", slog.Any("error", err))
				continue
			}
			c.notifier.Enqueue(notify.NewDashboardStats(snapshot))
		}
	}
}
