package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/lanternhq/lantern-api/internal/sdk"
)

// ResourceSync polls the external resource API so the process keeps a
// current view of the remote collection (and surfaces connectivity
// problems in the logs long before a user request hits them).
type ResourceSync struct {
	resources *sdk.Resources
	logger    *slog.Logger

	lastTotal atomic.Int64
}

// NewResourceSync creates a ResourceSync.
func NewResourceSync(resources *sdk.Resources, logger *slog.Logger) *ResourceSync {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResourceSync{resources: resources, logger: logger}
}

// RunOnce fetches the first page of resources and records the total.
func (s *ResourceSync) RunOnce(ctx context.Context) error {
	list, err := s.resources.List(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list remote resources: %w", err)
	}

	prev := s.lastTotal.Swap(int64(list.Total))
	if prev != int64(list.Total) {
		s.logger.Info("remote resource count changed",
			"previous", prev,
			"current", list.Total)
	}
	return nil
}

// LastTotal reports the resource count observed on the most recent
// successful sync.
func (s *ResourceSync) LastTotal() int64 {
	return s.lastTotal.Load()
}
