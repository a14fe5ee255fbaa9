package api

import (
	"net/http"

	"github.com/lanternhq/lantern-api/internal/scheduler"
)

// SystemHandler serves operational endpoints: liveness and background task
// status.
type SystemHandler struct {
	scheduler *scheduler.Scheduler
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(s *scheduler.Scheduler) *SystemHandler {
	return &SystemHandler{scheduler: s}
}

// Health handles the /health endpoint.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Tasks handles the /system/tasks endpoint. It reports whether the
// scheduler is running and a snapshot of every registered task.
func (h *SystemHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	status := h.scheduler.Status()

	tasks := make(map[string]TaskStatusResponse, len(status.Tasks))
	for name, task := range status.Tasks {
		tasks[name] = TaskStatusResponse{
			Interval:  task.Interval.String(),
			Done:      task.Done,
			Cancelled: task.Cancelled,
		}
	}

	RespondWithJSON(w, r, http.StatusOK, SystemTasksResponse{
		Running: status.Running,
		Tasks:   tasks,
	})
}
