// Package stats holds the derived, non-persisted metrics computed over already
// fetched projects and tasks.
package stats

import (
	"strconv"

	"project-management-api/internal/models"
)

// CompletionRate returns done/total as a percentage rounded to two decimals,
// or 0 when there is nothing to complete. Rounding works on the exact decimal
// value of the float, so halfway cases such as 3.125 round to even.
func CompletionRate(done, total int) float64 {
	if total == 0 {
		return 0.0
	}
	pct := float64(done) / float64(total) * 100
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(pct, 'f', 2, 64), 64)
	if err != nil {
		return pct
	}
	return rounded
}

// ProjectProgress is the per-project task summary
type ProjectProgress struct {
	TaskCount          int     `json:"task_count"`
	CompletedTaskCount int     `json:"completed_task_count"`
	CompletionRate     float64 `json:"completion_rate"`
}

// FromCounts builds a summary from pre-aggregated counts
func FromCounts(total, done int) ProjectProgress {
	return ProjectProgress{
		TaskCount:          total,
		CompletedTaskCount: done,
		CompletionRate:     CompletionRate(done, total),
	}
}

// OrganizationStatistics is the aggregate over an organization's projects and
// their tasks.
type OrganizationStatistics struct {
	TotalProjects         int     `json:"total_projects"`
	ActiveProjects        int     `json:"active_projects"`
	CompletedProjects     int     `json:"completed_projects"`
	OnHoldProjects        int     `json:"on_hold_projects"`
	TotalTasks            int     `json:"total_tasks"`
	CompletedTasks        int     `json:"completed_tasks"`
	InProgressTasks       int     `json:"in_progress_tasks"`
	TodoTasks             int     `json:"todo_tasks"`
	OverallCompletionRate float64 `json:"overall_completion_rate"`
}

// Summarize partitions projects and tasks by status
func Summarize(projects []models.Project, tasks []models.Task) OrganizationStatistics {
	s := OrganizationStatistics{
		TotalProjects: len(projects),
		TotalTasks:    len(tasks),
	}
	for _, p := range projects {
		switch p.Status {
		case models.ProjectActive:
			s.ActiveProjects++
		case models.ProjectCompleted:
			s.CompletedProjects++
		case models.ProjectOnHold:
			s.OnHoldProjects++
		}
	}
	for _, t := range tasks {
		switch t.Status {
		case models.StatusTodo:
			s.TodoTasks++
		case models.StatusInProgress:
			s.InProgressTasks++
		case models.StatusDone:
			s.CompletedTasks++
		}
	}
	s.OverallCompletionRate = CompletionRate(s.CompletedTasks, s.TotalTasks)
	return s
}

// ProjectIDs extracts ids in the order given
func ProjectIDs(projects []models.Project) []uint {
	ids := make([]uint, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids
}
