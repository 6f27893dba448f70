package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/adanyl0v/go-task-tracker/internal/analytics"
	"github.com/adanyl0v/go-task-tracker/internal/models"
)

const (
	tasksSheet   = "Tasks"
	summarySheet = "Summary"
)

var tasksSheetHeader = []any{
	"Title",
	"Project",
	"Status",
	"Priority",
	"Prioritized",
	"Due date",
	"Created at",
	"Description",
}

type exportServiceImpl struct {
	logger   zerolog.Logger
	tasks    TaskService
	projects ProjectService
}

func NewExportService(
	logger zerolog.Logger,
	taskService TaskService,
	projectService ProjectService,
) ExportService {
	return &exportServiceImpl{
		logger:   logger,
		tasks:    taskService,
		projects: projectService,
	}
}

func (s *exportServiceImpl) WriteTasksXLSX(ctx context.Context, userID string, now time.Time, w io.Writer) error {
	tasks, err := s.tasks.GetAllTasks(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}

	projects, err := s.projects.GetProjects(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get projects: %w", err)
	}
	projectNames := make(map[string]string, len(projects))
	for _, project := range projects {
		projectNames[project.ID] = project.Name
	}

	summary, err := analytics.Analyze(tasks, now, 0)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	err = writeTasksSheet(f, tasks, projectNames)
	if err != nil {
		return fmt.Errorf("failed to write tasks sheet: %w", err)
	}

	err = writeSummarySheet(f, summary)
	if err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}

	err = f.Write(w)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to write workbook")
		return err
	}

	s.logger.Info().
		Str("user_id", userID).
		Int("count", len(tasks)).
		Msg("exported tasks")
	return nil
}

func writeTasksSheet(f *excelize.File, tasks []models.Task, projectNames map[string]string) error {
	err := f.SetSheetName(f.GetSheetName(0), tasksSheet)
	if err != nil {
		return err
	}

	header := tasksSheetHeader
	err = f.SetSheetRow(tasksSheet, "A1", &header)
	if err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	err = f.SetRowStyle(tasksSheet, 1, 1, bold)
	if err != nil {
		return err
	}

	for i, task := range tasks {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		var project, dueDate string
		if task.ProjectID != nil {
			project = projectNames[*task.ProjectID]
		}
		if task.DueDate != nil {
			dueDate = *task.DueDate
		}

		row := []any{
			task.Title,
			project,
			task.Status,
			task.Priority,
			task.Prioritized,
			dueDate,
			task.CreatedAt,
			task.Description,
		}
		err = f.SetSheetRow(tasksSheet, cell, &row)
		if err != nil {
			return err
		}
	}

	err = f.SetColWidth(tasksSheet, "A", "A", 40)
	if err != nil {
		return err
	}
	return f.SetColWidth(tasksSheet, "H", "H", 60)
}

func writeSummarySheet(f *excelize.File, summary *analytics.Result) error {
	_, err := f.NewSheet(summarySheet)
	if err != nil {
		return err
	}

	rows := [][]any{
		{"Total tasks", summary.TotalCount},
		{"Completed tasks", summary.CompletedCount},
		{"Completion rate, %", summary.CompletionRate},
		{"Overdue tasks", summary.OverdueCount},
		{"Due today", summary.DueTodayCount},
		{"High priority", summary.PriorityDistribution.High.Count},
		{"Medium priority", summary.PriorityDistribution.Medium.Count},
		{"Low priority", summary.PriorityDistribution.Low.Count},
		{"To do", summary.StatusDistribution.Todo.Count},
		{"In progress", summary.StatusDistribution.InProgress.Count},
		{"Done", summary.StatusDistribution.Done.Count},
	}
	for _, day := range summary.WeeklyActivity {
		rows = append(rows, []any{"Created on " + day.Day + " " + day.Date, day.Count})
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		err = f.SetSheetRow(summarySheet, cell, &rows[i])
		if err != nil {
			return err
		}
	}
	return f.SetColWidth(summarySheet, "A", "A", 30)
}
