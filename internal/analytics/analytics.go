// Package analytics derives dashboard statistics from a user's tasks.
//
// Analyze is a pure function: it performs no I/O, keeps no state and
// returns the same Result for the same tasks and the same now.
package analytics

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

const (
	TimeframeWeek  = "week"
	TimeframeMonth = "month"
	TimeframeAll   = "all"
)

var ErrUnknownTimeframe = errors.New("unknown timeframe")

// ValidationError reports the task and field that could not be analyzed.
type ValidationError struct {
	TaskID string
	Field  string
	Value  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("task %s: invalid %s %q", e.TaskID, e.Field, e.Value)
}

type Bucket struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type PriorityDistribution struct {
	Low    Bucket `json:"low"`
	Medium Bucket `json:"medium"`
	High   Bucket `json:"high"`
}

type StatusDistribution struct {
	Todo       Bucket `json:"todo"`
	InProgress Bucket `json:"in_progress"`
	Done       Bucket `json:"done"`
}

type DayActivity struct {
	Day   string `json:"day"`
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Result is comparable with ==.
type Result struct {
	TotalCount           int                  `json:"total_count"`
	CompletedCount       int                  `json:"completed_count"`
	CompletionRate       int                  `json:"completion_rate"`
	OverdueCount         int                  `json:"overdue_count"`
	OverduePercent       int                  `json:"overdue_percent"`
	DueTodayCount        int                  `json:"due_today_count"`
	PriorityDistribution PriorityDistribution `json:"priority_distribution"`
	StatusDistribution   StatusDistribution   `json:"status_distribution"`
	WeeklyActivity       [7]DayActivity       `json:"weekly_activity"`
}

// ParseTimeframe maps a dashboard timeframe name to a number of days.
// Zero means all time.
func ParseTimeframe(name string) (int, error) {
	switch name {
	case TimeframeWeek:
		return 7, nil
	case TimeframeMonth:
		return 30, nil
	case TimeframeAll, "":
		return 0, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownTimeframe, name)
}

type record struct {
	task    *models.Task
	dueDate time.Time
	hasDue  bool
}

// Analyze computes statistics over the tasks created within the last
// timeframeDays days before now, or over all tasks when timeframeDays <= 0.
//
// Day granularity comparisons (overdue, due today, weekly activity) are made
// in the location of now. The weekly activity always covers the Monday to
// Sunday week containing now.
//
// Every task is validated before anything is counted; the first malformed
// task fails the call with a *ValidationError.
func Analyze(tasks []models.Task, now time.Time, timeframeDays int) (*Result, error) {
	loc := now.Location()

	records := make([]record, 0, len(tasks))
	for i := range tasks {
		r, err := newRecord(&tasks[i], loc)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	if timeframeDays > 0 {
		cutoff := now.AddDate(0, 0, -timeframeDays)
		filtered := records[:0]
		for _, r := range records {
			if !r.task.CreatedAt.Before(cutoff) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	total := len(records)
	today := startOfDay(now)
	week := weekDays(today)

	result := &Result{TotalCount: total}
	var low, medium, high, todo, inProgress, done int
	for _, r := range records {
		switch r.task.Priority {
		case models.PriorityLow:
			low++
		case models.PriorityMedium:
			medium++
		case models.PriorityHigh:
			high++
		}

		switch r.task.Status {
		case models.StatusTodo:
			todo++
		case models.StatusInProgress:
			inProgress++
		case models.StatusDone:
			done++
		}

		if r.hasDue && r.task.Status != models.StatusDone {
			switch {
			case r.dueDate.Before(today):
				result.OverdueCount++
			case r.dueDate.Equal(today):
				result.DueTodayCount++
			}
		}

		created := startOfDay(r.task.CreatedAt.In(loc))
		for i, day := range week {
			if created.Equal(day) {
				result.WeeklyActivity[i].Count++
				break
			}
		}
	}

	for i, day := range week {
		result.WeeklyActivity[i].Day = day.Format("Mon")
		result.WeeklyActivity[i].Date = day.Format(models.DueDateLayout)
	}

	result.CompletedCount = done
	result.CompletionRate = roundedPercent(done, total)
	result.OverduePercent = roundedPercent(result.OverdueCount, total)
	result.PriorityDistribution = PriorityDistribution{
		Low:    newBucket(low, total),
		Medium: newBucket(medium, total),
		High:   newBucket(high, total),
	}
	result.StatusDistribution = StatusDistribution{
		Todo:       newBucket(todo, total),
		InProgress: newBucket(inProgress, total),
		Done:       newBucket(done, total),
	}
	return result, nil
}

func newRecord(task *models.Task, loc *time.Location) (record, error) {
	if !models.IsValidStatus(task.Status) {
		return record{}, &ValidationError{TaskID: task.ID, Field: "status", Value: task.Status}
	}
	if !models.IsValidPriority(task.Priority) {
		return record{}, &ValidationError{TaskID: task.ID, Field: "priority", Value: task.Priority}
	}
	if task.CreatedAt.IsZero() {
		return record{}, &ValidationError{TaskID: task.ID, Field: "created_at", Value: ""}
	}

	r := record{task: task}
	if task.DueDate != nil {
		due, err := time.ParseInLocation(models.DueDateLayout, *task.DueDate, loc)
		if err != nil {
			return record{}, &ValidationError{TaskID: task.ID, Field: "due_date", Value: *task.DueDate}
		}
		r.dueDate = due
		r.hasDue = true
	}
	return r, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// weekDays returns the midnights of Monday through Sunday of the week
// containing day.
func weekDays(day time.Time) [7]time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)

	var days [7]time.Time
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

func roundedPercent(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(count) / float64(total)))
}

func newBucket(count, total int) Bucket {
	if total == 0 {
		return Bucket{Count: count}
	}
	return Bucket{
		Count:   count,
		Percent: float64(count) / float64(total) * 100,
	}
}
