package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/analytics"
	"github.com/adanyl0v/go-task-tracker/internal/models"
)

const calendarMonthLayout = "2006-01"

type getAnalyticsResponse struct {
	Timeframe string `json:"timeframe"`
	*analytics.Result
}

func (h *handlerImpl) HandleGetAnalytics(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	timeframe := c.DefaultQuery("timeframe", analytics.TimeframeWeek)
	days, err := analytics.ParseTimeframe(timeframe)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to parse timeframe")
		abort(c, newServiceError(err))
		return
	}

	tasks, err := h.tasks.GetAllTasks(c, userID)
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	result, err := analytics.Analyze(tasks, h.now(), days)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to analyze tasks")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, getAnalyticsResponse{
		Timeframe: timeframe,
		Result:    result,
	})
}

type calendarDay struct {
	Date  string            `json:"date"`
	Tasks []getTaskResponse `json:"tasks"`
}

type getCalendarResponse struct {
	Month string        `json:"month"`
	Days  []calendarDay `json:"days"`
}

func (h *handlerImpl) HandleGetCalendar(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	now := h.now()
	month := c.DefaultQuery("month", now.Format(calendarMonthLayout))
	from, err := time.ParseInLocation(calendarMonthLayout, month, now.Location())
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("month", month).
			Msg("failed to parse month")
		abort(c, newBadRequestError("month must be formatted as YYYY-MM"))
		return
	}
	to := from.AddDate(0, 1, -1)

	tasks, err := h.tasks.GetTasksDueBetween(c, userID, from, to)
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, getCalendarResponse{
		Month: month,
		Days:  groupByDueDate(tasks),
	})
}

// groupByDueDate expects tasks ordered by due date.
func groupByDueDate(tasks []models.Task) []calendarDay {
	days := make([]calendarDay, 0)
	for i := range tasks {
		if tasks[i].DueDate == nil {
			continue
		}
		date := *tasks[i].DueDate
		if len(days) == 0 || days[len(days)-1].Date != date {
			days = append(days, calendarDay{Date: date})
		}
		last := &days[len(days)-1]
		last.Tasks = append(last.Tasks, newGetTaskResponse(&tasks[i]))
	}
	return days
}
