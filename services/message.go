// services/message.go
package services

import (
	"fmt"
	"strings"
	"time"

	"brandflow-backend/utils"
)

// RenderDueDateReminder builds the reminder body for one candidate item. The
// urgency tier tightens as the deadline closes in.
func RenderDueDateReminder(recipientName string, item CandidateItem, due time.Time, daysLeft float64, now time.Time) string {
	var tier string
	switch {
	case daysLeft <= 1:
		tier = "URGENT"
	case daysLeft <= 2:
		tier = "Important"
	default:
		tier = "Reminder"
	}

	lines := []string{
		fmt.Sprintf("[%s] Campaign deadline notice", tier),
		"",
		fmt.Sprintf("Hello %s,", recipientName),
		"",
		fmt.Sprintf("Task: %s", item.Post.Title),
	}

	if item.Post.WorkType != "" {
		lines = append(lines, fmt.Sprintf("Work type: %s", item.Post.WorkType))
	}
	if item.Post.Product != nil && item.Post.Product.Name != "" {
		lines = append(lines, fmt.Sprintf("Product: %s", item.Post.Product.Name))
	}

	lines = append(lines,
		fmt.Sprintf("Campaign: %s", item.Campaign.Name),
		fmt.Sprintf("Due: %s", due.Format("2006-01-02 15:04")),
		fmt.Sprintf("Time remaining: %s", utils.FormatTimeUntilDue(due, now)),
		"",
		"The deadline is approaching. Please check the progress of this task.",
	)

	return strings.Join(lines, "\n")
}
