// internal/workers/guidance/notify-report-ready/models.go
package notifyreportready

import "career-brief-workers/internal/models"

type Input struct {
	StudentID string                 `json:"studentId"`
	ReportID  string                 `json:"reportId"`
	Token     string                 `json:"token"`
	Priority  string                 `json:"priority,omitempty"`
	Channel   string                 `json:"channel,omitempty"`
	Clusters  []models.CareerCluster `json:"clusters,omitempty"`
}

type Output struct {
	NotificationID string   `json:"notificationId"`
	Status         string   `json:"status"`
	Channels       []string `json:"channels"`
	SentAt         string   `json:"sentAt"`
}

// Statuses
const (
	StatusSent    = "sent"
	StatusPartial = "partial"
	StatusSkipped = "skipped"
)

// Channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var priorityRank = map[string]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

type student struct {
	Name  string
	Email string
	Phone string
}
