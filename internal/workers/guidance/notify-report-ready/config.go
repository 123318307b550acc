// internal/workers/guidance/notify-report-ready/config.go
package notifyreportready

import "time"

type Config struct {
	EmailEnabled      bool
	SMSEnabled        bool
	FromEmail         string
	SenderID          string
	PriorityThreshold string
	ReportBaseURL     string
	Timeout           time.Duration
}

func LoadConfig() *Config {
	return &Config{
		PriorityThreshold: PriorityHigh,
		Timeout:           30 * time.Second,
	}
}
