// internal/workers/guidance/index-career-report/config.go
package indexcareerreport

import "time"

type Config struct {
	Index   string
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Index:   "career-reports",
		Timeout: 10 * time.Second,
	}
}
