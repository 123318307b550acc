// internal/workers/guidance/synthesize-career-report/config.go
package synthesizecareerreport

import "time"

type Config struct {
	GenAIBaseURL string
	APIKey       string
	Model        string
	Timeout      time.Duration
	MaxRetries   int
	BaseBackoff  time.Duration
	MaxTokens    int
	Temperature  float64
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     120 * time.Second,
		MaxRetries:  3,
		BaseBackoff: 500 * time.Millisecond,
		MaxTokens:   4096,
		Temperature: 0.2,
	}
}
