// internal/recommend/config.go
package recommend

import (
	"time"

	"movienight-backend/internal/common/config"
)

type Config struct {
	MatchThreshold float64
	MatchCount     int
	Timeout        time.Duration
	CacheTTL       time.Duration
}

func LoadConfig(rc config.RecommendConfig) *Config {
	return &Config{
		MatchThreshold: rc.MatchThreshold,
		MatchCount:     rc.MatchCount,
		Timeout:        config.GetDuration(rc.Timeout),
		CacheTTL:       time.Duration(rc.CacheTTL) * time.Second,
	}
}
