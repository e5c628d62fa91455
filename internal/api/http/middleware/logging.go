package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dchaban/taskdeck-server/internal/logger"
)

// RequestStats holds per-process request counters. It is constructed
// explicitly and injected into the middleware chain; there is no
// package-level state.
type RequestStats struct {
	mu     sync.Mutex
	total  uint64
	failed uint64
}

func NewRequestStats() *RequestStats {
	return &RequestStats{}
}

// Record counts a completed request.
func (s *RequestStats) Record(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	if status >= 500 {
		s.failed++
	}
}

// Snapshot returns the current counters.
func (s *RequestStats) Snapshot() (total, failed uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total, s.failed
}

// Logging logs method, path, status and duration for each request.
type Logging struct {
	logger *logger.Logger
	stats  *RequestStats
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger, stats *RequestStats) *Logging {
	return &Logging{logger: logger, stats: stats}
}

// Handle returns the gin middleware function.
func (l *Logging) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		l.stats.Record(status)

		l.logger.Info("http request completed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds())
	}
}
