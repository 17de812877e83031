// FILE: lixenwraith/asynclog/heartbeat.go
package asynclog

import (
	"fmt"
	"runtime"
	"time"
)

// handleHeartbeat queues a stats record. It bypasses the level threshold and
// goes through the queue so it lands in order with regular records.
func (l *Logger) handleHeartbeat() {
	sequence := l.state.HeartbeatSequence.Add(1)

	var uptimeHours float64
	if startTime, ok := l.state.LoggerStartTime.Load().(time.Time); ok && !startTime.IsZero() {
		uptimeHours = time.Since(startTime).Hours()
	}

	text := fmt.Sprintf(
		"heartbeat sequence=%d uptime_hours=%.2f accepted=%d drained=%d write_failures=%d drain_passes=%d rejected=%d num_goroutine=%d",
		sequence,
		uptimeHours,
		l.state.TotalAccepted.Load(),
		l.state.TotalDrained.Load(),
		l.state.TotalWriteFailures.Load(),
		l.state.TotalDrainPasses.Load(),
		l.state.TotalRejected.Load(),
		runtime.NumGoroutine(),
	)

	l.enqueue(LevelInfo, text)
}
