// FILE: lixenwraith/asynclog/timer.go
package asynclog

import "time"

// setupProcessingTimers creates and configures all necessary timers for the processor
func (l *Logger) setupProcessingTimers() *TimerSet {
	timers := &TimerSet{}

	// Interval is fixed for the lifetime of one Start/Stop cycle
	flushInterval := l.cfg.FlushInterval()
	if flushInterval < minFlushInterval {
		flushInterval = minFlushInterval
	}
	timers.flushTicker = time.NewTicker(flushInterval)

	timers.heartbeatChan = l.setupHeartbeatTimer(timers)

	return timers
}

// closeProcessingTimers stops all active timers
func (l *Logger) closeProcessingTimers(timers *TimerSet) {
	timers.flushTicker.Stop()
	if timers.heartbeatTicker != nil {
		timers.heartbeatTicker.Stop()
	}
}

// setupHeartbeatTimer configures the heartbeat timer if enabled, a nil
// channel never fires in the select
func (l *Logger) setupHeartbeatTimer(timers *TimerSet) <-chan time.Time {
	if l.cfg.HeartbeatIntervalS <= 0 {
		return nil
	}
	timers.heartbeatTicker = time.NewTicker(time.Duration(l.cfg.HeartbeatIntervalS) * time.Second)
	return timers.heartbeatTicker.C
}
