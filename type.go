// FILE: lixenwraith/asynclog/type.go
package asynclog

import (
	"time"
)

// TimerSet holds all timers used in processLogs
type TimerSet struct {
	flushTicker     *time.Ticker
	heartbeatTicker *time.Ticker
	heartbeatChan   <-chan time.Time
}

// worker is one run of the drain goroutine, created by Start and retired by Stop
type worker struct {
	shutdown chan struct{} // closed by Stop
	done     chan struct{} // closed by the goroutine after its final pass
	final    DrainResult   // written before done is closed
}
