// --- File: processor.go ---
package asynclog

import (
	"time"
)

// processLogs is the drain loop running in its own goroutine, one per Start
func (l *Logger) processLogs(w *worker) {
	defer close(w.done)

	timers := l.setupProcessingTimers()
	defer l.closeProcessingTimers(timers)

	for {
		select {
		case <-w.shutdown:
			// Anything pushed before or during Stop goes out in this pass
			w.final = l.drainPass(true)
			l.answerPendingFlushes()
			return

		case <-timers.flushTicker.C:
			l.drainPass(false)

		case confirmChan := <-l.state.flushRequestChan:
			l.handleFlushRequest(confirmChan)

		case <-timers.heartbeatChan:
			l.handleHeartbeat()
		}
	}
}

// drainPass takes everything queued, writes it oldest first and records the
// result. A pass always writes its whole chain, a panic while writing one
// record loses only that record.
func (l *Logger) drainPass(final bool) DrainResult {
	start := time.Now()
	res := DrainResult{Final: final}

	chain := l.queue.TakeAll()
	write := func(record logRecord) {
		l.writeRecord(record, &res)
	}
	for !chain.Empty() {
		func() {
			defer func() {
				if r := recover(); r != nil {
					res.WriteFailures++
					res.Err = combineErrors(res.Err, fmtErrorf("recovered panic while writing record: %v", r))
				}
			}()
			chain.Drain(write)
		}()
	}

	res.Duration = time.Since(start)
	l.recordDrainResult(res)
	return res
}

// writeRecord renders one record and hands it to the sink
func (l *Logger) writeRecord(record logRecord, res *DrainResult) {
	line := l.formatter.Format(record.TimeStamp, record.Level, record.Text)
	if err := l.sink.writeLine(line); err != nil {
		res.WriteFailures++
		if res.Err == nil {
			res.Err = err
		}
		return
	}
	res.Records++
}

// handleFlushRequest handles an explicit flush request
func (l *Logger) handleFlushRequest(confirmChan chan struct{}) {
	l.drainPass(false)
	close(confirmChan)
}

// answerPendingFlushes releases Flush callers still waiting when the loop
// exits, the final pass already covered their records
func (l *Logger) answerPendingFlushes() {
	for {
		select {
		case confirmChan := <-l.state.flushRequestChan:
			close(confirmChan)
		default:
			return
		}
	}
}
