// FILE: lixenwraith/asynclog/record.go
package asynclog

import (
	"time"
)

// logRecord is a single queued entry, immutable once pushed
type logRecord struct {
	Level     int64
	TimeStamp time.Time
	Text      string
}

// enqueue stamps and pushes a record. Producers only ever touch the stack head.
func (l *Logger) enqueue(level int64, text string) {
	l.queue.Push(logRecord{Level: level, TimeStamp: time.Now(), Text: text})
}
