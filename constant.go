// FILE: lixenwraith/asynclog/constant.go
package asynclog

import (
	"os"
	"time"
)

// Log level constants, ordered by severity
const (
	LevelTrace int64 = iota
	LevelDebug
	LevelInfo
	LevelError
)

// Drain worker lifecycle states
const (
	stateStopped int32 = iota
	stateStarting
	stateRunning
	stateStopping
)

// Timers
const (
	// Minimum wait time used throughout the package
	minWaitTime = 10 * time.Millisecond
	// Floor for the flush ticker when the configured interval is zero
	minFlushInterval = time.Millisecond
)

// Destination file settings
const (
	destinationFileMode os.FileMode = 0644
	destinationDirMode  os.FileMode = 0755
)
