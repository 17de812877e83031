package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/asynclog"
)

func main() {
	if err := os.MkdirAll("./logs", 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create test logs directory: %v\n", err)
		os.Exit(1)
	}

	// Heartbeats on, then off after a restart with a new logger
	intervals := []struct {
		seconds     int64
		description string
	}{
		{1, "Heartbeat every second"},
		{0, "Heartbeats disabled"},
	}

	for i, interval := range intervals {
		logger, err := asynclog.NewBuilder().
			Destination(fmt.Sprintf("./logs/heartbeat%d.log", i)).
			LevelString("debug").
			FlushInterval(100 * time.Millisecond).
			HeartbeatIntervalS(interval.seconds).
			Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		if err := logger.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start logger: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\n--- %s ---\n", interval.description)
		logger.Info("Heartbeat test started, interval_s =", interval.seconds)

		for j := 0; j < 10; j++ {
			logger.Debug("Debug test log, iteration", j)
			logger.Info("Info test log, iteration", j)
			logger.Error("Error test log, iteration", j)
			time.Sleep(100 * time.Millisecond)
		}

		waitTime := 3 * time.Second
		fmt.Printf("Waiting %v for heartbeats to generate...\n", waitTime)
		time.Sleep(waitTime)

		stats := logger.Stats()
		fmt.Printf("heartbeats=%d accepted=%d drained=%d drain_passes=%d\n",
			stats.Heartbeats, stats.Accepted, stats.Drained, stats.DrainPasses)

		if err := logger.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to shut down logger: %v\n", err)
		}
	}

	fmt.Println("\nHeartbeat test program completed successfully")
	fmt.Println("Check logs directory for generated log files")
}
