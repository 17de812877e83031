package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lixenwraith/asynclog"
)

var (
	numWorkers   = flag.Int("workers", 50, "number of producer goroutines")
	perWorker    = flag.Int("messages", 5000, "messages per producer, plus one exit line")
	numFiles     = flag.Int("files", 10, "destination files to cycle through")
	logsDir      = flag.String("dir", "./stress_logs", "directory for log_fileN.txt")
	flushMs      = flag.Int64("flush_ms", 0, "drain interval in milliseconds")
	keepLogs     = flag.Bool("keep", true, "keep the log files after verification")
	sanitization = flag.String("sanitization", "txt", "message sanitization policy")
)

// worker writes perWorker numbered lines then an exit line, all at info level
func worker(id int, logger *asynclog.Logger, wg *sync.WaitGroup) {
	defer wg.Done()

	time.Sleep(time.Duration(id%2) * time.Second)

	for i := 0; i < *perWorker; i++ {
		logger.Log(asynclog.LevelInfo, fmt.Sprintf("worker #%d is writing to the log: iteration %d", id, i))
	}
	logger.Log(asynclog.LevelInfo, fmt.Sprintf("worker #%d is exiting", id))
}

func logFile(i int) string {
	return filepath.Join(*logsDir, fmt.Sprintf("log_file%d.txt", i))
}

func main() {
	flag.Parse()

	fmt.Println("--- Logger Stress Test ---")
	_ = os.RemoveAll(*logsDir)

	logger, err := asynclog.NewBuilder().
		Level(asynclog.LevelTrace).
		FlushInterval(time.Duration(*flushMs) * time.Millisecond).
		Sanitization(*sanitization).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	if err := logger.SetDestination(logFile(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open first destination: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start logger: %v\n", err)
		os.Exit(1)
	}

	logger.Log(asynclog.LevelDebug, "Start Logging")

	fmt.Printf("Starting stress test: %d workers, %d messages each, %d files.\n", *numWorkers, *perWorker, *numFiles)
	startTime := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		go worker(i, logger, &wg)
	}

	// Cycle destinations while producers are running
	for i := 1; i < *numFiles; i++ {
		if err := logger.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Stop reported: %v\n", err)
		}
		if err := logger.SetDestination(logFile(i)); err != nil {
			fmt.Fprintf(os.Stderr, "SetDestination failed: %v\n", err)
		}
		if err := logger.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Start failed: %v\n", err)
		}
	}

	wg.Wait()
	if err := logger.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	}
	duration := time.Since(startTime)

	stats := logger.Stats()
	fmt.Printf("Finished in %v: accepted=%d drained=%d write_failures=%d drain_passes=%d\n",
		duration.Round(time.Millisecond), stats.Accepted, stats.Drained, stats.WriteFailures, stats.DrainPasses)

	// --- Step 1: verify the files ---
	if err := verify(); err != nil {
		fmt.Fprintf(os.Stderr, "STEP 1 ERROR: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Step 1 passed: every line present exactly once, per-worker order kept.")
	if !*keepLogs {
		_ = os.RemoveAll(*logsDir)
	}

	// --- Step 2: invalid severity must fail construction ---
	if _, err := asynclog.New(10, 50*time.Millisecond); errors.Is(err, asynclog.ErrConfiguration) {
		fmt.Printf("Step 2 passed: %v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "STEP 2 ERROR: expected configuration error, got %v\n", err)
		os.Exit(1)
	}
}

// verify reads the files in cycle order and checks counts and per-worker order
func verify() error {
	next := make([]int, *numWorkers) // next expected iteration, perWorker means exit line seen
	exited := make([]bool, *numWorkers)
	total, starts := 0, 0

	for i := 0; i < *numFiles; i++ {
		f, err := os.Open(logFile(i))
		if err != nil {
			return err
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			total++
			line := scanner.Text()
			idx := strings.Index(line, ": ")
			if idx < 0 {
				f.Close()
				return fmt.Errorf("malformed line in %s: %q", logFile(i), line)
			}
			msg := line[idx+2:]

			var id, iter int
			switch {
			case msg == "Start Logging":
				starts++
			case strings.HasSuffix(msg, " is exiting"):
				if _, err := fmt.Sscanf(msg, "worker #%d is exiting", &id); err != nil || id >= *numWorkers {
					f.Close()
					return fmt.Errorf("bad exit line %q", msg)
				}
				if next[id] != *perWorker || exited[id] {
					f.Close()
					return fmt.Errorf("worker %d exit line out of order", id)
				}
				exited[id] = true
			default:
				if _, err := fmt.Sscanf(msg, "worker #%d is writing to the log: iteration %d", &id, &iter); err != nil || id >= *numWorkers {
					f.Close()
					return fmt.Errorf("bad line %q", msg)
				}
				if iter != next[id] {
					f.Close()
					return fmt.Errorf("worker %d: expected iteration %d, got %d", id, next[id], iter)
				}
				next[id]++
			}
		}
		f.Close()
		if err := scanner.Err(); err != nil {
			return err
		}
	}

	want := 1 + *numWorkers*(*perWorker+1)
	if total != want || starts != 1 {
		return fmt.Errorf("expected %d lines with one start line, got %d lines, %d start lines", want, total, starts)
	}
	for id, done := range exited {
		if !done {
			return fmt.Errorf("worker %d never exited", id)
		}
	}
	return nil
}
