package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/asynclog"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[log]
  level = 0 # Trace
  destination = "./simple_logs/simple.log"
  format = "txt"
  flush_interval_ms = 100
  # Other settings use defaults
`

func main() {
	fmt.Println("--- Simple Logger Example ---")

	err := os.WriteFile(configFile, []byte(tomlContent), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		// Continue with defaults
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
	}

	cfg, err := asynclog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Command line style overrides on top of the file
	if err := cfg.ApplyOverride(os.Args[1:]...); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid override: %v\n", err)
		os.Exit(1)
	}

	logger, err := asynclog.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start logger: %v\n", err)
		os.Exit(1)
	}
	asynclog.SetDefault(logger)
	fmt.Println("Logger initialized.")

	// --- Logging ---
	asynclog.Trace("This is a trace message.", "user_id", 123)
	asynclog.Debug("This is a debug message.")
	asynclog.Info("Application starting...")
	asynclog.Error("An error occurred!", "code", 500)
	asynclog.Info("Structured values are written on one line:", map[string]int{"retries": 3, "code": 500})

	// Logging from goroutines
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			asynclog.Info("Goroutine started", "id", id)
			time.Sleep(time.Duration(50+id*50) * time.Millisecond)
			asynclog.Info("Goroutine finished", "id", id)
		}(i)
	}

	wg.Wait()
	fmt.Println("Goroutines finished.")

	fmt.Println("Shutting down logger...")
	if err := asynclog.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	} else {
		fmt.Println("Logger shutdown complete.")
	}

	fmt.Println("--- Example Finished ---")
	fmt.Printf("Check log file '%s'.\n", cfg.Destination)
}
