package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/lixenwraith/dlog"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[dlog]
  output_file = "./simple_output.log"
  diagnostics_file = "./simple_diagnostics.log"
  enable_file = true
  enable_console = true
  console_target = "stdout"
  max_size_kb = 5120
  diag_max_size_kb = 2048
  # Other settings use defaults
`

func main() {
	fmt.Println("--- Simple dlog Example ---")

	// Create dummy config file
	if err := os.WriteFile(configFile, []byte(tomlContent), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		// Continue with defaults potentially
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
	}

	cfg, err := dlog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		cfg = dlog.DefaultConfig()
	}

	logger := dlog.NewLogger()
	if err := logger.ApplyConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to apply config: %v\n", err)
		os.Exit(1)
	}
	defer logger.Shutdown()

	if logger.DetectPreviousCrash() {
		fmt.Println("Previous run crashed mid-scope; sentinel written to diagnostics log")
	}

	run(logger)

	fmt.Println("Done. Inspect simple_output.log and simple_diagnostics.log")
}

func run(logger *dlog.Logger) {
	defer logger.Trace().End()

	// One-shot message
	logger.Print("starting work,", "workers:", 4)

	// Builder with the no-space mode toggle
	logger.NewMessage().
		Append("progress").
		Nospace().Append(":", 50, "%").
		Space().Append("halfway there").
		Commit()

	// Scoped commit on every exit path
	logger.WithMessage(func(m *dlog.Message) {
		m.Append("config applied,", "console:", true)
	})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker(logger, id)
		}(i)
	}
	wg.Wait()
}

func worker(logger *dlog.Logger, id int) {
	scope := logger.Trace(fmt.Sprintf("worker-%d", id))
	defer scope.End()

	scope.Mark("processing")
	logger.Print("worker", id, "finished")
}
