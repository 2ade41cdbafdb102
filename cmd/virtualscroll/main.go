package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/user/virtualscroll/internal/core"
	"github.com/user/virtualscroll/internal/ui"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// CLIFlags holds all command-line flags
type CLIFlags struct {
	totalItems        int
	chunkCapacity     int
	estimatedSize     float64
	horizontal        bool
	bufferItems       int
	overscanItems     int
	maxResidentChunks int
	updateBatchSize   int

	version bool
	help    bool
}

func parseFlags() *CLIFlags {
	flags := &CLIFlags{}

	flag.IntVar(&flags.totalItems, "items", 0, "Number of items in the synthetic feed")
	flag.IntVar(&flags.chunkCapacity, "chunk-capacity", 0, "Item slots per chunk")
	flag.Float64Var(&flags.estimatedSize, "estimated-size", 0, "Estimated pixels per item before measurement")
	flag.BoolVar(&flags.horizontal, "horizontal", false, "Treat sizes as widths instead of heights")
	flag.IntVar(&flags.bufferItems, "buffer", -1, "Items rendered just outside the viewport on each side")
	flag.IntVar(&flags.overscanItems, "overscan", -1, "Extra items beyond the buffer for fast scrolling")
	flag.IntVar(&flags.maxResidentChunks, "max-resident-chunks", 0, "Cap on chunks of measured sizes held in memory")
	flag.IntVar(&flags.updateBatchSize, "update-batch-size", 0, "Measured sizes flushed to the index per batch")

	flag.BoolVar(&flags.version, "version", false, "Print version information and quit")
	flag.BoolVar(&flags.version, "v", false, "Shorthand for --version")
	flag.BoolVar(&flags.help, "help", false, "Show help message")
	flag.BoolVar(&flags.help, "h", false, "Shorthand for --help")

	flag.Parse()
	return flags
}

// loadConfigWithFlags loads configuration with CLI flag overrides
func loadConfigWithFlags(flags *CLIFlags) (*core.Config, error) {
	config, err := core.LoadConfig()
	if err != nil {
		return nil, err
	}

	if flags.totalItems > 0 {
		config.TotalItems = flags.totalItems
	}
	if flags.chunkCapacity > 0 {
		config.ChunkCapacity = flags.chunkCapacity
	}
	if flags.estimatedSize > 0 {
		config.EstimatedSize = flags.estimatedSize
	}
	if flags.horizontal {
		config.Horizontal = true
	}
	if flags.bufferItems >= 0 {
		config.BufferItems = flags.bufferItems
	}
	if flags.overscanItems >= 0 {
		config.OverscanItems = flags.overscanItems
	}
	if flags.maxResidentChunks > 0 {
		config.MaxResidentChunks = flags.maxResidentChunks
	}
	if flags.updateBatchSize > 0 {
		config.UpdateBatchSize = flags.updateBatchSize
	}

	return config, nil
}

func main() {
	flags := parseFlags()

	if flags.version {
		fmt.Printf("virtualscroll %s (commit %s, built %s)\n", Version, Commit, BuildTime)
		os.Exit(0)
	}
	if flags.help {
		flag.Usage()
		os.Exit(0)
	}

	config, err := loadConfigWithFlags(flags)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	state := core.NewState(config)

	app, err := ui.NewApp(state, config)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running application: %v", err)
	}
}
