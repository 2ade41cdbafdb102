package core

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	TotalItems        int
	ChunkCapacity     int
	EstimatedSize     float64 // pixels per item before measurement
	Horizontal        bool
	BufferItems       int
	OverscanItems     int
	MaxResidentChunks int
	UpdateBatchSize   int // measured sizes flushed to the index per batch
	RowPixels         int // nominal pixels one terminal row represents
}

// LoadConfig loads the application configuration with env fallbacks
func LoadConfig() (*Config, error) {
	config := &Config{
		TotalItems:        2_000_000,
		ChunkCapacity:     100,
		EstimatedSize:     24,
		BufferItems:       5,
		OverscanItems:     3,
		MaxResidentChunks: 100,
		UpdateBatchSize:   10,
		RowPixels:         24,
	}

	if err := envInt("VIRTUALSCROLL_TOTAL_ITEMS", &config.TotalItems); err != nil {
		return nil, err
	}
	if err := envInt("VIRTUALSCROLL_CHUNK_CAPACITY", &config.ChunkCapacity); err != nil {
		return nil, err
	}
	if err := envInt("VIRTUALSCROLL_MAX_RESIDENT_CHUNKS", &config.MaxResidentChunks); err != nil {
		return nil, err
	}
	if err := envInt("VIRTUALSCROLL_UPDATE_BATCH_SIZE", &config.UpdateBatchSize); err != nil {
		return nil, err
	}
	if err := envFloat("VIRTUALSCROLL_ESTIMATED_SIZE", &config.EstimatedSize); err != nil {
		return nil, err
	}

	return config, nil
}

func envInt(name string, dst *int) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s=%q: %w", name, raw, err)
	}
	*dst = v
	return nil
}

func envFloat(name string, dst *float64) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid %s=%q: %w", name, raw, err)
	}
	*dst = v
	return nil
}
