package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort string

	QdrantURL        string
	QdrantCollection string
	QdrantVectorSize int

	EmbeddingBaseURL   string
	EmbeddingAPIKey    string
	EmbeddingModelName string

	TopK                int
	VectorWeight        float64
	KeywordWeight       float64
	LexicalWeight       float64
	SimilarityThreshold float64
	FinalScoreThreshold float64
	ScoreMargin         float64
	UseFuzzy            bool
	ScrollPageSize      int

	DBPath      string
	DatasetPath string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIPort:            getEnv("API_PORT", "9000"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "qa_pairs"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", ""),
		EmbeddingAPIKey:    getEnv("EMBEDDING_API_KEY", "dummy-key"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL", "text-embedding-004"),
		DBPath:             getEnv("DB_PATH", "./data/faqbot.db"),
		DatasetPath:        getEnv("DATASET_PATH", "./data/qa_dataset.xlsx"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	if cfg.EmbeddingBaseURL == "" {
		return nil, fmt.Errorf("EMBEDDING_BASE_URL is required")
	}

	// The vector size must match the output dimension of the embeddings
	// model. If it changes, the Qdrant collection must be recreated.
	cfg.QdrantVectorSize, err = getEnvInt("QDRANT_VECTOR_SIZE", 768)
	if err != nil {
		return nil, err
	}
	if cfg.QdrantVectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}

	cfg.TopK, err = getEnvInt("TOP_K", 5)
	if err != nil {
		return nil, err
	}
	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("TOP_K must be greater than 0")
	}

	cfg.ScrollPageSize, err = getEnvInt("SCROLL_PAGE_SIZE", 100)
	if err != nil {
		return nil, err
	}
	if cfg.ScrollPageSize <= 0 {
		return nil, fmt.Errorf("SCROLL_PAGE_SIZE must be greater than 0")
	}

	floats := []struct {
		key string
		def float64
		dst *float64
	}{
		{"VECTOR_WEIGHT", 0.5, &cfg.VectorWeight},
		{"KEYWORD_WEIGHT", 0.3, &cfg.KeywordWeight},
		{"LEXICAL_WEIGHT", 0.2, &cfg.LexicalWeight},
		{"SIMILARITY_THRESHOLD", 0.6, &cfg.SimilarityThreshold},
		{"FINAL_SCORE_THRESHOLD", 0.3, &cfg.FinalScoreThreshold},
		{"SCORE_MARGIN", 0.1, &cfg.ScoreMargin},
	}
	for _, f := range floats {
		v, err := getEnvFloat(f.key, f.def)
		if err != nil {
			return nil, err
		}
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("%s must be within [0,1]", f.key)
		}
		*f.dst = v
	}

	cfg.UseFuzzy, err = getEnvBool("USE_FUZZY", true)
	if err != nil {
		return nil, err
	}

	// Create the data directory for the seeder ledger if needed
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return parsed, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return parsed, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a valid boolean: %w", key, err)
	}
	return parsed, nil
}
