package config

import (
	"fmt"
	"os"
	"strconv"
)

// Settings holds everything that can be overridden through the environment.
// It is populated once at startup and passed by handle; nothing mutates it
// at request time.
type Settings struct {
	ListenAddr string

	//backend selection: "gemini" or "llamacpp"
	EmbedderBackend string
	LLMBackend      string

	GoogleAPIKey string
	LlamaBaseURL string
	LlamaAPIKey  string
	LlamaModel   string

	QdrantHost string
	QdrantPort int

	RedisAddr     string
	RedisPassword string

	CorpusDir string

	//ChunkStrategy selects the ingestion chunker: "fixed" or "semantic"
	ChunkStrategy string

	//FailOpen keeps serving with a diagnostic placeholder context when
	//retrieval fails instead of failing the request
	FailOpen bool

	//MakeWorldAccessible replicates the observed deployment knob that
	//chmods the corpus directory world read/write after ingestion
	MakeWorldAccessible bool
}

func LoadSettings() (*Settings, error) {
	s := &Settings{
		ListenAddr:          envOr("LISTEN_ADDR", ServerListenAddr),
		EmbedderBackend:     envOr("EMBEDDER_BACKEND", "gemini"),
		LLMBackend:          envOr("LLM_BACKEND", "gemini"),
		GoogleAPIKey:        os.Getenv("GOOGLE_API_KEY"),
		LlamaBaseURL:        envOr("LLAMA_BASE_URL", LlamaBaseURL),
		LlamaAPIKey:         os.Getenv("LLAMA_API_KEY"),
		LlamaModel:          envOr("LLAMA_MODEL", LlamaModelName),
		QdrantHost:          envOr("QDRANT_HOST", "localhost"),
		QdrantPort:          envIntOr("QDRANT_PORT", QdrantGrpcPort),
		RedisAddr:           envOr("REDIS_ADDR", RedisAddr),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		CorpusDir:           envOr("CORPUS_DIR", CorpusDir),
		ChunkStrategy:       envOr("CHUNK_STRATEGY", "fixed"),
		FailOpen:            envBoolOr("RAG_FAIL_OPEN", true),
		MakeWorldAccessible: envBoolOr("INGEST_WORLD_ACCESS", false),
	}
	return s, s.validate()
}

// validate enforces the startup contract: a missing credential for the
// selected backend is fatal, the process must not start.
func (s *Settings) validate() error {
	if s.EmbedderBackend == "gemini" || s.LLMBackend == "gemini" {
		if s.GoogleAPIKey == "" {
			return fmt.Errorf("config: GOOGLE_API_KEY environment variable not set")
		}
	}
	if s.EmbedderBackend == "llamacpp" || s.LLMBackend == "llamacpp" {
		if s.LlamaBaseURL == "" {
			return fmt.Errorf("config: LLAMA_BASE_URL environment variable not set")
		}
	}
	switch s.EmbedderBackend {
	case "gemini", "llamacpp":
	default:
		return fmt.Errorf("config: unknown embedder backend %q", s.EmbedderBackend)
	}
	switch s.LLMBackend {
	case "gemini", "llamacpp":
	default:
		return fmt.Errorf("config: unknown llm backend %q", s.LLMBackend)
	}
	switch s.ChunkStrategy {
	case "fixed", "semantic":
	default:
		return fmt.Errorf("config: unknown chunk strategy %q", s.ChunkStrategy)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
