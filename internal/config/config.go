package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//server timeouts; no write timeout, streamed answers can be long-lived
	ReadTimeout            = 5 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	ServerListenAddr = ":3000"

	//retrieval
	KnowledgeCollection          = "plant-knowledge"
	DefaultTopK                  = 5
	HistoryOnlyTopK              = 3 //the /rag and /stream endpoints
	MaxChunkLen                  = 500
	CacheSimilarityCutoff        = 0.97
	EmbeddingOutputDimensionality int32 = 1536

	//per-request deadlines on the blocking path
	RequestTimeout   = 30 * time.Second
	EmbeddingTimeout = 15 * time.Second

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1

	//llm
	GeminiModelName      = "gemini-2.0-flash"
	GoogleEmbeddingModel = "gemini-embedding-001"
	LlamaModelName       = "llama3.2:1B"
	LlamaBaseURL         = "http://localhost:8080"

	//http client pooling
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis answer cache
	RedisAddr           = "127.0.0.1:6379"
	RedisAnswerCacheDB  = 0
	RedisAnswerCacheTTL = 24 * time.Hour

	//ingestion
	CorpusDir            = "./text_files"
	CategoryPrefixLen    = 3 //corpus filenames carry a fixed ordering prefix
	IngestEmbedBatchSize = 100
)
