package customHttpClient

import (
	"net/http"

	"github.com/plantdoc/PlantRAG/internal/config"
)

var pooledTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// New returns a client sharing the pooled transport. The llama.cpp embedder
// issues one request per text, so connection reuse matters there. No client
// timeout is set: blocking calls bound themselves with request contexts and
// streaming responses outlive any fixed timeout.
func New() *http.Client {
	return &http.Client{Transport: pooledTransport}
}
