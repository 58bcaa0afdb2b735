package commonModels

import "time"

// Document is one named unit of reference text. Category is the
// plant-disease class derived from the source filename.
type Document struct {
	Name                string    `json:"doc_name"`
	Category            string    `json:"category"`
	LastIngestTimestamp time.Time `json:"ingested_at"`
	ContentType         DocType   `json:"contentType"`
}

// DocChunk is the unit of indexing and retrieval: a bounded slice of a
// document's text together with its category label. ChunkId is
// deterministic ("{category}_{ordinal}") so re-ingesting an unchanged
// corpus upserts in place instead of duplicating.
type DocChunk struct {
	Doc      Document
	ChunkId  string `json:"chunk_id"`
	Chunk    string `json:"content"`
	Category string `json:"category"`
	Ordinal  int    `json:"chunk_order"`
}

type DocType string

var (
	PDF  DocType = "PDF"
	DOCX DocType = "DOCX"
	TXT  DocType = "TXT"
	ERR  DocType = "ERROR"
)
