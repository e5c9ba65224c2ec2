package models

import "time"

// Document records the metadata of one uploaded file. The original
// bytes live in object storage; the derived chunks live alongside in
// the chunk collection.
type Document struct {
	ID             string    `json:"id" bson:"_id"`
	Filename       string    `json:"filename" bson:"filename"`
	UserID         string    `json:"user_id" bson:"user_id"`
	ConversationID string    `json:"conversation_id" bson:"conversation_id"`
	ChunkCount     int       `json:"chunk_count" bson:"chunk_count"`
	TextLength     int       `json:"text_length" bson:"text_length"`
	StorageKey     string    `json:"-" bson:"storage_key"` // Object key of the original blob
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// Chunk is one embedded slice of a document. IDs follow
// "{documentID}_chunk_{index}" so chunk identity is stable per document.
type Chunk struct {
	ID             string    `json:"id" bson:"_id"`
	DocumentID     string    `json:"document_id" bson:"document_id"`
	ConversationID string    `json:"conversation_id" bson:"conversation_id"`
	UserID         string    `json:"user_id" bson:"user_id"`
	Index          int       `json:"index" bson:"index"` // 0-based, order-significant
	Text           string    `json:"text" bson:"text"`
	Embedding      []float32 `json:"-" bson:"embedding"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// RetrievedChunk is a chunk scored against a query.
type RetrievedChunk struct {
	Text       string  `json:"text"`
	DocumentID string  `json:"document_id"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`
}

// IngestResult summarizes a completed document ingestion.
type IngestResult struct {
	DocumentID     string `json:"document_id"`
	ConversationID string `json:"conversation_id"`
	Filename       string `json:"filename"`
	ChunkCount     int    `json:"chunk_count"`
	TextLength     int    `json:"text_length"`
}
