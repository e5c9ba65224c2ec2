package rag

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"Aria_AI/internal/models"
	"Aria_AI/pkg/logger"
)

type fakeDocumentDAL struct {
	docs      map[string]*models.Document
	insertErr error
}

func newFakeDocumentDAL() *fakeDocumentDAL {
	return &fakeDocumentDAL{docs: make(map[string]*models.Document)}
}

func (f *fakeDocumentDAL) Insert(ctx context.Context, doc *models.Document) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeDocumentDAL) Get(ctx context.Context, documentID string) (*models.Document, error) {
	return f.docs[documentID], nil
}

func (f *fakeDocumentDAL) ListByConversation(ctx context.Context, conversationID string) ([]*models.Document, error) {
	var out []*models.Document
	for _, d := range f.docs {
		if d.ConversationID == conversationID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocumentDAL) Delete(ctx context.Context, documentID string) error {
	delete(f.docs, documentID)
	return nil
}

type fakeBlobStore struct {
	objects map[string][]byte
	putErr  error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (f *fakeBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeBlobStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://blobs.example/" + key, nil
}

func newTestIngestor(chunks *fakeChunkDAL, docs *fakeDocumentDAL, blobs *fakeBlobStore, emb *fakeEmbedder) *Ingestor {
	return NewIngestor(NewChunker(1000, 200), emb, docs, chunks, blobs, logger.New("rag_test", "", ""))
}

func TestIngestStoresChunksBlobAndMetadata(t *testing.T) {
	chunks := &fakeChunkDAL{}
	docs := newFakeDocumentDAL()
	blobs := newFakeBlobStore()
	ing := newTestIngestor(chunks, docs, blobs, &fakeEmbedder{vec: []float32{1, 0}})

	text := strings.Repeat("one sentence here. ", 120) // ~2280 chars, multiple chunks
	res, err := ing.Ingest(context.Background(), []byte(text), "notes.txt", "user1", "conv1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.ConversationID != "conv1" {
		t.Errorf("conversation id changed: %q", res.ConversationID)
	}
	if res.ChunkCount < 2 {
		t.Errorf("expected several chunks, got %d", res.ChunkCount)
	}
	if len(chunks.chunks) != res.ChunkCount {
		t.Errorf("stored %d chunks, result says %d", len(chunks.chunks), res.ChunkCount)
	}
	for i, c := range chunks.chunks {
		if c.DocumentID != res.DocumentID || c.Index != i {
			t.Errorf("chunk %d mis-keyed: doc=%q index=%d", i, c.DocumentID, c.Index)
		}
		if len(c.Embedding) == 0 {
			t.Errorf("chunk %d has no embedding", i)
		}
	}

	doc := docs.docs[res.DocumentID]
	if doc == nil {
		t.Fatal("document metadata not stored")
	}
	if doc.ChunkCount != res.ChunkCount || doc.UserID != "user1" {
		t.Errorf("metadata mismatch: %+v", doc)
	}
	if _, ok := blobs.objects[doc.StorageKey]; !ok {
		t.Errorf("blob not stored under %q", doc.StorageKey)
	}
	wantPrefix := "user1/conv1/" + res.DocumentID + "/"
	if !strings.HasPrefix(doc.StorageKey, wantPrefix) {
		t.Errorf("storage key %q missing prefix %q", doc.StorageKey, wantPrefix)
	}
}

func TestIngestMintsConversationID(t *testing.T) {
	ing := newTestIngestor(&fakeChunkDAL{}, newFakeDocumentDAL(), newFakeBlobStore(), &fakeEmbedder{vec: []float32{1}})

	res, err := ing.Ingest(context.Background(), []byte("some document text"), "a.txt", "u", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ConversationID == "" {
		t.Error("expected a generated conversation id")
	}
}

func TestIngestRejectsEmptyText(t *testing.T) {
	ing := newTestIngestor(&fakeChunkDAL{}, newFakeDocumentDAL(), newFakeBlobStore(), &fakeEmbedder{vec: []float32{1}})

	_, err := ing.Ingest(context.Background(), []byte("   \n\t  "), "blank.txt", "u", "c")
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestIngestEmbeddingFailureIsFatal(t *testing.T) {
	docs := newFakeDocumentDAL()
	blobs := newFakeBlobStore()
	ing := newTestIngestor(&fakeChunkDAL{}, docs, blobs, &fakeEmbedder{err: errors.New("embedder down")})

	_, err := ing.Ingest(context.Background(), []byte("real document text"), "a.txt", "u", "c")
	if err == nil {
		t.Fatal("expected an error when embedding fails")
	}
	if len(docs.docs) != 0 || len(blobs.objects) != 0 {
		t.Error("nothing should be stored when embedding fails")
	}
}

func TestIngestStorageFailureLeavesNoMetadata(t *testing.T) {
	docs := newFakeDocumentDAL()
	blobs := newFakeBlobStore()
	blobs.putErr = errors.New("minio down")
	ing := newTestIngestor(&fakeChunkDAL{}, docs, blobs, &fakeEmbedder{vec: []float32{1}})

	_, err := ing.Ingest(context.Background(), []byte("real document text"), "a.txt", "u", "c")
	if err == nil {
		t.Fatal("expected an error when blob storage fails")
	}
	if len(docs.docs) != 0 {
		t.Error("metadata must not be visible when content storage failed")
	}
}

func TestIngestFailureLeavesNoRetrievableChunks(t *testing.T) {
	chunks := &fakeChunkDAL{}
	blobs := newFakeBlobStore()
	blobs.putErr = errors.New("minio down")
	ing := newTestIngestor(chunks, newFakeDocumentDAL(), blobs, &fakeEmbedder{vec: []float32{1, 0}})

	_, err := ing.Ingest(context.Background(), []byte("real document text"), "a.txt", "u", "c")
	if err == nil {
		t.Fatal("expected an error when blob storage fails")
	}
	if len(chunks.chunks) != 0 {
		t.Fatalf("%d chunks left behind by failed ingest", len(chunks.chunks))
	}

	idx := newTestIndex(chunks, &fakeEmbedder{vec: []float32{1, 0}})
	if idx.HasDocuments(context.Background(), "c") {
		t.Error("failed ingest must not make the conversation look populated")
	}
	if text, count := idx.Context(context.Background(), "real document text", "c", 5); text != "" || count != 0 {
		t.Errorf("failed ingest still retrievable: %q (%d chunks)", text, count)
	}
}

func TestIngestMetadataFailureLeavesNoRetrievableChunks(t *testing.T) {
	chunks := &fakeChunkDAL{}
	docs := newFakeDocumentDAL()
	docs.insertErr = errors.New("mongo down")
	blobs := newFakeBlobStore()
	ing := newTestIngestor(chunks, docs, blobs, &fakeEmbedder{vec: []float32{1, 0}})

	_, err := ing.Ingest(context.Background(), []byte("real document text"), "a.txt", "u", "c")
	if err == nil {
		t.Fatal("expected an error when the metadata insert fails")
	}
	if len(chunks.chunks) != 0 {
		t.Fatalf("%d chunks left behind by failed ingest", len(chunks.chunks))
	}
	if len(blobs.objects) != 0 {
		t.Error("blob left behind by failed ingest")
	}
}

func TestDeleteChecksOwnership(t *testing.T) {
	chunks := &fakeChunkDAL{}
	docs := newFakeDocumentDAL()
	blobs := newFakeBlobStore()
	ing := newTestIngestor(chunks, docs, blobs, &fakeEmbedder{vec: []float32{1}})

	res, err := ing.Ingest(context.Background(), []byte("owned document text"), "a.txt", "owner", "c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ing.Delete(context.Background(), res.DocumentID, "intruder"); err == nil {
		t.Error("expected delete by non-owner to fail")
	}
	if err := ing.Delete(context.Background(), res.DocumentID, "owner"); err != nil {
		t.Errorf("owner delete failed: %v", err)
	}
	if len(docs.docs) != 0 || len(blobs.objects) != 0 {
		t.Error("document remnants left after delete")
	}
}

func TestSanitizeFilename(t *testing.T) {
	got := sanitizeFilename("../etc/pass wd.txt")
	if strings.ContainsAny(got, "/\\ ") || strings.Contains(got, "..") {
		t.Errorf("unsafe key segment: %q", got)
	}
}
