package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"Aria_AI/internal/config"
	"Aria_AI/internal/models"
	"Aria_AI/pkg/logger"
)

// fakeFactDAL keeps facts in insertion order; ListRecent walks it
// backwards to mimic the reverse-chronological Mongo query.
type fakeFactDAL struct {
	facts   []*models.Fact
	listErr error
}

func (f *fakeFactDAL) Insert(ctx context.Context, fact *models.Fact) error {
	for _, existing := range f.facts {
		if existing.ID == fact.ID {
			return ErrDuplicateID
		}
	}
	copied := *fact
	f.facts = append(f.facts, &copied)
	return nil
}

func (f *fakeFactDAL) ListRecent(ctx context.Context, userID string, limit int64) ([]*models.Fact, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Fact
	for i := len(f.facts) - 1; i >= 0; i-- {
		if f.facts[i].UserID == userID {
			out = append(out, f.facts[i])
		}
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeFactDAL) Delete(ctx context.Context, userID, factID string) error {
	for i, fact := range f.facts {
		if fact.UserID == userID && fact.ID == factID {
			f.facts = append(f.facts[:i], f.facts[i+1:]...)
			return nil
		}
	}
	return errors.New("fact not found")
}

func (f *fakeFactDAL) DeleteAll(ctx context.Context, userID string) (int64, error) {
	var kept []*models.Fact
	var deleted int64
	for _, fact := range f.facts {
		if fact.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, fact)
	}
	f.facts = kept
	return deleted, nil
}

func (f *fakeFactDAL) DeleteByCoreField(ctx context.Context, userID, field string) error {
	var kept []*models.Fact
	for _, fact := range f.facts {
		if fact.UserID == userID && fact.CoreField == field {
			continue
		}
		kept = append(kept, fact)
	}
	f.facts = kept
	return nil
}

func (f *fakeFactDAL) UserIDs(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	for _, fact := range f.facts {
		seen[fact.UserID] = true
	}
	var ids []string
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeFactDAL) TrimToLimit(ctx context.Context, userID string, max int) (int64, error) {
	return 0, nil
}

type fakePrefDAL struct {
	prefs []*models.Preference
}

func (f *fakePrefDAL) Upsert(ctx context.Context, pref *models.Preference) error {
	for _, existing := range f.prefs {
		if existing.UserID == pref.UserID && existing.Category == pref.Category {
			existing.Value = pref.Value
			existing.UpdatedAt = pref.UpdatedAt
			return nil
		}
	}
	copied := *pref
	f.prefs = append(f.prefs, &copied)
	return nil
}

func (f *fakePrefDAL) List(ctx context.Context, userID string) ([]*models.Preference, error) {
	var out []*models.Preference
	for _, pref := range f.prefs {
		if pref.UserID == userID {
			out = append(out, pref)
		}
	}
	return out, nil
}

func newTestService(facts *fakeFactDAL) *Service {
	cfg := &config.MemoryConfig{DedupWindow: 50, ContextLimit: 20}
	return NewService(facts, &fakePrefDAL{}, cfg, logger.New("memory_test", "", ""))
}

func TestSaveRejectsExactDuplicate(t *testing.T) {
	dal := &fakeFactDAL{}
	svc := newTestService(dal)
	ctx := context.Background()

	first, err := svc.Save(ctx, "u1", "User is a teacher", models.SourceConversation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == "" {
		t.Fatal("expected an ID for the first save")
	}

	second, err := svc.Save(ctx, "u1", "user is a teacher", models.SourceConversation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != "" {
		t.Errorf("expected empty ID for duplicate, got %q", second)
	}
	if len(dal.facts) != 1 {
		t.Errorf("expected 1 stored fact, got %d", len(dal.facts))
	}
}

func TestSaveRejectsSubstringContainment(t *testing.T) {
	dal := &fakeFactDAL{}
	svc := newTestService(dal)
	ctx := context.Background()

	if _, err := svc.Save(ctx, "u1", "User lives in Berlin and works remotely", models.SourceConversation); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// New content contained in an existing fact.
	id, err := svc.Save(ctx, "u1", "lives in Berlin", models.SourceConversation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "" {
		t.Errorf("expected duplicate for contained content, got %q", id)
	}

	// Existing fact contained in the new content.
	id, err = svc.Save(ctx, "u1", "User lives in Berlin and works remotely for a startup", models.SourceConversation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "" {
		t.Errorf("expected duplicate for containing content, got %q", id)
	}
	if len(dal.facts) != 1 {
		t.Errorf("expected 1 stored fact, got %d", len(dal.facts))
	}
}

func TestSaveIsScopedPerUser(t *testing.T) {
	dal := &fakeFactDAL{}
	svc := newTestService(dal)
	ctx := context.Background()

	id1, _ := svc.Save(ctx, "u1", "User is a teacher", models.SourceConversation)
	id2, _ := svc.Save(ctx, "u2", "User is a teacher", models.SourceConversation)
	if id1 == "" || id2 == "" {
		t.Fatal("same content for different users must both be stored")
	}
	if id1 == id2 {
		t.Error("fact IDs must be scoped per user")
	}
}

func TestSaveBatchDedupsWithinBatch(t *testing.T) {
	dal := &fakeFactDAL{}
	svc := newTestService(dal)

	ids, err := svc.SaveBatch(context.Background(), "u1",
		[]string{"User is a teacher", "user is a teacher"}, models.SourceConversation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("expected 1 saved ID, got %d", len(ids))
	}
	if len(dal.facts) != 1 {
		t.Errorf("expected 1 stored fact, got %d", len(dal.facts))
	}
}

func TestSaveBatchSkipsShortItems(t *testing.T) {
	dal := &fakeFactDAL{}
	svc := newTestService(dal)

	ids, err := svc.SaveBatch(context.Background(), "u1",
		[]string{"ok", "  a  ", "User likes tea"}, models.SourceConversation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("expected 1 saved ID, got %d", len(ids))
	}
	if len(dal.facts) != 1 || dal.facts[0].Content != "User likes tea" {
		t.Errorf("unexpected stored facts: %+v", dal.facts)
	}
}

func TestFactIDIsStable(t *testing.T) {
	a := FactID("u1", "  User Likes Tea ")
	b := FactID("u1", "user likes tea")
	if a != b {
		t.Errorf("normalized content must hash identically: %q vs %q", a, b)
	}
	if len(a) != 16 {
		t.Errorf("expected 16-char ID, got %d", len(a))
	}
}

func TestRenderContextFormat(t *testing.T) {
	dal := &fakeFactDAL{}
	prefs := &fakePrefDAL{}
	cfg := &config.MemoryConfig{DedupWindow: 50, ContextLimit: 20}
	svc := NewService(dal, prefs, cfg, logger.New("memory_test", "", ""))
	ctx := context.Background()

	if _, err := svc.Save(ctx, "u1", "User is learning Go", models.SourceConversation); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.SavePreference(ctx, "u1", "communication_style", "concise"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := svc.RenderContext(ctx, "u1", 10)
	if !strings.HasPrefix(got, "Relevant memories about the user:\n") {
		t.Errorf("missing header: %q", got)
	}
	if !strings.Contains(got, "- User is learning Go") {
		t.Errorf("missing fact line: %q", got)
	}
	if !strings.Contains(got, "- User preference (communication_style): concise") {
		t.Errorf("missing preference line: %q", got)
	}
}

func TestRenderContextEmptyAndOnFailure(t *testing.T) {
	dal := &fakeFactDAL{}
	svc := newTestService(dal)
	ctx := context.Background()

	if got := svc.RenderContext(ctx, "nobody", 10); got != "" {
		t.Errorf("expected empty context for user without memories, got %q", got)
	}

	dal.listErr = errors.New("mongo down")
	if got := svc.RenderContext(ctx, "u1", 10); got != "" {
		t.Errorf("expected empty context on retrieval failure, got %q", got)
	}
}

func TestClearAllReturnsCount(t *testing.T) {
	dal := &fakeFactDAL{}
	svc := newTestService(dal)
	ctx := context.Background()

	svc.Save(ctx, "u1", "User likes tea", models.SourceManual)
	svc.Save(ctx, "u1", "User plays chess", models.SourceManual)
	svc.Save(ctx, "u2", "User likes coffee", models.SourceManual)

	count, err := svc.ClearAll(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 deleted, got %d", count)
	}
	remaining, _ := svc.List(ctx, "u2", 0)
	if len(remaining) != 1 {
		t.Errorf("other users' facts must survive, got %d", len(remaining))
	}
}

func TestSyncCoreFactReplacesPrevious(t *testing.T) {
	dal := &fakeFactDAL{}
	svc := newTestService(dal)
	ctx := context.Background()

	if err := svc.SyncCoreFact(ctx, "u1", "core_nickname", "User's name/nickname is Ann"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.SyncCoreFact(ctx, "u1", "core_nickname", "User's name/nickname is Beth"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	facts, _ := svc.List(ctx, "u1", 0)
	if len(facts) != 1 {
		t.Fatalf("expected 1 core fact, got %d", len(facts))
	}
	if facts[0].Content != "User's name/nickname is Beth" {
		t.Errorf("unexpected content: %q", facts[0].Content)
	}
	if !facts[0].Core || facts[0].CoreField != "core_nickname" {
		t.Errorf("core markers not set: %+v", facts[0])
	}

	// Clearing the field removes the fact.
	if err := svc.SyncCoreFact(ctx, "u1", "core_nickname", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	facts, _ = svc.List(ctx, "u1", 0)
	if len(facts) != 0 {
		t.Errorf("expected no facts after clearing, got %d", len(facts))
	}
}
