package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"Aria_AI/internal/config"
	"Aria_AI/internal/models"
	"Aria_AI/pkg/logger"
)

// minFactLength is the shortest trimmed content SaveBatch accepts.
const minFactLength = 4

// Service is the long-term memory store. It persists discrete facts
// about a user, deduplicating on save, and renders them as prompt
// context.
type Service struct {
	facts        FactDAL
	prefs        PreferenceDAL
	dedupWindow  int
	contextLimit int
	log          *logger.Logger
}

// NewService creates a memory Service.
func NewService(facts FactDAL, prefs PreferenceDAL, cfg *config.MemoryConfig, log *logger.Logger) *Service {
	return &Service{
		facts:        facts,
		prefs:        prefs,
		dedupWindow:  cfg.DedupWindow,
		contextLimit: cfg.ContextLimit,
		log:          log,
	}
}

// FactID derives the storage key of a fact: a short hash of the
// normalized content, scoped by user. Re-saving identical content
// yields the same key, so inserts are idempotent even when the
// duplicate scan misses.
func FactID(userID, content string) string {
	sum := sha256.Sum256([]byte(userID + ":" + normalize(content)))
	return hex.EncodeToString(sum[:])[:16]
}

func normalize(content string) string {
	return strings.ToLower(strings.TrimSpace(content))
}

// Save stores a fact unless an equivalent one already exists. The scan
// covers the most recent dedupWindow facts and treats exact normalized
// matches and substring containment in either direction as duplicates.
// A duplicate is a normal no-op outcome: empty ID, nil error.
func (s *Service) Save(ctx context.Context, userID, content string, source models.FactSource) (string, error) {
	return s.save(ctx, userID, content, source, false, "")
}

func (s *Service) save(ctx context.Context, userID, content string, source models.FactSource, core bool, coreField string) (string, error) {
	norm := normalize(content)
	if norm == "" {
		return "", nil
	}

	recent, err := s.facts.ListRecent(ctx, userID, int64(s.dedupWindow))
	if err != nil {
		return "", fmt.Errorf("failed to scan for duplicates: %w", err)
	}
	for _, existing := range recent {
		en := normalize(existing.Content)
		if en == norm || strings.Contains(en, norm) || strings.Contains(norm, en) {
			return "", nil
		}
	}

	fact := &models.Fact{
		ID:        FactID(userID, content),
		UserID:    userID,
		Content:   strings.TrimSpace(content),
		Source:    source,
		Core:      core,
		CoreField: coreField,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.facts.Insert(ctx, fact); err != nil {
		if err == ErrDuplicateID {
			// Identical content raced past the scan; same no-op outcome.
			return "", nil
		}
		return "", err
	}
	return fact.ID, nil
}

// SaveBatch applies Save per item in input order, skipping items
// shorter than four characters after trimming. Facts saved earlier in
// the batch are visible to later duplicate scans. The result holds the
// IDs of the facts actually stored.
func (s *Service) SaveBatch(ctx context.Context, userID string, contents []string, source models.FactSource) ([]string, error) {
	var ids []string
	for _, content := range contents {
		if len(strings.TrimSpace(content)) < minFactLength {
			continue
		}
		id, err := s.Save(ctx, userID, content, source)
		if err != nil {
			return ids, err
		}
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// SyncCoreFact mirrors one profile field into the fact store, replacing
// the previous core fact for that field. An empty content just clears
// the field.
func (s *Service) SyncCoreFact(ctx context.Context, userID, field, content string) error {
	if err := s.facts.DeleteByCoreField(ctx, userID, field); err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return nil
	}
	_, err := s.save(ctx, userID, content, models.SourceSettings, true, field)
	return err
}

// List returns the user's facts, newest first.
func (s *Service) List(ctx context.Context, userID string, limit int64) ([]*models.Fact, error) {
	return s.facts.ListRecent(ctx, userID, limit)
}

// Delete removes one fact.
func (s *Service) Delete(ctx context.Context, userID, factID string) error {
	return s.facts.Delete(ctx, userID, factID)
}

// ClearAll removes every fact of the user and returns the count.
func (s *Service) ClearAll(ctx context.Context, userID string) (int64, error) {
	return s.facts.DeleteAll(ctx, userID)
}

// SavePreference upserts a single-valued preference.
func (s *Service) SavePreference(ctx context.Context, userID, category, value string) error {
	return s.prefs.Upsert(ctx, &models.Preference{
		UserID:    userID,
		Category:  category,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	})
}

// Preferences returns all preferences of the user.
func (s *Service) Preferences(ctx context.Context, userID string) ([]*models.Preference, error) {
	return s.prefs.List(ctx, userID)
}

// RenderContext renders the user's memories as a prompt context block.
// It never fails: any retrieval error degrades to an empty string.
func (s *Service) RenderContext(ctx context.Context, userID string, limit int64) string {
	if limit <= 0 {
		limit = int64(s.contextLimit)
	}

	facts, err := s.facts.ListRecent(ctx, userID, limit)
	if err != nil {
		s.log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("memory context retrieval failed, continuing without memories")
		return ""
	}

	var lines []string
	for _, fact := range facts {
		lines = append(lines, "- "+fact.Content)
	}

	prefs, err := s.prefs.List(ctx, userID)
	if err == nil {
		for _, pref := range prefs {
			lines = append(lines, fmt.Sprintf("- User preference (%s): %s", pref.Category, pref.Value))
		}
	}

	if len(lines) == 0 {
		return ""
	}
	return "Relevant memories about the user:\n" + strings.Join(lines, "\n")
}
