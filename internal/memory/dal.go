package memory

import (
	"context"
	"errors"

	"Aria_AI/internal/models"
)

// ErrDuplicateID is returned by FactDAL.Insert when a fact with the
// same ID already exists for the user. Because fact IDs are content
// hashes, this is the normal "already saved" outcome, not a failure.
var ErrDuplicateID = errors.New("fact already exists")

// FactDAL provides persistence for facts.
type FactDAL interface {
	Insert(ctx context.Context, fact *models.Fact) error

	// ListRecent returns the user's facts in reverse-chronological
	// order. A limit <= 0 returns all facts.
	ListRecent(ctx context.Context, userID string, limit int64) ([]*models.Fact, error)

	Delete(ctx context.Context, userID, factID string) error
	DeleteAll(ctx context.Context, userID string) (int64, error)

	// DeleteByCoreField removes the core fact previously synced for a
	// profile field, if any.
	DeleteByCoreField(ctx context.Context, userID, field string) error

	// UserIDs returns the distinct users that own at least one fact.
	UserIDs(ctx context.Context) ([]string, error)

	// TrimToLimit deletes the oldest non-core facts of a user until at
	// most max facts remain, returning the number deleted.
	TrimToLimit(ctx context.Context, userID string, max int) (int64, error)
}

// PreferenceDAL provides persistence for single-valued preferences.
type PreferenceDAL interface {
	Upsert(ctx context.Context, pref *models.Preference) error
	List(ctx context.Context, userID string) ([]*models.Preference, error)
}
