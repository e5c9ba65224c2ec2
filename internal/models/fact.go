package models

import "time"

// FactSource identifies how a fact entered the store.
type FactSource string

const (
	SourceConversation FactSource = "conversation" // Extracted from a chat exchange
	SourceManual       FactSource = "manual"       // Added explicitly by the user
	SourceSettings     FactSource = "settings"     // Synced from the profile settings
)

// Fact is a discrete piece of long-term knowledge about a user.
// The ID is a short hash of the normalized content, so re-saving the
// same fact is idempotent.
type Fact struct {
	ID        string     `json:"id" bson:"_id"`
	UserID    string     `json:"user_id" bson:"user_id"`
	Content   string     `json:"content" bson:"content"`
	Source    FactSource `json:"source" bson:"source"`
	Core      bool       `json:"core,omitempty" bson:"core,omitempty"`             // Profile-derived facts survive cleanup
	CoreField string     `json:"core_field,omitempty" bson:"core_field,omitempty"` // Profile field a core fact mirrors
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
}

// Preference is a single-valued user preference. One active value per
// category; updates overwrite in place.
type Preference struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	Category  string    `json:"category" bson:"category"`
	Value     string    `json:"value" bson:"value"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
