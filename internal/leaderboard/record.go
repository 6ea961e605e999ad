package leaderboard

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Record is one player's best score. There is at most one record per
// class and name pair.
type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ClassName string    `json:"className"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// Store persists best scores.
type Store interface {
	// Save writes rec when no record exists for its key or when rec.Score
	// is strictly higher than the stored one. It reports whether it wrote.
	Save(ctx context.Context, rec Record) (bool, error)

	// List returns every record in no particular order.
	List(ctx context.Context) ([]Record, error)

	// Clear deletes every record.
	Clear(ctx context.Context) error
}

var keyReplacer = strings.NewReplacer(".", "_", "#", "_", "$", "_", "[", "_", "]", "_")

// SanitizeKeyPart replaces characters that are not allowed in record keys.
func SanitizeKeyPart(s string) string {
	return keyReplacer.Replace(s)
}

// Key returns the storage key for a class and name, e.g. "4_AMANAH_ALI".
func Key(className, name string) string {
	return SanitizeKeyPart(className) + "_" + SanitizeKeyPart(name)
}

// NormalizeName trims and upper-cases a player or class name.
func NormalizeName(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Normalize fills the ID and canonicalizes the names.
func (r Record) Normalize() Record {
	r.Name = NormalizeName(r.Name)
	r.ClassName = NormalizeName(r.ClassName)
	r.ID = Key(r.ClassName, r.Name)
	return r
}

// Validate checks the record can be stored.
func (r Record) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRecord)
	}
	if r.ClassName == "" {
		return fmt.Errorf("%w: class is required", ErrInvalidRecord)
	}
	if r.Score < 0 {
		return fmt.Errorf("%w: score %d is negative", ErrInvalidRecord, r.Score)
	}
	return nil
}
