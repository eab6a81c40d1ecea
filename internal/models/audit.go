package models

import (
	"time"
)

// Audit actions
const (
	AuditGameCreated     = "game.created"
	AuditRulesUpdated    = "game.rules_updated"
	AuditGameClosed      = "game.closed"
	AuditGameDeleted     = "game.deleted"
	AuditEntryCreated    = "entry.created"
	AuditEntryUpdated    = "entry.updated"
	AuditEntryDeleted    = "entry.deleted"
	AuditEntriesImported = "entry.imported"
)

// AuditEvent records one write against a game's ledger
type AuditEvent struct {
	ID                string    `bson:"_id" json:"id"`
	GameID            string    `bson:"gameId" json:"gameId"`
	EntryID           string    `bson:"entryId,omitempty" json:"entryId,omitempty"`
	Action            string    `bson:"action" json:"action"`
	Actor             string    `bson:"actor" json:"actor"`
	RecomputedEntries int       `bson:"recomputedEntries" json:"recomputedEntries"`
	Detail            string    `bson:"detail,omitempty" json:"detail,omitempty"`
	CreatedAt         time.Time `bson:"createdAt" json:"createdAt"`
}
