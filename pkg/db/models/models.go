// Package models defines the persisted entities shared by repositories.
package models

import "github.com/google/uuid"

// ensureID assigns a client-side UUID when the database default is
// unavailable (e.g. the sqlite driver used in tests).
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
