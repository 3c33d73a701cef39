package settings

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"carrito/models"
)

// BuildSave derives the document to persist from the stored config and the
// editor's working copy. Returns the post-save view (what the caller should
// show immediately, without waiting for the subscription round-trip) and the
// $set payload.
//
// Two rules matter here:
//   - The API key is generated lazily on first save and never regenerated: a
//     key already stored always wins over anything in the working copy.
//   - The $set payload carries only editor-owned fields, so a concurrent
//     billing-webhook write to plan can never be clobbered.
func BuildSave(existing *models.Cliente, working models.Cliente, now time.Time) (models.Cliente, bson.M) {
	switch {
	case existing != nil && existing.APIKey != "":
		working.APIKey = existing.APIKey
	case working.APIKey == "":
		working.APIKey = GenerateAPIKey()
	}

	working.Status = models.StatusActive
	working.LastUpdated = now
	if existing != nil {
		working.Plan = existing.Plan
	}

	update := bson.M{
		"nombre":      working.Nombre,
		"whatsapp":    working.Whatsapp,
		"telefono":    working.Telefono,
		"faqs":        working.Faqs,
		"apiKey":      working.APIKey,
		"status":      working.Status,
		"lastUpdated": working.LastUpdated,
	}
	return working, update
}
