package settings

import (
	"testing"
	"time"

	"carrito/models"
)

func TestBuildSaveGeneratesKeyOnFirstSave(t *testing.T) {
	now := time.Now()
	working := models.Cliente{TiendaID: "t1", Nombre: "Mi tienda"}

	saved, update := BuildSave(nil, working, now)
	if saved.APIKey == "" {
		t.Fatal("expected an API key on first save")
	}
	if saved.Status != models.StatusActive {
		t.Fatalf("expected status active, got %q", saved.Status)
	}
	if update["apiKey"] != saved.APIKey {
		t.Fatalf("update payload key %v does not match saved key %v", update["apiKey"], saved.APIKey)
	}
}

func TestBuildSaveKeepsStoredKey(t *testing.T) {
	now := time.Now()
	existing := &models.Cliente{TiendaID: "t1", APIKey: "clave-original"}

	// a working copy carrying a different key must not win
	working := models.Cliente{TiendaID: "t1", APIKey: "clave-falsa"}
	saved, _ := BuildSave(existing, working, now)
	if saved.APIKey != "clave-original" {
		t.Fatalf("stored key must survive the save, got %q", saved.APIKey)
	}

	// and a repeated save keeps the same credential
	again, _ := BuildSave(&saved, saved, now.Add(time.Minute))
	if again.APIKey != "clave-original" {
		t.Fatalf("key changed on repeated save: %q", again.APIKey)
	}
}

func TestBuildSaveNeverWritesPlan(t *testing.T) {
	now := time.Now()
	existing := &models.Cliente{TiendaID: "t1", Plan: models.PlanProfesional, APIKey: "k"}
	working := models.Cliente{TiendaID: "t1", Plan: models.PlanNone, Nombre: "Tienda"}

	saved, update := BuildSave(existing, working, now)
	if _, ok := update["plan"]; ok {
		t.Fatal("plan must never appear in the update payload")
	}
	if saved.Plan != models.PlanProfesional {
		t.Fatalf("post-save view must carry the stored plan, got %q", saved.Plan)
	}
}

func TestBuildSaveUpdateFields(t *testing.T) {
	now := time.Now()
	working := models.Cliente{
		TiendaID: "t1",
		Nombre:   "Tienda",
		Whatsapp: "+34123456789",
		Faqs:     "Envíos en 24h",
	}
	_, update := BuildSave(nil, working, now)

	for _, field := range []string{"nombre", "whatsapp", "telefono", "faqs", "apiKey", "status", "lastUpdated"} {
		if _, ok := update[field]; !ok {
			t.Fatalf("missing field %q in update payload", field)
		}
	}
	if len(update) != 7 {
		t.Fatalf("update payload must carry exactly the editor-owned fields, got %d", len(update))
	}
	if update["lastUpdated"] != now {
		t.Fatalf("expected lastUpdated %v, got %v", now, update["lastUpdated"])
	}
}

func TestGenerateAPIKeyUnique(t *testing.T) {
	a := GenerateAPIKey()
	b := GenerateAPIKey()
	if a == "" || b == "" {
		t.Fatal("expected non-empty keys")
	}
	if a == b {
		t.Fatalf("expected distinct keys, both were %q", a)
	}
}
