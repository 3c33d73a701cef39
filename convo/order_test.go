package convo

import (
	"testing"
	"time"

	"carrito/models"
)

func TestSortSummariesNewestFirst(t *testing.T) {
	base := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	list := []models.Conversacion{
		{Cliente: "ana", LastUpdated: base.Add(-2 * time.Hour)},
		{Cliente: "benito", LastUpdated: base},
		{Cliente: "carla", LastUpdated: base.Add(-time.Hour)},
	}

	SortSummaries(list)

	want := []string{"benito", "carla", "ana"}
	for i := range want {
		if list[i].Cliente != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], list[i].Cliente)
		}
	}
}

func TestCapSummaries(t *testing.T) {
	list := make([]models.Conversacion, SummaryCap+5)
	if got := CapSummaries(list, SummaryCap); len(got) != SummaryCap {
		t.Fatalf("expected %d summaries, got %d", SummaryCap, len(got))
	}

	short := make([]models.Conversacion, 2)
	if got := CapSummaries(short, SummaryCap); len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}
}

func TestSortMessagesAscending(t *testing.T) {
	base := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	list := []models.Mensaje{
		{Texto: "tercero", Timestamp: base.Add(2 * time.Minute)},
		{Texto: "primero", Timestamp: base},
		{Texto: "segundo", Timestamp: base.Add(time.Minute)},
	}

	SortMessages(list)

	for i := 1; i < len(list); i++ {
		if list[i].Timestamp.Before(list[i-1].Timestamp) {
			t.Fatalf("transcript out of order at %d", i)
		}
	}
	if list[0].Texto != "primero" {
		t.Fatalf("expected primero first, got %s", list[0].Texto)
	}
}

func TestSortMessagesStableOnTies(t *testing.T) {
	ts := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	list := []models.Mensaje{
		{Texto: "a", Timestamp: ts},
		{Texto: "b", Timestamp: ts},
	}
	SortMessages(list)
	if list[0].Texto != "a" || list[1].Texto != "b" {
		t.Fatal("equal timestamps must keep stored order")
	}
}

func TestLinkRoundTrip(t *testing.T) {
	id := "665f1c2b9d3e4a0012ab34cd"
	token := EncodeLink(id)
	got, err := DecodeLink(token)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got != id {
		t.Fatalf("expected %s, got %s", id, got)
	}
}

func TestDecodeLinkRejectsGarbage(t *testing.T) {
	if _, err := DecodeLink("%%%no-es-base64%%%"); err == nil {
		t.Fatal("expected error for malformed token")
	}
	if _, err := DecodeLink(""); err == nil {
		t.Fatal("expected error for empty token")
	}
}
