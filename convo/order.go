package convo

import (
	"encoding/base64"
	"fmt"
	"sort"

	"carrito/models"
)

// SummaryCap bounds the conversation list; older threads stay upstream.
const SummaryCap = 20

// SortSummaries orders conversations by last update, newest first, in place.
// Fallback for when the snapshot arrives unordered.
func SortSummaries(list []models.Conversacion) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].LastUpdated.After(list[j].LastUpdated)
	})
}

// CapSummaries returns at most n summaries from an ordered listing.
func CapSummaries(list []models.Conversacion, n int) []models.Conversacion {
	if len(list) <= n {
		return list
	}
	return list[:n]
}

// SortMessages orders a transcript in strictly ascending timestamp order, in
// place. Messages with equal timestamps keep their stored order.
func SortMessages(list []models.Mensaje) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Timestamp.Before(list[j].Timestamp)
	})
}

// EncodeLink builds the deep-link path segment for a conversation.
func EncodeLink(conversacionID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(conversacionID))
}

// DecodeLink recovers the conversation ID from a deep-link token.
func DecodeLink(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("invalid conversation link: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty conversation link")
	}
	return string(raw), nil
}
