package settings

import (
	rndm "math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// GenerateAPIKey mints the merchant's webhook credential. Prefers a
// crypto-random UUID; if the strong source fails it degrades to a
// clock+pseudo-random composite. The caller never learns which path ran.
func GenerateAPIKey() string {
	if key, err := uuid.NewRandom(); err == nil {
		return key.String()
	}
	return "fallback-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + strconv.FormatInt(rndm.Int63(), 36)
}
