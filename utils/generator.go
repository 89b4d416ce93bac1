package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/wamalwa9/karibu_travel/models"
)

const shortCodeLength = 6

// No 0/O or 1/I, so codes survive being read out over the phone.
const shortCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const reviewTokenBytes = 32

var shortCodePrefixes = map[string]string{
	models.TripKindBooking: "BK",
	models.TripKindRental:  "RN",
	"custom":               "CT",
}

// GenerateShortCode returns a kind-tagged display code like BK7XKQ2M.
// Codes are intended-unique; callers check the store before committing one.
func GenerateShortCode(kind string) string {
	prefix, ok := shortCodePrefixes[kind]
	if !ok {
		prefix = "TR"
	}

	b := make([]byte, shortCodeLength)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("short code entropy unavailable: %v", err))
	}
	for i := range b {
		b[i] = shortCodeAlphabet[int(b[i])%len(shortCodeAlphabet)]
	}
	return prefix + string(b)
}

// GenerateReviewToken returns a 256-bit random token rendered as hex.
// Holding the token is the only credential for the review link, so it
// must never be logged in full or shown outside that link.
func GenerateReviewToken() (string, error) {
	b := make([]byte, reviewTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// AvatarURL derives a stable identicon URL from a traveler email. Only
// the hash ever leaves the backend; the email itself is never exposed.
func AvatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon", hex.EncodeToString(sum[:]))
}

// TokenPreview is what goes into logs instead of a raw review token.
func TokenPreview(token string) string {
	if len(token) <= 8 {
		return "********"
	}
	return token[:8] + "…"
}
