package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wamalwa9/karibu_travel/models"
)

func TestGenerateShortCodeFormat(t *testing.T) {
	cases := map[string]string{
		models.TripKindBooking: "BK",
		models.TripKindRental:  "RN",
		"custom":               "CT",
		"something-else":       "TR",
	}

	for kind, prefix := range cases {
		code := GenerateShortCode(kind)
		assert.Len(t, code, 8, "kind %s", kind)
		assert.True(t, strings.HasPrefix(code, prefix), "kind %s got %s", kind, code)

		for _, r := range code[2:] {
			assert.Contains(t, shortCodeAlphabet, string(r), "code %s uses a character outside the alphabet", code)
		}
	}
}

func TestGenerateShortCodeAvoidsAmbiguousCharacters(t *testing.T) {
	for _, forbidden := range []string{"0", "O", "1", "I"} {
		assert.NotContains(t, shortCodeAlphabet, forbidden)
	}

	for i := 0; i < 200; i++ {
		code := GenerateShortCode(models.TripKindBooking)
		body := code[2:]
		assert.NotContains(t, body, "0")
		assert.NotContains(t, body, "O")
		assert.NotContains(t, body, "1")
		assert.NotContains(t, body, "I")
	}
}

func TestGenerateReviewToken(t *testing.T) {
	token, err := GenerateReviewToken()
	require.NoError(t, err)
	// 32 bytes hex-encoded.
	assert.Len(t, token, 64)

	other, err := GenerateReviewToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestAvatarURLIsDeterministicAndNormalized(t *testing.T) {
	a := AvatarURL("amina@example.com")
	b := AvatarURL("  Amina@Example.COM ")
	assert.Equal(t, a, b)

	c := AvatarURL("juma@example.com")
	assert.NotEqual(t, a, c)

	assert.NotContains(t, a, "amina", "avatar URL must not leak the email")
	assert.Contains(t, a, "gravatar.com/avatar/")
}

func TestTokenPreviewNeverExposesFullToken(t *testing.T) {
	token, err := GenerateReviewToken()
	require.NoError(t, err)

	preview := TokenPreview(token)
	assert.NotEqual(t, token, preview)
	assert.True(t, len(preview) < len(token))

	assert.Equal(t, "********", TokenPreview("short"))
}
