package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSkills(t *testing.T) {
	assert.Equal(t, `["Go","SQL"]`, EncodeSkills([]string{"Go", "SQL"}))
	assert.Equal(t, `["Go"]`, EncodeSkills([]string{"  Go  ", "", "   "}))
	assert.Equal(t, `[]`, EncodeSkills(nil))
}

func TestDecodeSkills(t *testing.T) {
	skills, err := DecodeSkills(`["Go","SQL"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, skills)

	skills, err = DecodeSkills("")
	require.NoError(t, err)
	assert.Empty(t, skills)

	skills, err = DecodeSkills("null")
	require.NoError(t, err)
	assert.Empty(t, skills)

	_, err = DecodeSkills("Go,SQL")
	assert.Error(t, err, "non-JSON values must not be silently reinterpreted")
}

func TestNormalizeLegacySkills(t *testing.T) {
	// Already canonical values pass through re-encoded.
	assert.Equal(t, `["Go","SQL"]`, NormalizeLegacySkills(`["Go","SQL"]`))
	// Legacy comma-delimited strings become a JSON array.
	assert.Equal(t, `["Go","SQL"]`, NormalizeLegacySkills("Go, SQL"))
	assert.Equal(t, `["React"]`, NormalizeLegacySkills("React"))
	assert.Equal(t, `[]`, NormalizeLegacySkills("   "))
}

func TestHasSkill(t *testing.T) {
	skills := []string{"Java", "Spring Boot"}

	assert.True(t, HasSkill(skills, "java"))
	assert.True(t, HasSkill(skills, " Spring Boot "))
	assert.False(t, HasSkill(skills, "Spring"))
	assert.False(t, HasSkill([]string{"JavaScript"}, "Java"),
		"whole-token matching: Java must not match JavaScript")
	assert.False(t, HasSkill(nil, "Go"))
}
