package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Software Engineer":     "software-engineer",
		"  UX / UI Designer!! ": "ux-ui-designer",
		"C++ & Go":              "c-go",
		"***":                   "item",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSanitizeFileName(t *testing.T) {
	got, err := SanitizeFileName(" cv/2026\\final.pdf ")
	require.NoError(t, err)
	assert.Equal(t, "cv_2026_final.pdf", got)

	got, err = SanitizeFileName("cv\x00\tnotes.txt")
	require.NoError(t, err)
	assert.Equal(t, "cvnotes.txt", got)

	for _, bad := range []string{"../etc/passwd", "   ", "/", "..."} {
		_, err := SanitizeFileName(bad)
		assert.ErrorIs(t, err, ErrInvalidFileName, bad)
	}
}

func TestSanitizeFileNameKeepsExtensionWhenTruncating(t *testing.T) {
	got, err := SanitizeFileName(strings.Repeat("é", 300) + ".docx")
	require.NoError(t, err)
	assert.Equal(t, maxFileNameRunes, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, ".docx"))
}

func TestOwnerKey(t *testing.T) {
	key := OwnerKey("google:12345")
	assert.Equal(t, key, OwnerKey(" google:12345 "))
	assert.Len(t, key, 32)
	assert.NotEqual(t, key, OwnerKey("google:12346"))
	for _, ch := range key {
		assert.True(t, (ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9'))
	}
}
