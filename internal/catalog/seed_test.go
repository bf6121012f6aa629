package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedAssignsSlugIDs(t *testing.T) {
	data, err := LoadSeed()
	require.NoError(t, err)
	require.Len(t, data.Careers, 5)
	require.Len(t, data.Skills, 5)

	assert.Equal(t, "ux-designer", data.Careers[3].ID)
	assert.Equal(t, "$60k-$90k", data.Careers[4].SalaryRange)
	assert.Equal(t, "user-experience-design", data.Skills[4].ID)
	assert.Contains(t, data.Careers[1].RequiredSkills, "Machine Learning")
}

func TestParseSeedRejectsUnknownFields(t *testing.T) {
	_, err := ParseSeed([]byte("careers:\n  - title: X\n    salary: lots\n"))
	assert.Error(t, err)
}

func TestParseSeedKeepsExplicitID(t *testing.T) {
	data, err := ParseSeed([]byte("skills:\n  - id: go\n    name: Go Programming\n"))
	require.NoError(t, err)
	require.Len(t, data.Skills, 1)
	assert.Equal(t, "go", data.Skills[0].ID)
}
