package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestUserConfigTemplate_IsValidYAML(t *testing.T) {
	require.NotEmpty(t, UserConfigTemplate)

	var raw map[string]map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(UserConfigTemplate), &raw))

	for _, section := range []string{"index", "words", "extract", "output", "logging"} {
		assert.Contains(t, raw, section)
	}
	assert.Equal(t, 15, raw["index"]["max_pages"])
	assert.Equal(t, "Licensed To: ", raw["extract"]["delimiter"])
}
