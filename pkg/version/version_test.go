package version

import (
	"encoding/json"
	"regexp"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion_FollowsSemverOrDev(t *testing.T) {
	// Given: the default build without ldflags
	if Version == "dev" {
		return
	}

	// Then: an injected version follows semver
	semverRegex := regexp.MustCompile(`^v?\d+\.\d+\.\d+(-[a-zA-Z0-9.]+)?$`)
	require.True(t, semverRegex.MatchString(Version), "Version should follow semver format, got: %s", Version)
}

func TestString_ReturnsFormattedString(t *testing.T) {
	str := String()

	assert.Contains(t, str, "bookindex "+Version)
	assert.Contains(t, str, "commit:")
	assert.Contains(t, str, runtime.Version())
}

func TestShort_ReturnsVersion(t *testing.T) {
	assert.Equal(t, Version, Short())
}

func TestGetInfo_ReturnsInfo(t *testing.T) {
	info := GetInfo()

	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.Commit)
	assert.NotEmpty(t, info.Date)
	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Equal(t, runtime.GOARCH, info.Arch)
}

func TestGetInfo_LdflagsWin(t *testing.T) {
	// Given: values injected at link time
	origCommit, origDate := Commit, Date
	Commit, Date = "abc1234", "2026-01-02T15:04:05Z"
	defer func() { Commit, Date = origCommit, origDate }()

	// Then: they are reported unchanged
	info := GetInfo()
	assert.Equal(t, "abc1234", info.Commit)
	assert.Equal(t, "2026-01-02T15:04:05Z", info.Date)
}

func TestBuildInfo_JSONKeys(t *testing.T) {
	data, err := json.Marshal(GetInfo())
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"version", "commit", "date", "go_version", "os", "arch"} {
		assert.Contains(t, decoded, key)
	}
}
