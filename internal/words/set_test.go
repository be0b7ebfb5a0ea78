package words

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_TrimsCarriageReturnsAndSkipsBlanks(t *testing.T) {
	// Given a CRLF word list with blank lines
	input := "apple\r\nthe\r\n\r\nzebra\n\n"

	// When parsed
	set, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	// Then every word is present without the carriage return
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contains("apple"))
	assert.True(t, set.Contains("the"))
	assert.True(t, set.Contains("zebra"))
	assert.False(t, set.Contains("apple\r"))
	assert.False(t, set.Contains(""))
}

func TestMemorySet_MembershipIsExact(t *testing.T) {
	set := NewMemorySet([]string{"The", "dog"})

	assert.True(t, set.Contains("The"))
	assert.False(t, set.Contains("the"), "membership must not case fold")
	assert.True(t, set.Contains("dog"))
	assert.False(t, set.Contains("dogs"))
}

func TestMemorySet_WriteToRoundTripsThroughParse(t *testing.T) {
	set := NewMemorySet([]string{"zebra", "apple", "mango"})

	var buf bytes.Buffer
	_, err := set.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "apple\nmango\nzebra\n", buf.String())

	back, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, set.Len(), back.Len())
}
