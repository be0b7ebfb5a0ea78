package textindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"word", "word"},
		{"((word)).", "word"},
		{"(word).", "word"},
		{"word's", "word"},
		{"word’s", "word"},
		{"they're", "they"},
		{"we've", "we"},
		{"don't", "don"},
		{"“quoted”", "quoted"},
		{"‘single’", "single"},
		{"mimikatz[3]", "mimikatz"},
		{"mimikatz[3].", "mimikatz"},
		{"end...", "end"},
		{"wait…", "wait"},
		{"•bullet", "bullet"},
		{"dash—", "dash"},
		{"[bracket]!", "bracket"},
		{"Nmap's", "Nmap"},
		{"e.g.", "e.g"},
		{"", ""},
		{"...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTerm(tt.token))
		})
	}
}

func TestNormalizeTerm_Idempotent(t *testing.T) {
	tokens := []string{"word", "((word)).", "Nmap's", "“quoted”", "mimikatz[3].", "e.g.", "x’s’s"}

	for _, tok := range tokens {
		once := NormalizeTerm(tok)
		assert.Equal(t, once, NormalizeTerm(once), "normalizing %q twice should not change it", tok)
	}
}

func TestNormalizer_LowercasesAndMatchesUncached(t *testing.T) {
	// Given: a cached and an uncached normalizer
	cached := NewNormalizer(16)
	uncached := NewNormalizer(0)

	tokens := []string{"PowerShell's", "(Kerberos).", "PowerShell's", "NTLM", "ntlm"}

	// When/Then: both agree on every token, including cache hits
	for _, tok := range tokens {
		assert.Equal(t, uncached.Term(tok), cached.Term(tok), tok)
	}
	assert.Equal(t, "powershell", cached.Term("PowerShell's"))
	assert.Equal(t, "kerberos", cached.Term("(Kerberos)."))
}
