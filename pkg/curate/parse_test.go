package curate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faunafetch/pkg/logger"
)

func TestParseQuotas(t *testing.T) {
	vocab := DefaultVocabulary()

	quotas, err := ParseQuotas(" lion=3, Eagles=2 ,kitty=1", vocab, nil)
	require.NoError(t, err)

	want := []Quota{
		{Key: "lion", Count: 3},
		{Key: "eagle", Count: 2},
		{Key: "cat", Count: 1},
	}
	assert.Equal(t, want, quotas)
}

func TestParseQuotasEmpty(t *testing.T) {
	vocab := DefaultVocabulary()

	quotas, err := ParseQuotas("", vocab, nil)
	require.NoError(t, err)
	assert.Nil(t, quotas)

	quotas, err = ParseQuotas("  ,  ", vocab, nil)
	require.NoError(t, err)
	assert.Nil(t, quotas)
}

func TestParseQuotasErrors(t *testing.T) {
	vocab := DefaultVocabulary()

	tests := []struct {
		name  string
		input string
	}{
		{"missing equals", "lion"},
		{"non-numeric count", "lion=three"},
		{"empty key", "=3"},
		{"empty count", "lion="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuotas(tt.input, vocab, nil)
			assert.Error(t, err)
		})
	}
}

func TestParseQuotasWarnsOnUnknownKey(t *testing.T) {
	vocab := DefaultVocabulary()
	log := logger.NewTestLogger()

	quotas, err := ParseQuotas("lionn=2", vocab, log)
	require.NoError(t, err)
	assert.Equal(t, []Quota{{Key: "lionn", Count: 2}}, quotas, "unknown keys are kept")

	warnings := log.GetMessagesByLevel("WARN")
	require.Len(t, warnings, 1)
	assert.Equal(t, "lionn", warnings[0].Fields["key"])
	assert.Equal(t, "lion", warnings[0].Fields["did_you_mean"])
}

func TestParseQuotasKnownKeyDoesNotWarn(t *testing.T) {
	vocab := DefaultVocabulary()
	log := logger.NewTestLogger()

	_, err := ParseQuotas("lion=2,tigers=1", vocab, log)
	require.NoError(t, err)
	assert.Empty(t, log.GetMessagesByLevel("WARN"), "canonicalized keys count as known")
}

func TestParseEnsure(t *testing.T) {
	vocab := DefaultVocabulary()

	keys := ParseEnsure("Elephants, bunny ,,owl", vocab, nil)
	assert.Equal(t, []string{"elephant", "rabbit", "owl"}, keys)

	assert.Nil(t, ParseEnsure("", vocab, nil))
	assert.Nil(t, ParseEnsure(" , ", vocab, nil))
}

func TestParseEnsureWarnsOnUnknownKey(t *testing.T) {
	vocab := DefaultVocabulary()
	log := logger.NewTestLogger()

	keys := ParseEnsure("wyvern", vocab, log)
	assert.Equal(t, []string{"wyvern"}, keys)
	require.Len(t, log.GetMessagesByLevel("WARN"), 1)
}
