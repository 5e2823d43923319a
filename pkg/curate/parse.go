package curate

import (
	"fmt"
	"strconv"
	"strings"

	"faunafetch/pkg/logger"
)

// suggestionThreshold is the minimum similarity score at which an
// unknown key warning carries a closest-match hint.
const suggestionThreshold = 0.8

// ParseQuotas parses a comma-separated list of key=count pairs, for
// example "lion=3,eagle=2". Keys are canonicalized through the synonym
// table. Unknown animal keys are kept but logged, with a hint when a
// known token is close enough.
func ParseQuotas(s string, vocab *Vocabulary, log logger.Logger) ([]Quota, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var quotas []Quota
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid quota %q: expected key=count", part)
		}

		key := vocab.Canonical(kv[0])
		if key == "" {
			return nil, fmt.Errorf("invalid quota %q: empty key", part)
		}

		count, err := strconv.Atoi(strings.TrimSpace(kv[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid quota count in %q: %w", part, err)
		}

		warnUnknownKey(key, vocab, log)
		quotas = append(quotas, Quota{Key: key, Count: count})
	}

	return quotas, nil
}

// ParseEnsure parses a comma-separated list of keys, canonicalized
// through the synonym table. Empty entries are dropped.
func ParseEnsure(s string, vocab *Vocabulary, log logger.Logger) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var keys []string
	for _, part := range strings.Split(s, ",") {
		key := vocab.Canonical(part)
		if key == "" {
			continue
		}
		warnUnknownKey(key, vocab, log)
		keys = append(keys, key)
	}

	return keys
}

func warnUnknownKey(key string, vocab *Vocabulary, log logger.Logger) {
	if vocab.IsAnimal(key) || log == nil {
		return
	}

	fields := map[string]interface{}{
		"key": key,
	}
	if hint, score := vocab.Suggest(key); score >= suggestionThreshold {
		fields["did_you_mean"] = hint
	}
	log.WarnWithFields("key is not a recognized animal token", fields)
}
