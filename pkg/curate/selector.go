package curate

import "sort"

// Quota is an explicit selection target for one species key.
type Quota struct {
	Key   string
	Count int
}

// Options bound a selection run.
type Options struct {
	Limit     int
	PerKeyMax int
	Quotas    []Quota
	Ensure    []string
	BirdsMin  int
}

// Selection is the outcome of a Select call. Files are in selection
// order; PerKey counts selected files per species key.
type Selection struct {
	Files  []string
	PerKey map[string]int
}

// Select picks a diverse subset of files bounded by a global limit and
// a per-key maximum. Files are sorted lexicographically and every stage
// scans them in that fixed order, so the same inputs always produce the
// same selection.
//
// Four stages run back to back: explicit quotas, ensure-present keys,
// a bird-image minimum, then a general fill. The global limit is a
// hard ceiling at every stage. The per-key maximum binds stages 2
// through 4; a quota larger than the maximum is honored in full,
// because the cap is only checked before a quota's scan begins.
func Select(files []string, vocab *Vocabulary, opts Options) Selection {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	keys := make(map[string]string, len(sorted))
	for _, f := range sorted {
		keys[f] = SpeciesKey(f, vocab)
	}

	sel := Selection{PerKey: make(map[string]int)}
	chosen := make(map[string]bool)

	add := func(f, key string) {
		sel.Files = append(sel.Files, f)
		sel.PerKey[key]++
		chosen[f] = true
	}

	// Stage 1: explicit quotas, in the order given
	for _, q := range opts.Quotas {
		if q.Count <= 0 {
			continue
		}
		if sel.PerKey[q.Key] >= opts.PerKeyMax {
			continue
		}
		for _, f := range sorted {
			if len(sel.Files) >= opts.Limit {
				break
			}
			if chosen[f] || keys[f] != q.Key {
				continue
			}
			if sel.PerKey[q.Key] >= q.Count {
				break
			}
			add(f, q.Key)
		}
	}

	// Stage 2: one representative for each ensure key not yet present
	for _, key := range opts.Ensure {
		if len(sel.Files) >= opts.Limit {
			break
		}
		if sel.PerKey[key] > 0 || opts.PerKeyMax < 1 {
			continue
		}
		for _, f := range sorted {
			if chosen[f] || keys[f] != key {
				continue
			}
			add(f, key)
			break
		}
	}

	// Stage 3: top up bird coverage to the configured minimum
	if opts.BirdsMin > 0 {
		birds := 0
		for key, n := range sel.PerKey {
			if vocab.IsBird(key) {
				birds += n
			}
		}
		for _, f := range sorted {
			if birds >= opts.BirdsMin || len(sel.Files) >= opts.Limit {
				break
			}
			key := keys[f]
			if chosen[f] || !vocab.IsBird(key) || sel.PerKey[key] >= opts.PerKeyMax {
				continue
			}
			add(f, key)
			birds++
		}
	}

	// Stage 4: general fill up to the per-key maximum
	for _, f := range sorted {
		if len(sel.Files) >= opts.Limit {
			break
		}
		key := keys[f]
		if chosen[f] || sel.PerKey[key] >= opts.PerKeyMax {
			continue
		}
		add(f, key)
	}

	return sel
}
