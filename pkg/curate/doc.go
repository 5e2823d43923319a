// Package curate selects a diverse subset of downloaded animal images
// and can prune everything else.
//
// Every file is assigned a species key derived from its name: the base
// name is tokenized, stopwords are dropped, and the first recognized
// animal token wins. Selection then runs in four stages over the
// lexicographically sorted file list:
//
//  1. Explicit quotas ("lion=3") are filled first, in the order given.
//  2. Ensure keys get one representative each if absent.
//  3. Bird images are topped up to a configured minimum.
//  4. A general fill rounds out the selection, capped per key.
//
// A global limit bounds the whole selection and a per-key maximum
// keeps any single species from dominating. The token sets live in a
// Vocabulary, which can be replaced wholesale or per section from a
// YAML file.
//
// Usage:
//
//	vocab := curate.DefaultVocabulary()
//	curator := curate.New(store, vocab, log)
//	report, err := curator.Run(curate.Options{Limit: 80, PerKeyMax: 3}, false)
package curate
