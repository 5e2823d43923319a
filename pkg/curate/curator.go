package curate

import (
	"faunafetch/pkg/logger"
	"faunafetch/pkg/storage"
)

// Curator applies diverse selection to a directory of saved images.
type Curator struct {
	store  *storage.Manager
	vocab  *Vocabulary
	logger logger.Logger
}

// New creates a curator over an already-opened storage manager.
func New(store *storage.Manager, vocab *Vocabulary, log logger.Logger) *Curator {
	return &Curator{
		store:  store,
		vocab:  vocab,
		logger: log,
	}
}

// Report summarizes a curation run.
type Report struct {
	Kept    int
	Removed int
	PerKey  map[string]int
	Pruned  bool
}

// Run selects a diverse subset of the directory and, when prune is
// set, deletes every file outside the selection. A failed deletion is
// logged and skipped; Removed counts only files actually deleted.
func (c *Curator) Run(opts Options, prune bool) (*Report, error) {
	files, err := c.store.ListFiles()
	if err != nil {
		return nil, err
	}

	sel := Select(files, c.vocab, opts)

	c.logger.InfoWithFields("selection finished", map[string]interface{}{
		"examined": len(files),
		"selected": len(sel.Files),
		"prune":    prune,
	})

	report := &Report{
		Kept:   len(sel.Files),
		PerKey: sel.PerKey,
		Pruned: prune,
	}

	if !prune {
		return report, nil
	}

	keep := make(map[string]bool, len(sel.Files))
	for _, f := range sel.Files {
		keep[f] = true
	}

	for _, f := range files {
		if keep[f] {
			continue
		}
		if err := c.store.Remove(f); err != nil {
			c.logger.ErrorWithFields("failed to remove file", map[string]interface{}{
				"file":  f,
				"error": err.Error(),
			})
			continue
		}
		report.Removed++
	}

	return report, nil
}
