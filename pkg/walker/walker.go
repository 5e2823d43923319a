// Package walker implements depth-limited traversal of Commons
// category trees, collecting file titles up to an item budget.
package walker

import (
	"time"

	"faunafetch/pkg/commons"
	"faunafetch/pkg/logger"
)

// CategoryLister lists one page of category members. It returns the
// members, the continuation token for the next page (empty when the
// listing is exhausted) and an error. Implemented by commons.Client.
type CategoryLister interface {
	ListCategoryMembers(category, cont string, limit int) ([]commons.CategoryMember, string, error)
}

// Walker walks a category and its subcategories depth-first, in the
// order the API returns members, and stops as soon as the budget is
// filled.
type Walker struct {
	lister   CategoryLister
	maxDepth int
	pause    time.Duration
	logger   logger.Logger
}

// New creates a Walker. maxDepth bounds subcategory recursion, a root
// category sits at depth zero. pause is slept once per visited
// category to keep traversal polite.
func New(lister CategoryLister, maxDepth int, pause time.Duration, log logger.Logger) *Walker {
	// Use default logger if none provided
	if log == nil {
		log = logger.GetLogger()
	}

	return &Walker{
		lister:   lister,
		maxDepth: maxDepth,
		pause:    pause,
		logger:   log,
	}
}

// walkState carries the traversal state of a single Walk call
type walkState struct {
	visited map[string]bool
	files   []string
}

// Walk collects up to limit file titles from the category tree rooted
// at category. Titles appear in discovery order. Listing errors abort
// the walk.
func (w *Walker) Walk(category string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	st := &walkState{visited: make(map[string]bool)}
	if err := w.walk(st, category, 0, limit); err != nil {
		return nil, err
	}

	if len(st.files) > limit {
		st.files = st.files[:limit]
	}

	w.logger.InfoWithFields("category walk finished", map[string]interface{}{
		"category":   category,
		"files":      len(st.files),
		"categories": len(st.visited),
	})

	return st.files, nil
}

func (w *Walker) walk(st *walkState, category string, depth, limit int) error {
	if depth > w.maxDepth || len(st.files) >= limit || st.visited[category] {
		return nil
	}
	st.visited[category] = true

	w.logger.DebugWithFields("walking category", map[string]interface{}{
		"category":  category,
		"depth":     depth,
		"collected": len(st.files),
	})

	cont := ""
	for len(st.files) < limit {
		members, next, err := w.lister.ListCategoryMembers(category, cont, limit-len(st.files))
		if err != nil {
			return err
		}

		for _, member := range members {
			if commons.IsFile(member.Title) {
				st.files = append(st.files, member.Title)
				if len(st.files) >= limit {
					break
				}
			} else if commons.IsCategory(member.Title) {
				if err := w.walk(st, member.Title, depth+1, limit); err != nil {
					return err
				}
				if len(st.files) >= limit {
					break
				}
			}
		}

		if next == "" || len(st.files) >= limit {
			break
		}
		cont = next
	}

	time.Sleep(w.pause)
	return nil
}
