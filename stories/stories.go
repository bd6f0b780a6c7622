// Package stories turns the flat story list served by get_stories into the
// per-author groups the feed renders. Expiry is the backend's job; grouping
// is the only client-side derivation.
package stories

import "online/domain"

// AuthorStories is one author's run of stories, in the order the server
// returned them.
type AuthorStories struct {
	UserID  int
	Stories []domain.Story
}

// Group buckets stories by author, preserving the first-seen order of authors
// and the original order within each author. Pure; no filtering.
func Group(list []domain.Story) []AuthorStories {
	groups := make([]AuthorStories, 0, len(list))
	index := make(map[int]int, len(list))

	for _, s := range list {
		i, ok := index[s.UserID]
		if !ok {
			i = len(groups)
			index[s.UserID] = i
			groups = append(groups, AuthorStories{UserID: s.UserID})
		}
		groups[i].Stories = append(groups[i].Stories, s)
	}
	return groups
}
