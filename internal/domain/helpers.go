package domain

import "sort"

// NormalizeTags de-duplicates and sorts tags. Empty strings are dropped.
func NormalizeTags(tags Tags) Tags {
	seen := make(map[string]struct{}, len(tags))
	out := make(Tags, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// MergeTags unions extra into tags, normalized.
func MergeTags(tags, extra Tags) Tags {
	return NormalizeTags(append(append(Tags{}, tags...), extra...))
}

// BuildCommentTree assembles the flat comment slice of one thread into its
// reply forest: a map from id to node plus a root list. Input must be
// ordered by creation time ascending; that order is preserved for roots
// and for every replies list. Comments whose parent is missing (deleted
// concurrently) are dropped rather than promoted to roots.
func BuildCommentTree(comments []*Comment) []*Comment {
	arena := make(map[CommentId]*Comment, len(comments))
	for _, c := range comments {
		c.Replies = nil
		arena[c.Id] = c
	}

	var roots []*Comment
	for _, c := range comments {
		if c.Parent.IsZero() {
			roots = append(roots, c)
		} else if parent, ok := arena[c.Parent]; ok {
			parent.Replies = append(parent.Replies, c)
		}
	}
	return roots
}
