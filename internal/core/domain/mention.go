package domain

import "regexp"

var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]+)`)

// ExtractMentions returns the distinct handles mentioned in text, without the
// leading "@". Matching is case-sensitive and the order is unspecified.
func ExtractMentions(text string) map[string]struct{} {
	handles := make(map[string]struct{})
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		handles[m[1]] = struct{}{}
	}
	return handles
}

// MentionList is ExtractMentions flattened into a slice, convenient for an
// "$in" lookup.
func MentionList(text string) []string {
	set := ExtractMentions(text)
	out := make([]string, 0, len(set))
	for h := range set {
		out = append(out, h)
	}
	return out
}
