package query

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern turns a search phrase into a lowercase substring pattern for a
// LIKE comparison, escaping wildcard characters.
func LikePattern(phrase string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(phrase)) + "%"
}

// SearchClause renders the search predicate over the given columns, e.g.
// "(LOWER(r.name) LIKE ? COLLATE utf8mb4_bin OR ...)". It returns an empty
// clause when the descriptor has no search phrase.
func SearchClause(d Descriptor, columns ...string) (string, []any) {
	if d.SearchPhrase == "" || len(columns) == 0 {
		return "", nil
	}
	pattern := LikePattern(d.SearchPhrase)
	parts := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, "LOWER("+col+") LIKE ? COLLATE utf8mb4_bin")
		args = append(args, pattern)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}
