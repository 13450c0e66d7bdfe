package statement

// readVerbs start statements that produce a result set.
var readVerbs = map[string]bool{
	"SELECT":   true,
	"SHOW":     true,
	"DESCRIBE": true,
	"DESC":     true,
	"EXPLAIN":  true,
	"VALUES":   true,
	"TABLE":    true,
	"PRAGMA":   true,
	"CALL":     true,
	"HELP":     true,
}

// tableVerbs produce a result set when followed by TABLE, as in MySQL's
// ANALYZE TABLE or CHECKSUM TABLE. Postgres and SQLite ANALYZE do not.
var tableVerbs = map[string]bool{
	"ANALYZE":  true,
	"CHECK":    true,
	"CHECKSUM": true,
	"OPTIMIZE": true,
	"REPAIR":   true,
}

// writeVerbs can follow a WITH clause and do not produce rows on their own.
var writeVerbs = map[string]bool{
	"INSERT":  true,
	"UPDATE":  true,
	"DELETE":  true,
	"REPLACE": true,
	"MERGE":   true,
}

// ReturnsRows reports whether executing the statement yields a result set
// rather than an affected-row count. returning says whether the server
// accepts a RETURNING clause on writes; where it does not, RETURNING is an
// ordinary identifier.
func (s *Statement) ReturnsRows(returning bool) bool {
	words := s.words
	if len(words) == 0 {
		return false
	}
	top := words[0].depth

	if returning {
		for _, w := range words {
			if w.text == "RETURNING" && w.depth == top {
				return true
			}
		}
	}

	verb, at := words[0].text, 0
	if verb == "WITH" {
		verb, at = mainVerb(words)
	}

	switch {
	case verb == "SELECT":
		// SELECT ... INTO @var, OUTFILE or a new table stores its rows.
		for _, w := range words[at+1:] {
			if w.text == "INTO" && w.depth == top {
				return false
			}
		}
		return true
	case verb == "HANDLER":
		return hasWord(words[1:], "READ", top)
	case tableVerbs[verb]:
		return followedByTable(words[1:])
	}
	return readVerbs[verb]
}

// mainVerb finds the first statement verb after a WITH clause at the same
// nesting depth as WITH itself, and its index.
func mainVerb(words []word) (string, int) {
	depth := words[0].depth
	for i, w := range words[1:] {
		if w.depth != depth {
			continue
		}
		if readVerbs[w.text] || writeVerbs[w.text] {
			return w.text, i + 1
		}
	}
	return "", len(words)
}

func hasWord(words []word, text string, depth int) bool {
	for _, w := range words {
		if w.text == text && w.depth == depth {
			return true
		}
	}
	return false
}

// followedByTable reports whether TABLE comes next, allowing MySQL's
// NO_WRITE_TO_BINLOG and LOCAL modifiers in between.
func followedByTable(words []word) bool {
	for _, w := range words {
		switch w.text {
		case "TABLE", "TABLES":
			return true
		case "NO_WRITE_TO_BINLOG", "LOCAL":
			continue
		}
		return false
	}
	return false
}
