package command

import "strings"

// param extracts the argument of a command after removing keywords. A
// quoted tail yields the quoted text, anything else the last word.
//
//	find 'abc def'  ->  abc def
//	find abc def    ->  def
func param(cmd string, keywords ...string) string {
	for _, k := range keywords {
		cmd = strings.TrimSpace(strings.ReplaceAll(cmd, k, ""))
	}
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return ""
	}

	last := cmd[len(cmd)-1]
	if last == '"' || last == '\'' {
		parts := strings.Split(cmd, string(last))
		if len(parts) >= 2 {
			return parts[len(parts)-2]
		}
	}
	parts := strings.Split(cmd, " ")
	return parts[len(parts)-1]
}

// containsAny reports whether cmd contains one of words.
func containsAny(cmd string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(cmd, w) {
			return true
		}
	}
	return false
}

// pyList formats items the way the settings file shows them.
func pyList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = "'" + it + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
