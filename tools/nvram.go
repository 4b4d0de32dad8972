package tools

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/felixgeelhaar/asus-router-mcp/router"
)

// writeVerbs are nvram subcommands that change router state.
var writeVerbs = map[string]bool{
	"set":    true,
	"unset":  true,
	"commit": true,
	"erase":  true,
}

const shellMeta = ";|&$<>`"

// ValidateNvramCommand admits read-only nvram commands and returns the
// command with whitespace collapsed. It only inspects the command text.
func ValidateNvramCommand(command string) (string, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", router.InvalidCommand("NVRAM command cannot be null or empty")
	}
	normalized := strings.Join(fields, " ")
	lower := strings.ToLower(normalized)

	if !hasNvramPrefix(lower) {
		return "", router.InvalidCommand("Command must start with 'nvram'")
	}
	if strings.ContainsAny(normalized, shellMeta) {
		return "", router.InvalidCommand("Shell metacharacters are not allowed in NVRAM commands")
	}

	// Quotes, brackets and separators must not hide a verb.
	tokens := strings.FieldsFunc(lower, func(r rune) bool { return !unicode.IsLetter(r) })
	for _, tok := range tokens {
		if writeVerbs[tok] {
			return "", router.InvalidCommand("Write operations (set/commit/erase) are not allowed for safety")
		}
	}
	return normalized, nil
}

// hasNvramPrefix reports whether s starts with the word "nvram", so
// "nvramset" and "nvram2" are refused while "nvram_get" is not.
func hasNvramPrefix(s string) bool {
	rest, ok := strings.CutPrefix(s, "nvram")
	if !ok {
		return false
	}
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
