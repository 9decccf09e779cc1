// Package tokenize splits a terminal input line into argument tokens.
//
// Tokens are separated by spaces or tabs. A token starting with a double
// quote runs until the next quote not directly preceded by a backslash, or to
// the end of the line when no closing quote exists. Inside a quoted token only
// the first \" sequence is unescaped; every other backslash is kept as is.
// Quotes inside an unquoted token are literal. Tokenizing never fails.
package tokenize

import "strings"

// Tokenize returns the tokens of line in order. Empty input yields an empty slice.
func Tokenize(line string) []string {
	tokens := []string{}
	i := 0
	for {
		i = skipWhitespace(line, i)
		if i >= len(line) {
			return tokens
		}

		var token string
		if line[i] == '"' {
			token, i = quoted(line, i)
		} else {
			token, i = unquoted(line, i)
		}
		tokens = append(tokens, token)
	}
}

// quoted parses a token whose opening quote is at start.
func quoted(line string, start int) (string, int) {
	end := start + 1
	for end < len(line) && (line[end] != '"' || line[end-1] == '\\') {
		end++
	}

	token := strings.Replace(line[start+1:end], `\"`, `"`, 1)
	if end < len(line) {
		end++ // closing quote
	}
	return token, end
}

func unquoted(line string, start int) (string, int) {
	end := start
	for end < len(line) && !isWhitespace(line[end]) {
		end++
	}
	return line[start:end], end
}

func skipWhitespace(line string, i int) int {
	for i < len(line) && isWhitespace(line[i]) {
		i++
	}
	return i
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t'
}
