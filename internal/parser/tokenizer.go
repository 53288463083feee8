package parser

import "strings"

// Token is one logical unit of user input after quote resolution.
type Token struct {
	// Text is the resolved token value with quotes stripped and escape
	// sequences decoded.
	Text string
	// Quoted reports whether the token came from a quoted string. Quoted
	// tokens are always literal text and never reach path classification.
	Quoted bool
	// Consumed is how many raw arguments this token spanned.
	Consumed int
}

// Tokenize splits the raw argument list into quoted-string tokens and bare
// tokens. The shell has already removed the true delimiting spaces, so a
// quoted token spanning several raw arguments is rejoined with single spaces.
func Tokenize(args []string) []Token {
	var tokens []Token
	i := 0
	for i < len(args) {
		arg := args[i]
		if len(arg) > 0 && (arg[0] == '"' || arg[0] == '\'') {
			text, consumed := parseQuoted(args[i:])
			tokens = append(tokens, Token{Text: text, Quoted: true, Consumed: consumed})
			i += consumed
			continue
		}
		tokens = append(tokens, Token{Text: arg, Quoted: false, Consumed: 1})
		i++
	}
	return tokens
}

// parseQuoted scans forward from an argument that opens a quote until it
// finds an unescaped closing quote. An unterminated quote closes implicitly
// at the end of input; malformed quoting never raises an error.
func parseQuoted(args []string) (string, int) {
	quote := args[0][0]
	var parts []string
	consumed := 0

	for i, arg := range args {
		consumed++
		cur := arg
		if i == 0 {
			cur = arg[1:]
		}
		if pos := unescapedQuoteIndex(cur, quote); pos >= 0 {
			parts = append(parts, cur[:pos])
			break
		}
		parts = append(parts, cur)
	}

	return unescape(strings.Join(parts, " ")), consumed
}

// unescapedQuoteIndex returns the index of the first quote character that is
// not escaped, or -1. A quote is escaped when preceded by an odd number of
// backslashes.
func unescapedQuoteIndex(text string, quote byte) int {
	for i := 0; i < len(text); i++ {
		if text[i] != quote {
			continue
		}
		escapes := 0
		for j := i - 1; j >= 0 && text[j] == '\\'; j-- {
			escapes++
		}
		if escapes%2 == 0 {
			return i
		}
	}
	return -1
}

// unescape decodes \", \' and \\ sequences; any other backslash is literal.
func unescape(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '\\' && i+1 < len(text) {
			switch next := text[i+1]; next {
			case '"', '\'', '\\':
				b.WriteByte(next)
				i++
				continue
			}
		}
		b.WriteByte(text[i])
	}
	return b.String()
}
