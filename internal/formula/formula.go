// Package formula implements the formula language lexer, parser, AST, and
// reference normalizer: the front end that turns a formula string into the
// AST the dependency analyzer and code emitter consume.
package formula

// ParseString lexes and parses a single formula string (including its
// leading '='). A *LexError means the character stream itself could not be
// tokenized; a *ParseError means tokenization succeeded but the grammar
// rejected the token stream. Callers distinguish the two: lexing failures
// abort the whole pipeline, while parse failures on a single cell degrade
// that cell to a literal and continue.
func ParseString(src string) (*Node, error) {
	tokens, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}
