package lexer

// ASCII character lookup tables for fast classification.
//
// Use inline bounds-checked lookups:
//
//	if ch < 128 && isDigit[ch] { ... }
//
// Bytes >= 128 belong to UTF-8 sequences and are always word characters.
var (
	isWhitespace [128]bool // space, tab, carriage return, newline, form feed
	isLetter     [128]bool // a-z, A-Z
	isDigit      [128]bool // 0-9
	isFlagChar   [128]bool // letter, digit, '-' or '_'
	isVarChar    [128]bool // letter, digit, '_' or '-'
	isWordStop   [128]bool // bytes that end a bare word
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)

		// Newlines are whitespace here: a command invocation may span lines
		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'

		isLetter[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		isDigit[i] = '0' <= ch && ch <= '9'
		isFlagChar[i] = isLetter[i] || isDigit[i] || ch == '-' || ch == '_'
		isVarChar[i] = isLetter[i] || isDigit[i] || ch == '_' || ch == '-'

		isWordStop[i] = isWhitespace[i] || ch == '|' ||
			ch == '(' || ch == ')' || ch == '{' || ch == '}' || ch == '[' || ch == ']'
	}
}

func whitespace(ch byte) bool { return ch < 128 && isWhitespace[ch] }
func letter(ch byte) bool     { return ch < 128 && isLetter[ch] }
func digit(ch byte) bool      { return ch < 128 && isDigit[ch] }
func flagChar(ch byte) bool   { return ch >= 128 || isFlagChar[ch] }
func varChar(ch byte) bool    { return ch >= 128 || isVarChar[ch] }
func wordStop(ch byte) bool   { return ch < 128 && isWordStop[ch] }

// closerFor returns the closing bracket for an opening one, or 0
func closerFor(ch byte) byte {
	switch ch {
	case '(':
		return ')'
	case '{':
		return '}'
	case '[':
		return ']'
	}
	return 0
}

func isCloser(ch byte) bool {
	return ch == ')' || ch == '}' || ch == ']'
}
