package command

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	slashCode
	identifierCode
	mentionCode
	numberCode
	wordCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	slashToken      = parsly.NewToken(slashCode, "/", matcher.NewByte('/'))
	identifierToken = parsly.NewToken(identifierCode, "Identifier", &identifierMatcher{})
	mentionToken    = parsly.NewToken(mentionCode, "Mention", &mentionMatcher{})
	numberToken     = parsly.NewToken(numberCode, "Number", &numberMatcher{})
	wordToken       = parsly.NewToken(wordCode, "Word", &wordMatcher{})
)

// identifierMatcher matches a command name: letters, digits and underscores,
// starting with a letter.
type identifierMatcher struct{}

func (m *identifierMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos >= size || !isLetter(input[pos]) {
		return 0
	}
	matched := 1
	for i := pos + 1; i < size; i++ {
		if isLetter(input[i]) || isDigit(input[i]) || input[i] == '_' {
			matched++
			continue
		}
		break
	}
	return matched
}

// mentionMatcher matches a chat user mention of the form <@id> or <@!id>.
type mentionMatcher struct{}

func (m *mentionMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos+3 >= size || input[pos] != '<' || input[pos+1] != '@' {
		return 0
	}
	i := pos + 2
	if i < size && input[i] == '!' {
		i++
	}
	digits := 0
	for ; i < size && isDigit(input[i]); i++ {
		digits++
	}
	if digits == 0 || i >= size || input[i] != '>' {
		return 0
	}
	return i + 1 - pos
}

// numberMatcher matches an optionally signed integer.
type numberMatcher struct{}

func (m *numberMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	i := pos
	if i < size && input[i] == '-' {
		i++
	}
	digits := 0
	for ; i < size && isDigit(input[i]); i++ {
		digits++
	}
	if digits == 0 {
		return 0
	}
	return i - pos
}

// wordMatcher matches a bare argument: any run of non-whitespace characters.
type wordMatcher struct{}

func (m *wordMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	matched := 0
	for i := pos; i < size; i++ {
		switch input[i] {
		case ' ', '\t', '\n', '\r':
			return matched
		}
		matched++
	}
	return matched
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
