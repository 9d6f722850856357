package command

import (
	"strconv"
	"strings"

	"github.com/viant/parsly"
)

// ParseText parses a raw chat line such as "/givepack <@91011> starter 3"
// into a command name and a raw parameter bag suitable for Catalog.Parse.
// It exists for transports that deliver plain text instead of structured
// slash-command payloads.
func ParseText(input []byte) (string, map[string]interface{}, error) {
	cursor := parsly.NewCursor("", input, 0)

	matched := cursor.MatchAfterOptional(whitespaceToken, slashToken)
	if matched.Code != slashToken.Code {
		return "", nil, cursor.NewError(slashToken)
	}
	matched = cursor.MatchOne(identifierToken)
	if matched.Code != identifierToken.Code {
		return "", nil, cursor.NewError(identifierToken)
	}
	name := strings.ToLower(matched.Text(cursor))

	parameters := map[string]interface{}{}
	switch name {
	case "givepack":
		user, err := matchMention(cursor)
		if err != nil {
			return "", nil, err
		}
		parameters["user"] = user

		matched = cursor.MatchAfterOptional(whitespaceToken, wordToken)
		if matched.Code != wordToken.Code {
			return "", nil, cursor.NewError(wordToken)
		}
		parameters["packid"] = matched.Text(cursor)

		// amount is optional; the catalog defaults it to 1
		matched = cursor.MatchAfterOptional(whitespaceToken, numberToken)
		if matched.Code == numberToken.Code {
			amount, err := strconv.Atoi(matched.Text(cursor))
			if err != nil {
				return "", nil, err
			}
			parameters["amount"] = amount
		}

	case "givepoints":
		user, err := matchMention(cursor)
		if err != nil {
			return "", nil, err
		}
		parameters["user"] = user

		matched = cursor.MatchAfterOptional(whitespaceToken, numberToken)
		if matched.Code != numberToken.Code {
			return "", nil, cursor.NewError(numberToken)
		}
		amount, err := strconv.Atoi(matched.Text(cursor))
		if err != nil {
			return "", nil, err
		}
		parameters["amount"] = amount

	case "checkgifts":

	default:
		return "", nil, NewUnknownCommandError(name)
	}
	return name, parameters, nil
}

// matchMention matches a <@id> mention and returns the bare user id.
func matchMention(cursor *parsly.Cursor) (string, error) {
	matched := cursor.MatchAfterOptional(whitespaceToken, mentionToken)
	if matched.Code != mentionToken.Code {
		return "", cursor.NewError(mentionToken)
	}
	text := matched.Text(cursor)
	text = strings.TrimSuffix(strings.TrimPrefix(text, "<@"), ">")
	return strings.TrimPrefix(text, "!"), nil
}
