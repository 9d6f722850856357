package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseText(t *testing.T) {
	type testCase struct {
		name       string
		input      string
		command    string
		parameters map[string]interface{}
		expectErr  bool
	}

	testCases := []testCase{
		{
			name:       "givepack with amount",
			input:      "/givepack <@91011> starter 3",
			command:    "givepack",
			parameters: map[string]interface{}{"user": "91011", "packid": "starter", "amount": 3},
		},
		{
			name:       "givepack without amount",
			input:      "/givepack <@91011> starter",
			command:    "givepack",
			parameters: map[string]interface{}{"user": "91011", "packid": "starter"},
		},
		{
			name:       "nickname mention form",
			input:      "/givepoints <@!42> 100",
			command:    "givepoints",
			parameters: map[string]interface{}{"user": "42", "amount": 100},
		},
		{
			name:       "negative amount parses, catalog rejects later",
			input:      "/givepoints <@42> -1",
			command:    "givepoints",
			parameters: map[string]interface{}{"user": "42", "amount": -1},
		},
		{
			name:       "checkgifts",
			input:      "/checkgifts",
			command:    "checkgifts",
			parameters: map[string]interface{}{},
		},
		{
			name:       "leading whitespace",
			input:      "  /checkgifts",
			command:    "checkgifts",
			parameters: map[string]interface{}{},
		},
		{
			name:      "missing slash",
			input:     "givepack <@91011> starter",
			expectErr: true,
		},
		{
			name:      "unknown command",
			input:     "/shutdown now",
			expectErr: true,
		},
		{
			name:      "givepack without mention",
			input:     "/givepack starter 3",
			expectErr: true,
		},
		{
			name:      "givepoints without amount",
			input:     "/givepoints <@42>",
			expectErr: true,
		},
		{
			name:      "malformed mention",
			input:     "/givepoints <@abc> 10",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			name, parameters, err := ParseText([]byte(tc.input))
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.command, name)
			assert.EqualValues(t, tc.parameters, parameters)
		})
	}
}

// A parsed text command must survive the catalog round-trip: the description
// rendered from the resulting kind contains the same user, pack and amount.
func TestParseTextCatalogRoundTrip(t *testing.T) {
	catalog := NewCatalog()
	name, parameters, err := ParseText([]byte("/givepack <@91011> starter 3"))
	assert.NoError(t, err)
	kind, err := catalog.Parse(name, parameters)
	assert.NoError(t, err)
	assert.Equal(t, "/givepack <@91011> starter 3", kind.Describe())
}
