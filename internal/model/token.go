package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Token is an entry of a partner's client or project list. The remote store
// mixes JSON strings and JSON numbers; a Token keeps whichever kind it was
// decoded from so it is written back unchanged.
type Token struct {
	value   string
	numeric bool
}

func StringToken(s string) Token { return Token{value: s} }

// NumberToken returns a numeric token. n must be a valid JSON number literal.
func NumberToken(n json.Number) Token { return Token{value: n.String(), numeric: true} }

// ParseToken treats a valid JSON number literal as a number and anything else
// as a string.
func ParseToken(s string) Token {
	if isJSONNumber(s) {
		return Token{value: s, numeric: true}
	}
	return Token{value: s}
}

// ParseTokenList splits comma-separated form input, dropping empty entries.
func ParseTokenList(s string) []Token {
	tokens := []Token{}
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tokens = append(tokens, ParseToken(trimmed))
		}
	}
	return tokens
}

func (t Token) String() string { return t.value }

func (t Token) IsNumber() bool { return t.numeric }

func (t Token) MarshalJSON() ([]byte, error) {
	if t.numeric {
		return []byte(t.value), nil
	}
	return json.Marshal(t.value)
}

func (t *Token) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Token{value: s}
		return nil
	}
	if !isJSONNumber(string(data)) {
		return fmt.Errorf("token must be a string or a number, got %s", data)
	}
	*t = Token{value: string(data), numeric: true}
	return nil
}

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

func isJSONNumber(s string) bool {
	return jsonNumber.MatchString(s)
}
