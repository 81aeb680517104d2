package grammar

import (
	"go/token"
	"strings"
)

var tokensByText = map[string]token.Token{}

func init() {
	// token has no exported upper bound; unnamed values print as "token(N)".
	for t := token.ILLEGAL; t < 256; t++ {
		text := t.String()
		if strings.HasPrefix(text, "token(") {
			continue
		}
		tokensByText[text] = t
	}
}

// TokenText is the wire form of a token field.
func TokenText(t token.Token) string {
	return t.String()
}

// ParseToken maps the wire form back to a token.
func ParseToken(text string) (token.Token, bool) {
	t, ok := tokensByText[text]
	return t, ok
}
