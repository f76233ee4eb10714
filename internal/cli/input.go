package cli

import (
	"fmt"
	"io"
	"strings"
)

// readExpression returns the positional argument when given, otherwise all
// of r trimmed. Blank input is a usage error.
func readExpression(args []string, r io.Reader) (string, error) {
	if len(args) > 0 {
		if strings.TrimSpace(args[0]) == "" {
			return "", &UsageError{Msg: "No expression provided"}
		}
		return args[0], nil
	}
	if r == nil {
		return "", &UsageError{Msg: "No expression provided"}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &UsageError{Msg: "reading standard input", Err: fmt.Errorf("read: %w", err)}
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", &UsageError{Msg: "No expression provided"}
	}
	return text, nil
}
