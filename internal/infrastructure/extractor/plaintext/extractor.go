package plaintext

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ExtractText accepts any UTF-8 payload and returns it trimmed. Binary input
// is rejected rather than fed to the analysis prompt as garbage.
func ExtractText(raw []byte, filename string) (string, error) {
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("unsupported binary content: %s", filename)
	}
	return strings.TrimSpace(string(raw)), nil
}
