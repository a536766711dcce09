// Copyright © 2025 The Parlor authors

package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// offsetForPosition converts a zero-based LSP line and character position
// into a byte offset within content.  Out-of-range positions clamp to the
// nearest valid offset.
func offsetForPosition(content string, line, char int) int {
	offset := 0
	for line > 0 {
		nl := strings.IndexByte(content[offset:], '\n')
		if nl < 0 {
			return len(content)
		}
		offset += nl + 1
		line--
	}
	end := len(content)
	if nl := strings.IndexByte(content[offset:], '\n'); nl >= 0 {
		end = offset + nl
	}
	offset += char
	if offset > end {
		offset = end
	}
	return offset
}

func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n)
}
