package channels

import "strings"

// SplitMessage splits content into chunks of at most limit bytes for
// transports with a maximum message length. Splits prefer the last newline
// before the limit, then the last space; a single line longer than the
// limit is hard-sliced.
func SplitMessage(content string, limit int) []string {
	if limit <= 0 || len(content) <= limit {
		return []string{content}
	}

	var chunks []string
	for len(content) > limit {
		window := content[:limit]

		cut := strings.LastIndexByte(window, '\n')
		drop := 1 // boundary char is consumed, not carried into either chunk
		if cut < 0 {
			cut = strings.LastIndexByte(window, ' ')
		}
		if cut <= 0 {
			cut = limit
			drop = 0
		}

		chunks = append(chunks, content[:cut])
		content = content[cut+drop:]
	}

	if len(content) > 0 {
		chunks = append(chunks, content)
	}
	return chunks
}
