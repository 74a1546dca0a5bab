package extractor

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"io"
	"os"
	"regexp"
	"strings"
)

// extractRaw is the last-resort extractor: it works directly on the PDF byte
// stream, decompressing content streams and scraping text-showing operators
// (Tj, TJ). It skips the library's object model entirely, which lets it
// recover text from files whose cross-reference tables are damaged.
func extractRaw(filePath string) ([]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	streams := contentStreams(data)
	if len(streams) == 0 {
		return nil, nil
	}

	var pages []string
	for _, stream := range streams {
		text := textFromStream(tryInflate(stream))
		if text != "" {
			pages = append(pages, text)
		}
	}
	return pages, nil
}

// contentStreams finds every stream...endstream block in the file.
func contentStreams(data []byte) [][]byte {
	var streams [][]byte
	start := []byte("stream")
	end := []byte("endstream")

	offset := 0
	for offset < len(data) {
		idx := bytes.Index(data[offset:], start)
		if idx < 0 {
			break
		}
		s := offset + idx + len(start)
		if s < len(data) && data[s] == '\r' {
			s++
		}
		if s < len(data) && data[s] == '\n' {
			s++
		}
		e := bytes.Index(data[s:], end)
		if e < 0 {
			break
		}
		if e > 0 {
			streams = append(streams, data[s:s+e])
		}
		offset = s + e + len(end)
	}
	return streams
}

// tryInflate attempts zlib decompression, returning the input unchanged on
// failure so uncompressed streams still flow through.
func tryInflate(data []byte) []byte {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return data
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return data
	}
	return out
}

var (
	litTjPattern   = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)\s*T[jJ]`)
	tjArrayPattern = regexp.MustCompile(`\[([^\]]*)\]\s*TJ`)
	litInArray     = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)`)
	hexTjPattern   = regexp.MustCompile(`<([0-9A-Fa-f]+)>\s*Tj`)
	textNewline    = regexp.MustCompile(`T\*|Td|TD`)
)

// textFromStream pulls literal and hex strings out of the text operators in
// one content stream, inserting line breaks at text-positioning operators.
func textFromStream(stream []byte) string {
	s := string(stream)
	if !strings.Contains(s, "Tj") && !strings.Contains(s, "TJ") {
		return ""
	}

	// Positioning operators roughly mark line starts; turn them into
	// newlines before collecting strings so line grouping survives.
	s = textNewline.ReplaceAllString(s, "\n")

	var out strings.Builder
	for _, line := range strings.Split(s, "\n") {
		var parts []string
		for _, m := range litTjPattern.FindAllStringSubmatch(line, -1) {
			parts = append(parts, unescapeLiteral(m[1]))
		}
		for _, m := range tjArrayPattern.FindAllStringSubmatch(line, -1) {
			for _, lm := range litInArray.FindAllStringSubmatch(m[1], -1) {
				parts = append(parts, unescapeLiteral(lm[1]))
			}
		}
		for _, m := range hexTjPattern.FindAllStringSubmatch(line, -1) {
			parts = append(parts, decodeHexString(m[1]))
		}
		joined := strings.TrimSpace(strings.Join(parts, ""))
		if joined != "" {
			out.WriteString(joined)
			out.WriteByte('\n')
		}
	}
	return strings.TrimSpace(out.String())
}

// unescapeLiteral handles the PDF literal-string escapes that matter for
// statement text.
func unescapeLiteral(s string) string {
	replacer := strings.NewReplacer(
		`\(`, "(",
		`\)`, ")",
		`\\`, `\`,
		`\n`, "\n",
		`\r`, "",
		`\t`, " ",
	)
	return replacer.Replace(s)
}

// decodeHexString decodes a hex string, treating byte pairs as Latin-1 and
// 4-digit groups that look like UTF-16BE as such. Undecodable input yields
// an empty string; the readability gate rejects the page if this dominates.
func decodeHexString(h string) string {
	if len(h)%2 != 0 {
		h += "0"
	}
	raw, err := hex.DecodeString(h)
	if err != nil {
		return ""
	}
	// UTF-16BE heuristic: every other byte zero.
	if len(raw) >= 2 && len(raw)%2 == 0 {
		zeros := 0
		for i := 0; i < len(raw); i += 2 {
			if raw[i] == 0 {
				zeros++
			}
		}
		if zeros == len(raw)/2 {
			var b strings.Builder
			for i := 0; i < len(raw); i += 2 {
				b.WriteRune(rune(uint16(raw[i])<<8 | uint16(raw[i+1])))
			}
			return b.String()
		}
	}
	var b strings.Builder
	for _, c := range raw {
		b.WriteRune(rune(c))
	}
	return b.String()
}
