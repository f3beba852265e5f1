// Copyright 2025 Docucore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package stage

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseModelJSON decodes a JSON object from a model response into v.
// Markdown code fences are stripped first; if plain decoding fails, a
// repair pass fixes the quoting mistakes smaller models commonly make.
func parseModelJSON(text string, v any) error {
	cleaned := stripFences(text)
	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}
	repaired := repairJSON(cleaned)
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadModelOutput, err)
	}
	return nil
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// repairJSON rewrites the quoting mistakes smaller models make when asked
// for a JSON object: bare object keys, keys missing their opening quote,
// and a trailing comma before a closing brace or bracket. Bytes inside
// string literals are copied verbatim.
func repairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	inString := false
	expectKey := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == '"' {
				inString = false
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			expectKey = false
			b.WriteByte(c)
		case c == '{' || c == ',':
			if c == ',' {
				// Drop a comma dangling before the closing delimiter.
				if j := skipSpace(s, i+1); j < len(s) && (s[j] == '}' || s[j] == ']') {
					continue
				}
			}
			expectKey = true
			b.WriteByte(c)
		case expectKey && isIdentByte(c):
			j := i
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			k := skipSpace(s, j)
			expectKey = false
			switch {
			case k < len(s) && s[k] == ':':
				// Bare key, quote it whole.
				b.WriteByte('"')
				b.WriteString(s[i:j])
				b.WriteByte('"')
				i = j - 1
			case k+1 < len(s) && s[k] == '"' && s[k+1] == ':':
				// Key missing only its opening quote.
				b.WriteByte('"')
				b.WriteString(s[i:j])
				b.WriteByte('"')
				i = k
			default:
				b.WriteString(s[i:j])
				i = j - 1
			}
		default:
			if !isSpaceByte(c) {
				expectKey = false
			}
			b.WriteByte(c)
		}
	}

	return b.String()
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpaceByte(s[i]) {
		i++
	}
	return i
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
