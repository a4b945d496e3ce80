package lesson

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/pep299/lessonfeed/internal/apperror"
	"github.com/pep299/lessonfeed/internal/model"
)

const titleKeyLength = 40

var (
	ErrNoJSONObject  = errors.New("no JSON object found in reply")
	ErrAmbiguousJSON = errors.New("reply contains more than one JSON object")
)

var fenceMarker = regexp.MustCompile("```(?:json)?")

// ExtractJSON returns the single top-level {...} span of an LLM reply after
// removing code-fence markers. Braces inside JSON strings are ignored. A reply
// with no complete object yields ErrNoJSONObject and one with several yields
// ErrAmbiguousJSON.
func ExtractJSON(text string) (string, error) {
	clean := strings.TrimSpace(fenceMarker.ReplaceAllString(text, ""))

	var spans []string
	depth, start := 0, -1
	inString, escaped := false, false

	for i := 0; i < len(clean); i++ {
		ch := clean[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			// quotes in surrounding prose are not JSON strings
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				spans = append(spans, clean[start:i+1])
			}
		}
	}

	switch len(spans) {
	case 0:
		return "", ErrNoJSONObject
	case 1:
		return spans[0], nil
	default:
		return "", ErrAmbiguousJSON
	}
}

// lessonText holds the fields every usable lesson needs
type lessonText struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
}

// ParseLesson extracts the lesson object from an LLM reply and returns it
// compacted. Fields beyond headline and body pass through as the model wrote them.
func ParseLesson(text string) ([]byte, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, apperror.Generation("Failed to parse lesson JSON", err)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(raw)); err != nil {
		return nil, apperror.Generation("Failed to parse lesson JSON", err)
	}

	var lesson lessonText
	if err := json.Unmarshal(compact.Bytes(), &lesson); err != nil {
		return nil, apperror.Generation("Failed to parse lesson JSON", err)
	}
	if lesson.Headline == "" && lesson.Body == "" {
		return nil, apperror.Generation("Failed to parse lesson JSON", errors.New("lesson has neither headline nor body"))
	}

	return compact.Bytes(), nil
}

// CacheKey derives the lesson cache key from the base64 title prefix and level
func CacheKey(title string, level model.Level) string {
	titleKey := base64.StdEncoding.EncodeToString([]byte(title))
	if len(titleKey) > titleKeyLength {
		titleKey = titleKey[:titleKeyLength]
	}
	return "lesson_" + titleKey + "_" + string(level)
}
