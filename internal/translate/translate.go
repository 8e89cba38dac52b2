// Package translate wraps the model-backed translation call and
// cleans its output. Model replies tend to carry boilerplate ("here is
// the translation", option lists, notes); the sanitizer keeps the
// first line that is actual translation.
//
// Translate never returns an error: on any backend failure the input
// comes back unchanged. Callers detect that by comparing output to
// input and substitute a marked original-language fallback. That
// equality check is the failure contract, so the adapter must never
// rewrite a successful translation into the exact input text.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Func is the black-box completion call: prompt in, raw text out.
type Func func(ctx context.Context, prompt string) (string, error)

// Boilerplate line markers, in the languages the backends answer in.
// A line containing any of these is not the translation itself.
var boilerplateMarkers = []string{
	"here is the translation",
	"translation:",
	"option:",
	"note:",
	"בחרו את התרגום",
	"התרגום הוא",
	"התרגום:",
	"או:",
	"(תוספת:",
	"אם תרצה",
	"אני יכול",
}

// Translator turns English feed text into Hebrew via a backend chain.
type Translator struct {
	call Func
}

// New builds a Translator around a backend call (see Chain).
func New(call Func) *Translator {
	return &Translator{call: call}
}

// Translate translates text to Hebrew with a context hint for the
// model. Failure of any kind yields the original text unchanged.
func (t *Translator) Translate(ctx context.Context, text, hint string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	raw, err := t.call(ctx, buildPrompt(text, hint))
	if err != nil {
		slog.Error("translation call failed, keeping original", "error", err, "text", truncateForLog(text))
		return text
	}

	clean := Sanitize(raw)
	if clean == "" {
		slog.Warn("translation produced no usable output, keeping original", "text", truncateForLog(text))
		return text
	}
	return clean
}

// Sanitize extracts the translation from a raw model response.
// Policy, in order: empty response is discarded; first line without a
// boilerplate marker wins; else first non-empty line; else the first
// line of the raw response verbatim.
func Sanitize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	lines := strings.Split(strings.TrimSpace(raw), "\n")

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && !containsMarker(line) {
			return line
		}
	}

	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line)
		}
	}

	return strings.TrimSpace(lines[0])
}

func containsMarker(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range boilerplateMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Failed reports whether translation did not happen, per the
// equality contract.
func Failed(original, translated string) bool {
	return translated == original
}

// MarkOriginal tags untranslated text so the reader sees it is shown
// in the source language.
func MarkOriginal(text string) string {
	return "[EN] " + text
}

// buildPrompt constructs the Hebrew translation instruction: one
// output only, no options, no commentary.
func buildPrompt(text, hint string) string {
	if hint == "" {
		hint = "תוכן כללי"
	}
	return fmt.Sprintf(`תרגם את הטקסט הבא לעברית טבעית ונאה. תן תרגום אחד בלבד, לא אופציות מרובות.

הקשר: %s

חוקים לתרגום:
1. תן תרגום אחד ויחיד בלבד
2. אל תכתוב "בחרו את התרגום" או אופציות מרובות
3. אל תוסיף הערות או הסברים
4. השתמש בעברית זורמת וטבעית
5. אל תתחיל במילים "התרגום הוא" או דומה - פשוט כתוב את התרגום

טקסט לתרגום:
%s

תרגום:
`, hint, text)
}

// Chain tries each backend in order and returns the first answer.
func Chain(backends ...Func) Func {
	return func(ctx context.Context, prompt string) (string, error) {
		var lastErr error
		for i, backend := range backends {
			result, err := backend(ctx, prompt)
			if err == nil && strings.TrimSpace(result) != "" {
				return result, nil
			}
			if err == nil {
				err = errors.New("empty response")
			}
			slog.Warn("translation backend failed, trying next", "backend", i, "error", err)
			lastErr = err
		}
		if lastErr == nil {
			lastErr = errors.New("no translation backends configured")
		}
		return "", lastErr
	}
}

func truncateForLog(s string) string {
	const max = 50
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
