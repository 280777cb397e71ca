package keymap

// This file contains the keymap conversion: rewriting the key codes of
// a keymap file's base layer from one layout to another.

import (
	"fmt"
	"regexp"
	"strings"
)

// basePattern isolates the base layer's bindings block: the BASE node
// header up to and including the newline after "bindings = <", the
// block contents, and the closing ">;" line. Only the contents group is
// rewritten.
var basePattern = regexp.MustCompile(`(?m)(^\s*BASE\s*\{[\s\S]*?bindings\s*=\s*<\s*\r?\n)([\s\S]*?)(^\s*>\s*;)`)

// codePattern matches one key code token inside a bindings block.
var codePattern = regexp.MustCompile(`\b([A-Z][A-Z0-9_]*)\b`)

// Apply rewrites every base layer bindings block in contents through the
// mapping. Tokens without a mapping entry, and everything outside the
// base layer, pass through untouched.
func (m Mapping) Apply(contents string) string {
	matches := basePattern.FindAllStringSubmatchIndex(contents, -1)
	if len(matches) == 0 {
		return contents
	}

	var b strings.Builder
	b.Grow(len(contents))
	last := 0
	for _, loc := range matches {
		// loc[4:6] delimits the block contents group.
		b.WriteString(contents[last:loc[4]])
		b.WriteString(m.replaceTokens(contents[loc[4]:loc[5]]))
		last = loc[5]
	}
	b.WriteString(contents[last:])
	return b.String()
}

func (m Mapping) replaceTokens(block string) string {
	return codePattern.ReplaceAllStringFunc(block, func(token string) string {
		if repl, ok := m.tokens[token]; ok {
			return repl
		}
		return token
	})
}

// ParseSpec splits a conversion spec like "qwerty->graphite" or
// "qwerty:graphite" into its source and destination layout names.
func ParseSpec(spec string) (src, dst string, err error) {
	for _, sep := range []string{"->", ":"} {
		if strings.Contains(spec, sep) {
			parts := strings.SplitN(spec, sep, 2)
			return normalizeName(parts[0]), normalizeName(parts[1]), nil
		}
	}
	return "", "", fmt.Errorf("invalid map %q, expected 'src->dst' or 'src:dst'", spec)
}
