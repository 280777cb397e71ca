package keymap

// This file contains the key layout mappings used to convert keymap
// files between layouts. Each forward map translates QWERTY key codes
// row by row; the reverse direction is derived by inversion.

import (
	"sort"
	"strings"
)

var qwertyToColemakDH = map[string]string{
	"Q": "Q", "W": "W", "E": "F", "R": "P", "T": "B", "Y": "J", "U": "L", "I": "U", "O": "Y", "P": "APOS",
	"A": "A", "S": "R", "D": "S", "F": "T", "G": "G", "H": "M", "J": "N", "K": "E", "L": "I", "SEMICOLON": "O",
	"Z": "Z", "X": "X", "C": "C", "V": "D", "B": "V", "N": "K", "M": "H",
}

var qwertyToGraphite = map[string]string{
	"Q": "B", "W": "L", "E": "D", "R": "W", "T": "Z", "Y": "SQT", "U": "F", "I": "O", "O": "U", "P": "J",
	"A": "N", "S": "R", "D": "T", "F": "S", "G": "G", "H": "Y", "J": "H", "K": "A", "L": "E", "SEMICOLON": "I",
	"Z": "Q", "X": "X", "C": "M", "V": "C", "B": "V", "N": "K", "M": "P",
}

var qwertyToCanary = map[string]string{
	"Q": "W", "W": "L", "E": "Y", "R": "P", "T": "B", "Y": "Z", "U": "F", "I": "O", "O": "U", "P": "APOS",
	"A": "C", "S": "R", "D": "S", "F": "T", "G": "G", "H": "M", "J": "N", "K": "E", "L": "I", "SEMICOLON": "A",
	"Z": "Q", "X": "J", "C": "V", "V": "D", "B": "K", "N": "X", "M": "H",
}

var qwertyToFocal = map[string]string{
	"Q": "V", "W": "L", "E": "H", "R": "G", "T": "K", "Y": "Q", "U": "F", "I": "O", "O": "U", "P": "J",
	"A": "S", "S": "R", "D": "N", "F": "T", "G": "B", "H": "Y", "J": "C", "K": "A", "L": "E", "SEMICOLON": "I",
	"Z": "Z", "X": "X", "C": "M", "V": "D", "B": "P", "N": "APOS", "M": "W",
}

// Mapping is one directed layout conversion.
type Mapping struct {
	Src string
	Dst string

	tokens map[string]string
}

// Name renders the conversion as "src->dst".
func (m Mapping) Name() string {
	return m.Src + "->" + m.Dst
}

// Every forward map is a bijection on its key set, so inversion loses
// nothing.
func invert(tokens map[string]string) map[string]string {
	out := make(map[string]string, len(tokens))
	for k, v := range tokens {
		out[v] = k
	}
	return out
}

var mappings = []Mapping{
	{Src: "qwerty", Dst: "colemak_dh", tokens: qwertyToColemakDH},
	{Src: "colemak_dh", Dst: "qwerty", tokens: invert(qwertyToColemakDH)},

	{Src: "qwerty", Dst: "graphite", tokens: qwertyToGraphite},
	{Src: "graphite", Dst: "qwerty", tokens: invert(qwertyToGraphite)},

	{Src: "qwerty", Dst: "canary", tokens: qwertyToCanary},
	{Src: "canary", Dst: "qwerty", tokens: invert(qwertyToCanary)},

	{Src: "qwerty", Dst: "focal", tokens: qwertyToFocal},
	{Src: "focal", Dst: "qwerty", tokens: invert(qwertyToFocal)},
}

var layoutAliases = map[string]string{
	"colemakdh": "colemak_dh",
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := layoutAliases[name]; ok {
		return alias
	}
	return name
}

// Lookup returns the mapping converting src to dst. Layout names are
// case-insensitive and known aliases are accepted.
func Lookup(src, dst string) (Mapping, bool) {
	src, dst = normalizeName(src), normalizeName(dst)
	for _, m := range mappings {
		if m.Src == src && m.Dst == dst {
			return m, true
		}
	}
	return Mapping{}, false
}

// All returns every registered mapping, sorted by source then
// destination layout.
func All() []Mapping {
	out := make([]Mapping, len(mappings))
	copy(out, mappings)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Src != out[j].Src {
			return out[i].Src < out[j].Src
		}
		return out[i].Dst < out[j].Dst
	})
	return out
}

// FromQwerty returns every qwerty->* mapping, sorted by destination
// layout.
func FromQwerty() []Mapping {
	var out []Mapping
	for _, m := range mappings {
		if m.Src == "qwerty" {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dst < out[j].Dst })
	return out
}
