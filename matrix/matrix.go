package matrix

// This file contains the build matrix reader. It parses the declarative
// YAML document into normalized build entries, resolving scalar-or-list
// fields and filling in defaults so the rest of the pipeline never has
// to look at raw YAML again.

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/zmkbuild/zmkbuild/model"
)

// document mirrors the top level of the matrix source. Only the include
// list matters; everything else in the file is ignored.
type document struct {
	Include []entry `yaml:"include"`
}

// entry is one raw matrix row before normalization. Shields and keymaps
// accept both the singular and the plural key. Boards are keyed by the
// singular form only.
type entry struct {
	Format  string     `yaml:"format"`
	Name    string     `yaml:"name"`
	Snippet string     `yaml:"snippet"`
	Board   stringList `yaml:"board"`
	Shield  stringList `yaml:"shield"`
	Shields stringList `yaml:"shields"`
	Keymap  stringList `yaml:"keymap"`
	Keymaps stringList `yaml:"keymaps"`
}

// stringList decodes either a single scalar or a sequence of scalars.
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = stringList{s}
	case yaml.SequenceNode:
		var s []string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = stringList(s)
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", value.Line)
	}
	return nil
}

// Read parses the matrix document at path into normalized build entries.
// A document without a top-level include list is not an error: it yields
// no entries and a warning, and the caller treats the run as complete.
// Entries without shields are dropped with a warning as well.
func Read(logger zerolog.Logger, path string) ([]model.BuildEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read matrix %s: %w", path, err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse matrix %s: %w", path, err)
	}
	if len(doc.Include) == 0 {
		logger.Warn().Str("matrix", path).Msg("Matrix has no include list, nothing to build")
		return nil, nil
	}

	entries := make([]model.BuildEntry, 0, len(doc.Include))
	for i, raw := range doc.Include {
		e := normalize(raw)
		if len(e.Shields) == 0 {
			logger.Warn().Int("entry", i).Str("format", e.Format).Msg("Matrix entry has no shields, skipping")
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// normalize resolves one raw row into a build entry. The plural key wins
// when both spellings are present. The format falls back to the entry
// name, then to the default format, and an entry without boards builds
// for the default board.
func normalize(raw entry) model.BuildEntry {
	e := model.BuildEntry{
		Format:  raw.Format,
		Snippet: raw.Snippet,
		Boards:  raw.Board,
		Shields: coalesce(raw.Shields, raw.Shield),
		Keymaps: coalesce(raw.Keymaps, raw.Keymap),
	}
	if e.Format == "" {
		e.Format = raw.Name
	}
	if e.Format == "" {
		e.Format = model.DefaultFormat
	}
	if len(e.Boards) == 0 {
		e.Boards = []string{model.DefaultBoard}
	}
	return e
}

func coalesce(lists ...stringList) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}
