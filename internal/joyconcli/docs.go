package joyconcli

import (
	"bytes"
	"embed"
	"fmt"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
)

//go:embed docs/*.md
var docsFS embed.FS

// HelpTopics lists the embedded long-form help documents, sorted by name.
func HelpTopics() ([]string, error) {
	entries, err := docsFS.ReadDir("docs")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// RenderHelpTopic renders one embedded Markdown doc (flash memory map, IR
// resolution table, ...) to HTML using a goldmark pipeline with the table
// extension and front-matter parsing enabled. `joyconctl help-topics`
// prints the resulting HTML as-is.
func RenderHelpTopic(name string) ([]byte, error) {
	src, err := docsFS.ReadFile("docs/" + name)
	if err != nil {
		return nil, fmt.Errorf("joyconcli: help topic %q: %w", name, err)
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			meta.Meta,
		),
	)
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("joyconcli: render %q: %w", name, err)
	}
	return buf.Bytes(), nil
}
