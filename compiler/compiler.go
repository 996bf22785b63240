// Package compiler renders a validated game contract into typed-constant
// bindings for the supported target runtimes.
//
// Rendering is deterministic: the same contract document always produces
// byte-identical artifacts, so committed bindings can be diffed against a
// fresh render to detect drift between the contract and its consumers.
package compiler

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kuhnforge/gamecore/contract"
)

// Artifact is one rendered binding file. Filename is relative to the
// bindings root, e.g. "go/contract.go".
type Artifact struct {
	Target   string
	Filename string
	Content  []byte
}

// Renderer turns a canonicalized contract into one target-language
// artifact. The source string names the contract file for the generated
// header and carries no other meaning.
type Renderer interface {
	Target() string
	Filename() string
	Render(doc *contract.Document, source string) ([]byte, error)
}

// DefaultRenderers returns one renderer per supported target, in stable
// order.
func DefaultRenderers() []Renderer {
	return []Renderer{goRenderer{}, pythonRenderer{}, typescriptRenderer{}}
}

// Compile validates the contract semantics and renders one artifact per
// renderer. With no renderers given it uses DefaultRenderers. Before any
// renderer runs the document is canonicalized: actions ordered by id,
// observation segments by offset, history buckets by index. Mask entries
// are always emitted in phase declaration order.
func Compile(doc *contract.Document, source string, renderers ...Renderer) ([]Artifact, error) {
	if violations := contract.ValidateSemantics(doc); len(violations) > 0 {
		errs := make([]error, len(violations))
		for i, v := range violations {
			errs[i] = v
		}
		return nil, fmt.Errorf("contract %s/%s failed validation: %w",
			doc.ContractName, doc.Version, errors.Join(errs...))
	}
	if len(renderers) == 0 {
		renderers = DefaultRenderers()
	}

	canonical := canonicalize(doc)
	artifacts := make([]Artifact, 0, len(renderers))
	for _, r := range renderers {
		content, err := r.Render(canonical, source)
		if err != nil {
			return nil, fmt.Errorf("render %s bindings: %w", r.Target(), err)
		}
		artifacts = append(artifacts, Artifact{
			Target:   r.Target(),
			Filename: r.Filename(),
			Content:  content,
		})
	}
	return artifacts, nil
}

// canonicalize clones the document with every renderer-visible list in
// canonical order, so map iteration or author ordering never leaks into
// the artifacts.
func canonicalize(doc *contract.Document) *contract.Document {
	c := doc.Clone()
	sort.Slice(c.Actions, func(i, j int) bool {
		return c.Actions[i].ID < c.Actions[j].ID
	})
	sort.Slice(c.Observation.Segments, func(i, j int) bool {
		return c.Observation.Segments[i].Offset < c.Observation.Segments[j].Offset
	})
	sort.Slice(c.Observation.HistoryBuckets, func(i, j int) bool {
		return c.Observation.HistoryBuckets[i].Index < c.Observation.HistoryBuckets[j].Index
	})
	return c
}

// exportedName converts a snake_case contract identifier into an exported
// Go identifier: "check_call" becomes "CheckCall".
func exportedName(snake string) string {
	var b strings.Builder
	for _, part := range strings.Split(snake, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// joinLines assembles rendered lines into file content with a trailing
// newline.
func joinLines(lines []string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}

// alignPairs renders name/value pairs with the values aligned to the
// widest name, matching gofmt's layout for adjacent definitions.
func alignPairs(pairs [][2]string, indent, sep string) []string {
	width := 0
	for _, p := range pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}
	lines := make([]string, len(pairs))
	for i, p := range pairs {
		pad := strings.Repeat(" ", width-len(p[0]))
		lines[i] = indent + p[0] + pad + sep + p[1]
	}
	return lines
}
