package main

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Section represents a single h2 section of the runbook
type Section struct {
	Title string
	Vars  []string
}

// Runbook represents a parsed setup runbook
type Runbook struct {
	Title    string
	Sections []Section
}

// FindSection finds a section by title
func (r *Runbook) FindSection(title string) *Section {
	for i := range r.Sections {
		if r.Sections[i].Title == title {
			return &r.Sections[i]
		}
	}
	return nil
}

// Vars returns every environment variable documented anywhere in the runbook
func (r *Runbook) Vars() []string {
	seen := make(map[string]bool)
	var vars []string
	for _, s := range r.Sections {
		for _, v := range s.Vars {
			if !seen[v] {
				seen[v] = true
				vars = append(vars, v)
			}
		}
	}
	return vars
}

// Parse parses a setup runbook markdown file. Environment variables are
// recognized as the first code span of each list item, e.g.:
//
//	- `DB_USER` — role the application connects as
func Parse(source []byte) (*Runbook, error) {
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	runbook := &Runbook{}
	var current *Section

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			switch node.Level {
			case 1:
				if runbook.Title == "" {
					runbook.Title = string(headingText(node, source))
				}
			case 2:
				runbook.Sections = append(runbook.Sections, Section{
					Title: string(headingText(node, source)),
				})
				current = &runbook.Sections[len(runbook.Sections)-1]
			}
		case *ast.ListItem:
			if current == nil {
				return ast.WalkContinue, nil
			}
			if name := firstCodeSpan(node, source); name != "" {
				current.Vars = append(current.Vars, name)
			}
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	return runbook, nil
}

func headingText(node ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			buf.Write(textNode.Segment.Value(source))
		}
	}
	return buf.Bytes()
}

// firstCodeSpan returns the text of the first code span directly inside a
// list item's leading paragraph, or "" when the item has none.
func firstCodeSpan(item ast.Node, source []byte) string {
	para := item.FirstChild()
	if para == nil {
		return ""
	}
	for child := para.FirstChild(); child != nil; child = child.NextSibling() {
		if code, ok := child.(*ast.CodeSpan); ok {
			var buf bytes.Buffer
			for c := code.FirstChild(); c != nil; c = c.NextSibling() {
				if textNode, ok := c.(*ast.Text); ok {
					buf.Write(textNode.Segment.Value(source))
				}
			}
			return buf.String()
		}
	}
	return ""
}
