package containerfile

import (
	"fmt"
	"strings"

	"github.com/moby/buildkit/frontend/dockerfile/parser"
)

// Instruction kinds used by the image recipe. Parse accepts any kind; only
// these take part in validation.
const (
	KindFrom    = "FROM"
	KindEnv     = "ENV"
	KindWorkdir = "WORKDIR"
	KindCopy    = "COPY"
	KindRun     = "RUN"
	KindCmd     = "CMD"
	KindArg     = "ARG"
)

// Instruction is one Dockerfile instruction.
type Instruction struct {
	// Kind is the upper-case keyword.
	Kind string

	// Args is everything after the keyword, with continuation lines joined.
	Args string

	// Line is the 1-based line the instruction starts on.
	Line int
}

// String renders the instruction as a Dockerfile line.
func (i Instruction) String() string {
	return i.Kind + " " + i.Args
}

// renderHeader is written above the instructions by Render.
var renderHeader = []string{
	"# syntax=docker/dockerfile:1",
	`# Generated by "assistant-bot image render"; edit ` + DefinitionFileName + " instead.",
}

// Render produces Dockerfile text for the definition.
func Render(d *Definition) string {
	var b strings.Builder
	for _, h := range renderHeader {
		b.WriteString(h)
		b.WriteByte('\n')
	}
	for _, in := range d.Instructions() {
		b.WriteString(in.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Parse reads Dockerfile text into instructions with the BuildKit
// Dockerfile parser, so parser directives (including "escape"), line
// continuations, comments and heredocs are read the way "docker build"
// reads them.
//
// Args holds the instruction text after the keyword with whitespace runs
// collapsed. Heredoc bodies are not part of Args.
func Parse(text string) ([]Instruction, error) {
	result, err := parser.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse Dockerfile: %w", err)
	}

	out := make([]Instruction, 0, len(result.AST.Children))
	for _, node := range result.AST.Children {
		in, err := instructionFromNode(node)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

// instructionFromNode converts one top-level parser node. node.Value is
// the keyword in lower case; node.Original is the joined instruction text.
func instructionFromNode(node *parser.Node) (Instruction, error) {
	kind := strings.ToUpper(node.Value)

	fields := strings.Fields(node.Original)
	if len(fields) > 0 {
		fields = fields[1:]
	}
	args := strings.Join(fields, " ")
	if args == "" {
		return Instruction{}, fmt.Errorf("line %d: %s instruction has no arguments", node.StartLine, kind)
	}
	return Instruction{Kind: kind, Args: args, Line: node.StartLine}, nil
}
