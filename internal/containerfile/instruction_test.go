package containerfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParse_RenderRoundTrip checks that Parse reads back exactly what
// Render writes, including line numbers.
func TestParse_RenderRoundTrip(t *testing.T) {
	d := Default()
	got, err := Parse(Render(d))
	require.NoError(t, err)
	assert.Equal(t, d.Instructions(), got)
}

func TestParse(t *testing.T) {
	text := `# syntax=docker/dockerfile:1
ARG GO_VERSION=1.25

from golang:${GO_VERSION}
ENV APP_HOME=/app
WORKDIR $APP_HOME
COPY . .
RUN apk add --no-cache git \
    # tools for go mod download
    && go mod download
CMD ["assistant-bot"]
`
	got, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, got, 7)

	assert.Equal(t, Instruction{Kind: KindArg, Args: "GO_VERSION=1.25", Line: 2}, got[0])
	assert.Equal(t, Instruction{Kind: KindFrom, Args: "golang:${GO_VERSION}", Line: 4}, got[1])
	assert.Equal(t, Instruction{Kind: KindRun, Args: "apk add --no-cache git && go mod download", Line: 8}, got[5])
	assert.Equal(t, 11, got[6].Line)
}

// TestParse_EscapeDirective checks that the escape directive changes the
// line continuation character.
func TestParse_EscapeDirective(t *testing.T) {
	text := "# escape=`\n" +
		"FROM alpine\n" +
		"RUN echo one `\n" +
		"    && echo two\n" +
		"CMD [\"sh\"]\n"

	got, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, Instruction{Kind: KindRun, Args: "echo one && echo two", Line: 3}, got[1])
	assert.Equal(t, 5, got[2].Line)
}

// TestParse_Heredoc checks that a heredoc body is consumed with its
// instruction instead of being read as further instructions.
func TestParse_Heredoc(t *testing.T) {
	text := "FROM golang:1.25-alpine\n" +
		"RUN <<EOF\n" +
		"go mod download\n" +
		"go install ./cmd/assistant-bot\n" +
		"EOF\n" +
		"CMD [\"assistant-bot\"]\n"

	got, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, Instruction{Kind: KindRun, Args: "<<EOF", Line: 2}, got[1])
	assert.Equal(t, Instruction{Kind: KindCmd, Args: `["assistant-bot"]`, Line: 6}, got[2])
}

// TestParse_BlankLineInContinuation checks that a blank line inside a
// continued instruction does not end it.
func TestParse_BlankLineInContinuation(t *testing.T) {
	text := "FROM alpine\n" +
		"RUN apk add git \\\n" +
		"\n" +
		"    curl\n" +
		"CMD [\"sh\"]\n"

	got, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, Instruction{Kind: KindRun, Args: "apk add git curl", Line: 2}, got[1])
	assert.Equal(t, 5, got[2].Line)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("")
	assert.ErrorContains(t, err, "failed to parse Dockerfile")

	_, err = Parse("FROM alpine\nWORKDIR\n")
	assert.ErrorContains(t, err, "line 2")
}
