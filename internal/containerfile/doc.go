// Package containerfile describes how the assistant-bot container image is
// built and checks that a Dockerfile follows that recipe.
//
// The image is a strictly ordered sequence of build steps:
//
//	FROM <base image>
//	ENV APP_HOME=/app             application root
//	WORKDIR $APP_HOME             working directory = application root
//	COPY . .                      sources
//	RUN go mod download           dependency installation
//	RUN go install ...            build of the main binary only
//	CMD ["assistant-bot"]         launch, no arguments
//
// A Definition captures the variable parts of that recipe and can be read
// from a JSONC file (comments allowed, parsed with github.com/tidwall/jsonc).
// Render turns a Definition into Dockerfile text, Parse reads Dockerfile
// text back into instructions, and Validate checks the ordering guarantees
// the image relies on.
package containerfile
