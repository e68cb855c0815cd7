// Package docker builds and lists assistant-bot container images through
// the Docker Engine API.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (DOCKER_HOST, then the platform's default socket or named pipe)
//   - Build context packaging: the project directory as a tar stream,
//     filtered by .dockerignore, with the rendered Dockerfile injected
//   - Image builds with progress streamed to the terminal
//   - Image labels that record which version and application root an
//     image was built with, used to find our images again
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with API version negotiation enabled.
package docker
