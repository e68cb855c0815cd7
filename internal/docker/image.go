package docker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/pkg/jsonmessage"

	"github.com/shinji-kodama/assistant-bot/internal/containerfile"
	"github.com/shinji-kodama/assistant-bot/internal/model"
)

// DockerfileName is the name the rendered Dockerfile gets inside the
// build context. It differs from "Dockerfile" so a hand-written file in
// the project is never overwritten.
const DockerfileName = "Dockerfile.assistant-bot"

// BuildRequest holds the inputs of BuildImage.
type BuildRequest struct {
	// ContextDir is the project directory sent to the daemon.
	ContextDir string

	// Definition is rendered and injected as DockerfileName.
	Definition *containerfile.Definition

	// Tag is the image reference to apply, e.g. "assistant-bot:latest".
	Tag string

	// Version is recorded in the LabelVersion label.
	Version string

	// Exclude lists extra context-relative paths to leave out, such as
	// the address book data file.
	Exclude []string

	// Output receives build progress. Nil discards it.
	Output io.Writer

	// Now overrides the build timestamp. Zero means time.Now.
	Now time.Time
}

// BuildImage validates the definition, packages the build context and
// builds the image through the Engine API. Progress messages are rendered
// to req.Output; a failed step is returned as an error.
func BuildImage(ctx context.Context, cli *Client, req BuildRequest) (*model.ImageInfo, error) {
	if req.Definition == nil {
		return nil, model.NewCLIError(model.ExitInvalidImageDefinition, "no image definition given")
	}
	if errs := req.Definition.Check(); len(errs) > 0 {
		return nil, model.WrapCLIError(
			model.ExitInvalidImageDefinition,
			"image definition is invalid",
			&errs[0],
		)
	}

	// Step 1: tar the context with the rendered Dockerfile on top.
	buildCtx, err := buildContext(req)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to prepare build context", err)
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	meta := model.ImageInfo{
		Tags:    []string{req.Tag},
		Version: req.Version,
		AppHome: req.Definition.AppHome,
		BuiltAt: now.UTC().Truncate(time.Second),
	}

	// Step 2: send the build. Labels carry the metadata "image list" reads.
	resp, err := cli.Inner().ImageBuild(ctx, buildCtx, build.ImageBuildOptions{
		Tags:       []string{req.Tag},
		Dockerfile: DockerfileName,
		Labels:     BuildLabels(meta),
		Remove:     true,
	})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerNotRunning, "image build request failed", err)
	}
	defer resp.Body.Close()

	out := req.Output
	if out == nil {
		out = io.Discard
	}
	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, out, 0, false, func(msg jsonmessage.JSONMessage) {
		// The aux message of a successful build carries the image ID.
		if msg.Aux == nil {
			return
		}
		var aux struct {
			ID string `json:"ID"`
		}
		if jsonErr := json.Unmarshal(*msg.Aux, &aux); jsonErr == nil && aux.ID != "" {
			meta.ID = aux.ID
		}
	}); err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, fmt.Sprintf("failed to build image %s", req.Tag), err)
	}

	return &meta, nil
}

// buildContext archives req.ContextDir into memory. The archive is small
// (source files only) so streaming through a pipe is not needed.
func buildContext(req BuildRequest) (io.Reader, error) {
	patterns, err := ReadIgnoreFile(req.ContextDir)
	if err != nil {
		return nil, err
	}
	for _, p := range req.Exclude {
		if p == "" {
			continue
		}
		patterns = append(patterns, strings.TrimPrefix(path.Clean(filepath.ToSlash(p)), "/"))
	}

	var buf bytes.Buffer
	extra := map[string][]byte{DockerfileName: []byte(containerfile.Render(req.Definition))}
	if err := WriteContext(&buf, req.ContextDir, patterns, extra); err != nil {
		return nil, err
	}
	return &buf, nil
}

// ListImages returns images carrying the management label, newest first.
// Images whose labels cannot be parsed are still listed with the daemon's
// data only.
func ListImages(ctx context.Context, cli *Client) ([]model.ImageInfo, error) {
	filterArgs := filters.NewArgs()
	for k, v := range FilterLabels() {
		filterArgs.Add("label", k+"="+v)
	}

	summaries, err := cli.Inner().ImageList(ctx, image.ListOptions{Filters: filterArgs})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerNotRunning, "failed to list Docker images", err)
	}

	result := make([]model.ImageInfo, 0, len(summaries))
	for _, s := range summaries {
		result = append(result, summaryToInfo(s))
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].BuiltAt.After(result[j].BuiltAt)
	})
	return result, nil
}

// summaryToInfo maps an Engine image summary onto ImageInfo.
func summaryToInfo(s image.Summary) model.ImageInfo {
	info := model.ImageInfo{
		ID:   s.ID,
		Tags: s.RepoTags,
		Size: s.Size,
	}
	if meta, err := ParseLabels(s.Labels); err == nil {
		info.Version = meta.Version
		info.AppHome = meta.AppHome
		info.BuiltAt = meta.BuiltAt
	} else if s.Created > 0 {
		info.BuiltAt = time.Unix(s.Created, 0).UTC()
	}
	return info
}

// ShortID trims the "sha256:" prefix and shortens an image ID to 12
// characters, the way the docker CLI prints it.
func ShortID(id string) string {
	id = strings.TrimPrefix(id, "sha256:")
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
