// image.go implements the "assistant-bot image" command group: rendering
// the Dockerfile from the image definition, validating a Dockerfile's
// instruction order, and building and listing images through Docker.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/assistant-bot/internal/containerfile"
	"github.com/shinji-kodama/assistant-bot/internal/docker"
	"github.com/shinji-kodama/assistant-bot/internal/model"
)

// NewImageCommand creates the "image" command group.
func NewImageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Render, validate and build the assistant-bot container image",
		Long: `Manage the container image that ships assistant-bot.

The image is described by assistant-bot.image.jsonc in the project root
(or .assistant-bot/image.jsonc). Without that file the built-in default
definition is used.`,
	}

	cmd.AddCommand(newImageRenderCommand())
	cmd.AddCommand(newImageValidateCommand())
	cmd.AddCommand(newImageBuildCommand())
	cmd.AddCommand(newImageListCommand())
	return cmd
}

// loadDefinition returns the definition found in dir, or the default
// definition when dir has none. The result has passed Check.
func loadDefinition(dir string) (*containerfile.Definition, error) {
	def := containerfile.Default()
	if path := containerfile.FindDefinition(dir); path != "" {
		VerboseLog("Using image definition %s", path)
		loaded, err := containerfile.LoadDefinition(path)
		if err != nil {
			return nil, err
		}
		def = loaded
	} else {
		VerboseLog("No image definition in %s, using defaults", dir)
	}

	if errs := def.Check(); len(errs) > 0 {
		messages := make([]string, 0, len(errs))
		for i := range errs {
			messages = append(messages, errs[i].Error())
		}
		return nil, model.NewCLIError(model.ExitInvalidImageDefinition,
			"invalid image definition: "+strings.Join(messages, "; "))
	}
	return def, nil
}

// imageRenderFlags holds the flag values for the image render command.
type imageRenderFlags struct {
	// dir is the project directory the definition is looked up in.
	dir string

	// output is the file to write; empty writes to stdout.
	output string
}

func newImageRenderCommand() *cobra.Command {
	flags := &imageRenderFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the Dockerfile generated from the image definition",
		Long: `Render the image definition as a Dockerfile.

Examples:
  assistant-bot image render
  assistant-bot image render --output Dockerfile`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImageRender(cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.dir, "dir", ".", "Project directory containing the image definition")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write the Dockerfile to this file instead of stdout")

	return cmd
}

func runImageRender(out io.Writer, flags *imageRenderFlags) error {
	def, err := loadDefinition(flags.dir)
	if err != nil {
		return err
	}
	text := containerfile.Render(def)

	if flags.output == "" {
		if IsJSONOutput() {
			data, _ := json.MarshalIndent(map[string]interface{}{"dockerfile": text}, "", "  ")
			fmt.Fprintln(out, string(data))
			return nil
		}
		fmt.Fprint(out, text)
		return nil
	}

	if err := os.WriteFile(flags.output, []byte(text), 0o644); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to write %s", flags.output), err)
	}
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]interface{}{"written": flags.output}, "", "  ")
		fmt.Fprintln(out, string(data))
	} else {
		fmt.Fprintf(out, "Wrote %s\n", flags.output)
	}
	return nil
}

func newImageValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Check the instruction order of a Dockerfile",
		Long: `Validate that a Dockerfile follows the required instruction order:
FROM first, the application root set before WORKDIR uses it, WORKDIR
and COPY before the first RUN, and a single exec-form CMD last.

Examples:
  assistant-bot image validate
  assistant-bot image validate build/Dockerfile`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "Dockerfile"
			if len(args) == 1 {
				path = args[0]
			}
			return runImageValidate(cmd.OutOrStdout(), path)
		},
	}
}

func runImageValidate(out io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.WrapCLIError(model.ExitInvalidImageDefinition,
			fmt.Sprintf("failed to read %s", path), err)
	}

	instrs, err := containerfile.Parse(string(data))
	if err != nil {
		return model.WrapCLIError(model.ExitInvalidImageDefinition,
			fmt.Sprintf("failed to parse %s", path), err)
	}
	VerboseLog("Parsed %d instructions from %s", len(instrs), path)

	errs := containerfile.Validate(instrs)
	printValidateResult(out, path, errs)
	if len(errs) > 0 {
		return model.NewCLIError(model.ExitInvalidImageDefinition,
			fmt.Sprintf("%s has %d problem(s)", path, len(errs)))
	}
	return nil
}

// printValidateResult outputs the validation findings in text or JSON format.
func printValidateResult(out io.Writer, path string, errs []containerfile.ValidationError) {
	if IsJSONOutput() {
		type problemJSON struct {
			Line        int    `json:"line"`
			Instruction string `json:"instruction"`
			Message     string `json:"message"`
		}
		problems := make([]problemJSON, 0, len(errs))
		for _, e := range errs {
			problems = append(problems, problemJSON{
				Line:        e.Line,
				Instruction: string(e.Instruction),
				Message:     e.Message,
			})
		}
		data, _ := json.MarshalIndent(map[string]interface{}{
			"path":     path,
			"valid":    len(errs) == 0,
			"problems": problems,
		}, "", "  ")
		fmt.Fprintln(out, string(data))
		return
	}

	if len(errs) == 0 {
		fmt.Fprintf(out, "%s: OK\n", path)
		return
	}
	for i := range errs {
		fmt.Fprintf(out, "%s:%s\n", path, errs[i].Error())
	}
}

// imageBuildFlags holds the flag values for the image build command.
type imageBuildFlags struct {
	// tag is the image reference; empty means $ASSISTANT_BOT_IMAGE.
	tag string

	// contextDir is the build context sent to the daemon.
	contextDir string
}

func newImageBuildCommand() *cobra.Command {
	flags := &imageBuildFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the assistant-bot image with Docker",
		Long: `Build the container image from the image definition.

The project directory is sent to Docker as the build context, without
.git, paths listed in .dockerignore and the address book data file.

Examples:
  assistant-bot image build
  assistant-bot image build --tag assistant-bot:1.0 --context ./src`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImageBuild(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.tag, "tag", "t", "", "Image tag (default: $ASSISTANT_BOT_IMAGE or assistant-bot:latest)")
	cmd.Flags().StringVar(&flags.contextDir, "context", ".", "Build context directory")

	return cmd
}

func runImageBuild(ctx context.Context, out, progress io.Writer, flags *imageBuildFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	contextDir, err := filepath.Abs(flags.contextDir)
	if err != nil {
		return model.WrapCLIError(model.ExitInvalidInput, "invalid --context path", err)
	}
	def, err := loadDefinition(contextDir)
	if err != nil {
		return err
	}

	tag := flags.tag
	if tag == "" {
		tag = cfg.Image
	}

	// The address book holds personal data; never send it to the daemon.
	var exclude []string
	if rel, ok := relativeTo(contextDir, cfg.DataFile); ok {
		exclude = append(exclude, rel)
	}

	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return err
	}
	VerboseLog("Connected to Docker daemon")

	// Build progress is human-readable; keep stdout clean for JSON.
	if !IsJSONOutput() {
		progress = out
	}

	info, err := docker.BuildImage(ctx, cli, docker.BuildRequest{
		ContextDir: contextDir,
		Definition: def,
		Tag:        tag,
		Version:    Version,
		Exclude:    exclude,
		Output:     progress,
	})
	if err != nil {
		return err
	}

	printBuildResult(out, info)
	return nil
}

// relativeTo returns target relative to dir when target lies inside dir.
func relativeTo(dir, target string) (string, bool) {
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func printBuildResult(out io.Writer, info *model.ImageInfo) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(info, "", "  ")
		fmt.Fprintln(out, string(data))
		return
	}
	fmt.Fprintf(out, "Built image %s (%s)\n", strings.Join(info.Tags, ", "), docker.ShortID(info.ID))
}

func newImageListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List images built by assistant-bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImageList(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func runImageList(ctx context.Context, out io.Writer) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	images, err := docker.ListImages(ctx, cli)
	if err != nil {
		return err
	}
	VerboseLog("Found %d managed images", len(images))

	printImageList(out, images)
	return nil
}

// printImageList outputs the images in text or JSON format.
func printImageList(out io.Writer, images []model.ImageInfo) {
	if IsJSONOutput() {
		type resultJSON struct {
			Images []model.ImageInfo `json:"images"`
		}
		// An empty slice prints [] instead of null.
		result := resultJSON{Images: make([]model.ImageInfo, 0, len(images))}
		result.Images = append(result.Images, images...)
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Fprintln(out, string(data))
		return
	}
	printImageListText(out, images)
}

// printImageListText outputs the images as a table:
//
//	IMAGE ID       TAGS                   VERSION    BUILT
//	0123456789ab   assistant-bot:latest   1.0.0      2026-03-01 12:00
func printImageListText(out io.Writer, images []model.ImageInfo) {
	if len(images) == 0 {
		fmt.Fprintln(out, "No assistant-bot images found.")
		return
	}

	fmt.Fprintf(out, "%-14s %-30s %-10s %s\n", "IMAGE ID", "TAGS", "VERSION", "BUILT")
	for _, img := range images {
		fmt.Fprintf(out, "%-14s %-30s %-10s %s\n",
			docker.ShortID(img.ID),
			FormatTags(img.Tags),
			orDash(img.Version),
			formatBuiltAt(img.BuiltAt),
		)
	}
}

// FormatTags joins image tags with commas. Returns "<none>" when the
// image is untagged.
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return "<none>"
	}
	return strings.Join(tags, ",")
}

func formatBuiltAt(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
