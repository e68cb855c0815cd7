package containerfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/assistant-bot/internal/model"
)

// DefinitionFileName is the file looked up by FindDefinition.
const DefinitionFileName = "assistant-bot.image.jsonc"

// Definition holds the configurable parts of the image build.
type Definition struct {
	// BaseImage is the image the build starts FROM.
	BaseImage string `json:"baseImage"`

	// AppHomeEnv names the environment variable holding the application
	// root. WORKDIR refers to it instead of repeating the path.
	AppHomeEnv string `json:"appHomeEnv"`

	// AppHome is the absolute application root inside the image.
	AppHome string `json:"appHome"`

	// Env holds extra environment variables, rendered after AppHomeEnv in
	// key order. The default image sets none: the application root is its
	// only environment variable.
	Env map[string]string `json:"env,omitempty"`

	// Copy lists the files copied into the working directory.
	Copy []CopySpec `json:"copy"`

	// Install lists the shell commands run after the copy, in order.
	Install []string `json:"install"`

	// Cmd is the launch command in exec form.
	Cmd []string `json:"cmd"`
}

// CopySpec is one COPY instruction.
type CopySpec struct {
	Src string `json:"src"`
	Dst string `json:"dst"`
}

// Default returns the definition of the published image.
func Default() *Definition {
	return &Definition{
		BaseImage:  "golang:1.25-alpine",
		AppHomeEnv: "APP_HOME",
		AppHome:    "/app",
		Copy: []CopySpec{{Src: ".", Dst: "."}},
		Install: []string{
			"go mod download",
			"CGO_ENABLED=0 go install -trimpath ./cmd/assistant-bot",
		},
		Cmd: []string{"assistant-bot"},
	}
}

// FindDefinition returns the path of the definition file in dir, or ""
// when there is none.
func FindDefinition(dir string) string {
	candidates := []string{
		filepath.Join(dir, DefinitionFileName),
		filepath.Join(dir, ".assistant-bot", "image.jsonc"),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadDefinition reads a JSONC definition file. Fields missing from the
// file keep their Default values; slices present in the file replace the
// defaults entirely, maps are merged.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitInvalidImageDefinition,
				fmt.Sprintf("image definition not found: %s", path),
				err,
			)
		}
		return nil, fmt.Errorf("failed to read image definition: %w", err)
	}

	def := Default()
	if err := json.Unmarshal(jsonc.ToJSON(data), def); err != nil {
		return nil, model.WrapCLIError(
			model.ExitInvalidImageDefinition,
			fmt.Sprintf("failed to parse image definition %s", path),
			err,
		)
	}
	return def, nil
}

var envNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Check validates the definition's own fields. It does not look at
// ordering; Instructions always produces a correct order.
func (d *Definition) Check() []ValidationError {
	var errs []ValidationError
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Instruction: field, Message: msg})
	}

	if strings.TrimSpace(d.BaseImage) == "" {
		add("baseImage", "base image must not be empty")
	}
	if !envNameRegex.MatchString(d.AppHomeEnv) {
		add("appHomeEnv", fmt.Sprintf("invalid environment variable name %q", d.AppHomeEnv))
	}
	if !strings.HasPrefix(d.AppHome, "/") {
		add("appHome", fmt.Sprintf("application root %q must be an absolute path", d.AppHome))
	}
	for k := range d.Env {
		if !envNameRegex.MatchString(k) {
			add("env", fmt.Sprintf("invalid environment variable name %q", k))
		}
	}
	if len(d.Copy) == 0 {
		add("copy", "at least one copy entry is required")
	}
	for i, c := range d.Copy {
		if c.Src == "" || c.Dst == "" {
			add("copy", fmt.Sprintf("entry %d needs both src and dst", i))
		}
	}
	for i, cmd := range d.Install {
		if strings.TrimSpace(cmd) == "" {
			add("install", fmt.Sprintf("step %d is empty", i))
		}
	}
	if len(d.Cmd) == 0 || d.Cmd[0] == "" {
		add("cmd", "launch command must not be empty")
	}
	return errs
}

// Instructions expands the definition into the ordered build steps.
func (d *Definition) Instructions() []Instruction {
	out := []Instruction{
		{Kind: KindFrom, Args: d.BaseImage},
		{Kind: KindEnv, Args: envArg(d.AppHomeEnv, d.AppHome)},
	}

	keys := make([]string, 0, len(d.Env))
	for k := range d.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, Instruction{Kind: KindEnv, Args: envArg(k, d.Env[k])})
	}

	out = append(out, Instruction{Kind: KindWorkdir, Args: "$" + d.AppHomeEnv})
	for _, c := range d.Copy {
		out = append(out, Instruction{Kind: KindCopy, Args: c.Src + " " + c.Dst})
	}
	for _, cmd := range d.Install {
		out = append(out, Instruction{Kind: KindRun, Args: cmd})
	}

	// json.Marshal of a []string cannot fail.
	cmd, _ := json.Marshal(d.Cmd)
	out = append(out, Instruction{Kind: KindCmd, Args: string(cmd)})

	for i := range out {
		out[i].Line = i + 1 + len(renderHeader)
	}
	return out
}

// envArg renders KEY=value, quoting values that contain whitespace or
// quotes.
func envArg(key, value string) string {
	if value == "" || strings.ContainsAny(value, " \t\"'") {
		value = fmt.Sprintf("%q", value)
	}
	return key + "=" + value
}
