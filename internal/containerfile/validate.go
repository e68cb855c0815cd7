package containerfile

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ValidationError is a single problem found in a Dockerfile or definition.
type ValidationError struct {
	// Line is the Dockerfile line, or 0 for definition fields.
	Line int

	// Instruction is the keyword or definition field at fault.
	Instruction string

	Message string
}

// Error formats the problem as "line N: KIND: message". Definition
// problems have no line and omit the prefix.
func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Instruction, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Instruction, e.Message)
}

// varRefRegex matches $NAME and ${NAME} references.
var varRefRegex = regexp.MustCompile(`\$\{?([A-Za-z_][A-Za-z0-9_]*)\}?`)

// Validate checks the build-order guarantees of the image:
//   - FROM comes first (ARG may precede it)
//   - WORKDIR is set, and before the first RUN
//   - variables used by WORKDIR are defined by an earlier ENV or ARG
//   - at least one COPY happens before the first RUN
//   - there is exactly one CMD, in exec form, and it is the last step
//
// An empty result means the Dockerfile is valid.
func Validate(instrs []Instruction) []ValidationError {
	var errs []ValidationError
	add := func(in Instruction, format string, args ...interface{}) {
		errs = append(errs, ValidationError{Line: in.Line, Instruction: in.Kind, Message: fmt.Sprintf(format, args...)})
	}

	if len(instrs) == 0 {
		return []ValidationError{{Instruction: KindFrom, Message: "Dockerfile has no instructions"}}
	}

	// Check 1: FROM first.
	first := 0
	for first < len(instrs) && instrs[first].Kind == KindArg {
		first++
	}
	if first == len(instrs) || instrs[first].Kind != KindFrom {
		in := instrs[0]
		if first < len(instrs) {
			in = instrs[first]
		}
		add(in, "the first instruction must be FROM")
	}

	var (
		defined   = map[string]bool{}
		workdirAt = -1
		copyAt    = -1
		firstRun  = -1
		cmds      []int
	)
	for i, in := range instrs {
		switch in.Kind {
		case KindEnv, KindArg:
			for _, name := range definedNames(in.Args) {
				defined[name] = true
			}
		case KindWorkdir:
			for _, m := range varRefRegex.FindAllStringSubmatch(in.Args, -1) {
				if !defined[m[1]] {
					add(in, "uses $%s before it is defined by ENV", m[1])
				}
			}
			if workdirAt < 0 {
				workdirAt = i
			}
		case KindCopy:
			if copyAt < 0 {
				copyAt = i
			}
		case KindRun:
			if firstRun < 0 {
				firstRun = i
			}
		case KindCmd:
			cmds = append(cmds, i)
		}
	}

	// Check 2: WORKDIR before dependency installation.
	switch {
	case workdirAt < 0:
		errs = append(errs, ValidationError{Instruction: KindWorkdir, Message: "working directory is never set"})
	case firstRun >= 0 && workdirAt > firstRun:
		add(instrs[workdirAt], "working directory must be set before the first RUN (line %d)", instrs[firstRun].Line)
	}

	// Check 3: files are copied before installation.
	if firstRun >= 0 && (copyAt < 0 || copyAt > firstRun) {
		add(instrs[firstRun], "no COPY precedes dependency installation")
	}

	// Check 4: a single exec-form CMD at the end.
	switch len(cmds) {
	case 0:
		errs = append(errs, ValidationError{Instruction: KindCmd, Message: "launch command is missing"})
	case 1:
		in := instrs[cmds[0]]
		if cmds[0] != len(instrs)-1 {
			add(in, "launch command must be the last instruction")
		}
		var argv []string
		if err := json.Unmarshal([]byte(in.Args), &argv); err != nil || len(argv) == 0 {
			add(in, "launch command must use exec form, e.g. [\"assistant-bot\"]")
		}
	default:
		for _, i := range cmds[1:] {
			add(instrs[i], "only one launch command is allowed (first on line %d)", instrs[cmds[0]].Line)
		}
	}

	return errs
}

// definedNames returns the variable names set by ENV or ARG arguments.
// Both "KEY=value ..." and the legacy "KEY value" forms are understood.
func definedNames(args string) []string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return nil
	}
	if !strings.Contains(fields[0], "=") {
		return []string{fields[0]}
	}
	var names []string
	for _, f := range fields {
		if name, _, ok := strings.Cut(f, "="); ok && envNameRegex.MatchString(name) {
			names = append(names, name)
		}
	}
	return names
}
