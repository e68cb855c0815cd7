package docker

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/moby/patternmatcher"
	"github.com/moby/patternmatcher/ignorefile"
)

// ignoreFileName is the Docker ignore file read from the context root.
const ignoreFileName = ".dockerignore"

// alwaysExcluded is never sent to the daemon regardless of .dockerignore.
// It is appended after the user's patterns so a negation cannot bring it
// back.
var alwaysExcluded = []string{".git"}

// ReadIgnoreFile returns the patterns of dir/.dockerignore in file order.
// A missing file yields no patterns. Comments and blank lines are
// dropped; negated ("!") patterns are kept and re-include paths matched
// by earlier patterns, as in "docker build".
func ReadIgnoreFile(dir string) ([]string, error) {
	f, err := os.Open(filepath.Join(dir, ignoreFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", ignoreFileName, err)
	}
	defer f.Close()

	patterns, err := ignorefile.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ignoreFileName, err)
	}
	return patterns, nil
}

// newMatcher compiles patterns followed by alwaysExcluded.
func newMatcher(patterns []string) (*patternmatcher.PatternMatcher, error) {
	all := append(append([]string{}, patterns...), alwaysExcluded...)
	pm, err := patternmatcher.New(all)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}
	return pm, nil
}

// WriteContext writes dir as a tar stream to w. Files matching patterns
// (or ".git") are left out, using .dockerignore semantics including "**"
// and "!" negations. Every entry of extra is added at the root of the
// archive, replacing a file of the same name.
//
// Only regular files and directories are archived; symlinks and devices
// are skipped.
func WriteContext(w io.Writer, dir string, patterns []string, extra map[string][]byte) error {
	pm, err := newMatcher(patterns)
	if err != nil {
		return err
	}

	tw := tar.NewWriter(w)
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		skip, err := pm.MatchesOrParentMatches(rel)
		if err != nil {
			return err
		}
		if skip {
			// With negations in play a file below an excluded directory
			// may still be included, so the walk has to go on.
			if d.IsDir() && !pm.Exclusions() {
				return filepath.SkipDir
			}
			return nil
		}
		rel = filepath.ToSlash(rel)
		if _, ok := extra[rel]; ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.IsDir() && !info.Mode().IsRegular() {
			return nil
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = rel
		if info.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to archive build context %s: %w", dir, err)
	}

	for name, data := range extra {
		hdr := &tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(data)),
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("failed to add %s to build context: %w", name, err)
		}
		if _, err := io.Copy(tw, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("failed to add %s to build context: %w", name, err)
		}
	}

	return tw.Close()
}
