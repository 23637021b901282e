package workspace

import (
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/fbkclanna/manifold/internal/git"
	"github.com/fbkclanna/manifold/internal/manifest"
	"github.com/fbkclanna/manifold/internal/ui"
)

// FanoutResult records the outcome for one project.
type FanoutResult struct {
	Project  manifest.Project
	ExitCode int
	Skipped  bool
	Err      error
}

// FanoutError signals that at least one project's command failed after the
// whole pass ran to completion.
type FanoutError struct {
	Failed []string // project paths
}

func (e *FanoutError) Error() string {
	return fmt.Sprintf("command failed in %d project(s): %s", len(e.Failed), strings.Join(e.Failed, ", "))
}

// Fanout runs argv once per project, sequentially in resolved order, with
// the working directory set to each project's clone. Output is relayed
// verbatim under a per-project banner, so interleaved output stays
// attributable. Failures are isolated: every project is attempted, and the
// pass reports an aggregate FanoutError afterwards if any failed. Projects
// without a materialized clone are skipped with a notice.
func (c *Context) Fanout(projects []manifest.Project, argv []string, out, errOut io.Writer) ([]FanoutResult, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("no command specified")
	}

	results := make([]FanoutResult, 0, len(projects))
	var failed []string

	for _, p := range projects {
		res := FanoutResult{Project: p}
		dir := c.CloneDir(p)

		if !git.IsCloned(dir) {
			ui.Warning(out, "skipping %s (not cloned, run update first)", p.Path)
			res.Skipped = true
			results = append(results, res)
			continue
		}

		ui.Banner(out, p.Name, p.Path)

		cmd := exec.Command(argv[0], argv[1:]...)
		cmd.Dir = dir
		cmd.Stdout = out
		cmd.Stderr = errOut
		if err := cmd.Run(); err != nil {
			res.Err = err
			if exitErr, ok := err.(*exec.ExitError); ok {
				res.ExitCode = exitErr.ExitCode()
			} else {
				res.ExitCode = -1
			}
			ui.Failure(out, p.Path, err)
			failed = append(failed, p.Path)
		}
		results = append(results, res)
	}

	if len(failed) > 0 {
		return results, &FanoutError{Failed: failed}
	}
	return results, nil
}
