// Implementation of the `topcatcmdtest` harness.
//
// Key behaviors:
//   - Creates `/tmp/topcat-transcripts/tmpproj-<id>` and symlinks
//     `/tmp/topcat-transcripts/bin -> <repo>/bin`.
//   - Seeds a small SQL project with fixed file timestamps and pins
//     `TOPCAT_NOW` so age columns stay stable.
//   - Provisions a fake `HOME`, and with `--venv`/`--empty-venv` a
//     fake virtual environment, for `topcat-shim` launch tests.
//   - Honors `TOPCAT_CMDTEST_TIMEOUT` (default 10s) to cap setup plus
//     command runtime.
//   - Honors `TOPCAT_CMDTEST_ID` to isolate temp projects for
//     parallel tests.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

type tool struct {
	repoRoot        string
	transcriptsRoot string
	stubBinary      string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

const defaultTimeout = 10 * time.Second

// fixtureNow is the instant every transcript run pretends is the
// present.
const fixtureNow = "2000-01-02T00:00:00Z"

func newToolFromExecutable() (*tool, error) {
	if root := os.Getenv("TOPCAT_REPO_ROOT"); root != "" {
		return newTool(root), nil
	}

	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, err
	}
	repoRoot := filepath.Clean(filepath.Join(filepath.Dir(exe), ".."))
	return newTool(repoRoot), nil
}

func newTool(repoRoot string) *tool {
	repoRoot = filepath.Clean(repoRoot)
	return &tool{
		repoRoot:        repoRoot,
		transcriptsRoot: "/tmp/topcat-transcripts",
		stubBinary:      filepath.Join(repoRoot, "bin", "topcatstub"),
		stdin:           os.Stdin,
		stdout:          os.Stdout,
		stderr:          os.Stderr,
	}
}

func (t *tool) runCLI(ctx context.Context, args []string) int {
	ctx, cancel, timeout := withTimeoutFromEnv(ctx, "TOPCAT_CMDTEST_TIMEOUT", defaultTimeout)
	if cancel != nil {
		defer cancel()
	}

	opts, cmdArgs, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(t.stderr, err)
		t.printUsage()
		return 2
	}
	if opts.help {
		t.printUsage()
		return 0
	}

	exitCode, err := t.run(ctx, opts, cmdArgs, timeout)
	if err != nil {
		fmt.Fprintln(t.stderr, err)
		return 1
	}
	return exitCode
}

func (t *tool) printUsage() {
	fmt.Fprint(t.stderr, `Usage: topcatcmdtest [options] -- <command> [args...]

Sets up a disposable topcat test project, runs the given command inside
it, and cleans up afterward. Intended for transcript integration tests.

Options:
  --bare             Leave the project unseeded (for topcat init tests).
  --subdir DIR       cd into DIR (relative to the temp project) before running.
  --venv             Provision a fake virtual environment holding a topcat stub.
  --empty-venv       Provision a fake virtual environment with no topcat in it.
  --user-bin         Install the topcat stub into the fake home's ~/.local/bin.
  --expect-exit N    Require the command to exit N; the harness then exits 0.
  --keep             Preserve the temp project for debugging (prints its path).
`)
}

func (t *tool) run(ctx context.Context, opts options, cmdArgs []string, timeout time.Duration) (int, error) {
	if t.repoRoot == "" {
		return 1, errors.New("repo root is required")
	}
	if _, err := os.Stat(filepath.Join(t.repoRoot, "go.mod")); err != nil {
		return 1, fmt.Errorf("unable to locate topcat repo root: %w", err)
	}

	if err := os.MkdirAll(t.transcriptsRoot, 0o755); err != nil {
		return 1, err
	}

	if err := t.ensureBinSymlink(); err != nil {
		return 1, err
	}

	tmpproj := filepath.Join(t.transcriptsRoot, tmpprojDirName())
	if err := removeAllUnder(t.transcriptsRoot, tmpproj); err != nil {
		return 1, err
	}
	if err := os.MkdirAll(tmpproj, 0o755); err != nil {
		return 1, err
	}

	childEnv := deterministicEnv(os.Environ())

	home := filepath.Join(tmpproj, "home")
	if err := os.MkdirAll(filepath.Join(home, ".local", "bin"), 0o755); err != nil {
		return 1, err
	}
	childEnv = withEnv(childEnv, "HOME", home)

	if !opts.bare {
		if err := seedProject(tmpproj); err != nil {
			return 1, err
		}
	}

	if opts.venv || opts.emptyVenv {
		venv := filepath.Join(tmpproj, "venv")
		if err := os.MkdirAll(filepath.Join(venv, "bin"), 0o755); err != nil {
			return 1, err
		}
		if opts.venv {
			if err := t.installStub(filepath.Join(venv, "bin", "topcat")); err != nil {
				return 1, err
			}
		}
		childEnv = withEnv(childEnv, "VIRTUAL_ENV", venv)
	}
	if opts.userBin {
		if err := t.installStub(filepath.Join(home, ".local", "bin", "topcat")); err != nil {
			return 1, err
		}
	}

	childEnv = withEnv(childEnv, "PATH", filepath.Join(t.transcriptsRoot, "bin")+string(os.PathListSeparator)+getEnv(childEnv, "PATH"))

	workdir := tmpproj
	if opts.subdir != "" {
		workdir = filepath.Join(tmpproj, opts.subdir)
	}

	cmd := exec.CommandContext(ctx, cmdArgs[0], cmdArgs[1:]...)
	cmd.Dir = workdir
	cmd.Env = withEnv(childEnv, "PWD", workdir)
	cmd.Stdin = t.stdin
	cmd.Stdout = t.stdout
	cmd.Stderr = t.stderr

	runErr := cmd.Run()
	if runErr != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return 124, fmt.Errorf("topcatcmdtest: timed out after %s", timeout)
	}
	exitCode := exitStatus(runErr)

	if opts.keepRepo {
		fmt.Fprintf(t.stderr, "temp project kept at %s\n", tmpproj)
	} else if cleanupErr := removeAllUnder(t.transcriptsRoot, tmpproj); cleanupErr != nil {
		return 1, cleanupErr
	}

	if opts.expectExit >= 0 {
		if exitCode != opts.expectExit {
			return 1, fmt.Errorf("command exited %d, want %d", exitCode, opts.expectExit)
		}
		return 0, nil
	}
	return exitCode, nil
}

func (t *tool) ensureBinSymlink() error {
	dst := filepath.Join(t.transcriptsRoot, "bin")
	src := filepath.Join(t.repoRoot, "bin")

	if info, err := os.Lstat(dst); err == nil {
		if info.Mode()&os.ModeSymlink == 0 {
			return fmt.Errorf("refusing to overwrite non-symlink: %s", dst)
		}
		if target, err := os.Readlink(dst); err == nil {
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(dst), target)
			}
			if filepath.Clean(target) == src {
				return nil
			}
		}
		return fmt.Errorf("symlink %s points somewhere else; remove it to continue", dst)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.Symlink(src, dst); err != nil {
		if errors.Is(err, os.ErrExist) {
			if target, err := os.Readlink(dst); err == nil {
				if !filepath.IsAbs(target) {
					target = filepath.Join(filepath.Dir(dst), target)
				}
				if filepath.Clean(target) == src {
					return nil
				}
			}
		}
		return err
	}
	return nil
}

var fixtureFiles = []struct {
	path     string
	contents string
	modified string
}{
	{"topcat.toml", "input_dirs = [\"sql\"]\noutput = \"build/schema.sql\"\n", fixtureNow},
	{"sql/schema.sql", "-- name: schema\n-- layer: prepend\ncreate schema app;\n", "2000-01-01T00:00:00Z"},
	{"sql/users.sql", "-- name: users\ncreate table users (id int);\n", "2000-01-01T12:00:00Z"},
	{"sql/orders.sql", "-- name: orders\n-- requires: users\ncreate table orders (id int, user_id int);\n", "2000-01-01T23:30:00Z"},
}

func seedProject(root string) error {
	for _, f := range fixtureFiles {
		path := filepath.Join(root, filepath.FromSlash(f.path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(f.contents), 0o644); err != nil {
			return err
		}
		mtime, err := time.Parse(time.RFC3339, f.modified)
		if err != nil {
			return err
		}
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			return err
		}
	}
	return nil
}

func (t *tool) installStub(dst string) error {
	stub, err := os.ReadFile(t.stubBinary)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, stub, 0o755)
}

func deterministicEnv(base []string) []string {
	env := envMap(base)
	env["TOPCAT_NOW"] = fixtureNow
	env["NO_COLOR"] = "1"
	env["CLICOLOR"] = "0"
	env["CLICOLOR_FORCE"] = "0"
	delete(env, "VIRTUAL_ENV")
	delete(env, "TOPCAT_LOG")
	delete(env, "TOPCAT_STUB_EXIT")
	return envSlice(env)
}

func removeAllUnder(root, target string) error {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return err
	}
	if rel == "." {
		return fmt.Errorf("refusing to remove root: %s", root)
	}
	if strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return fmt.Errorf("refusing to remove outside root: %s", target)
	}
	return os.RemoveAll(target)
}

func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return 127
}

func withTimeoutFromEnv(ctx context.Context, key string, def time.Duration) (context.Context, context.CancelFunc, time.Duration) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		raw = def.String()
	}
	if raw == "0" || raw == "0s" {
		return ctx, nil, 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		d = def
	}
	next, cancel := context.WithTimeout(ctx, d)
	return next, cancel, d
}

func envMap(env []string) map[string]string {
	out := make(map[string]string, len(env))
	for _, entry := range env {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		out[key] = value
	}
	return out
}

func envSlice(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	return out
}

func withEnv(env []string, key, value string) []string {
	m := envMap(env)
	m[key] = value
	return envSlice(m)
}

func getEnv(env []string, key string) string {
	m := envMap(env)
	return m[key]
}

func tmpprojDirName() string {
	raw := strings.TrimSpace(os.Getenv("TOPCAT_CMDTEST_ID"))
	if raw != "" {
		safe := make([]rune, 0, len(raw))
		for _, r := range raw {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
				safe = append(safe, r)
				continue
			}
			safe = append(safe, '_')
		}
		id := strings.Trim(strings.TrimSpace(string(safe)), "._-")
		if id != "" {
			return "tmpproj-" + id
		}
	}

	// Fallback: generate a unique, non-guessable ID to avoid collisions in `/tmp`.
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("tmpproj-%d", os.Getpid())
	}
	return "tmpproj-" + hex.EncodeToString(b[:])
}
