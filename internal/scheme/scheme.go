// Package scheme resolves installation scheme directories, the
// locations where console executables land for a given install layout.
package scheme

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Scheme names an installation layout whose scripts directory can hold
// console executables.
type Scheme string

const (
	// Default is the system or virtual environment wide layout,
	// consulted first.
	Default Scheme = "default"
	// PosixUser is the per-user layout on POSIX systems.
	PosixUser Scheme = "posix_user"
	// NTUser is the per-user layout on Windows.
	NTUser Scheme = "nt_user"
	// OSXFrameworkUser is the per-user layout of macOS framework
	// installs.
	OSXFrameworkUser Scheme = "osx_framework_user"
)

// Provider supplies the scripts directory for a scheme and the user
// scheme preferred on this host. Fabricated implementations let tests
// lay out arbitrary installations.
type Provider interface {
	ScriptsDir(s Scheme) (string, error)
	PreferredUserScheme() Scheme
	ExecSuffix() string
}

// HostProvider reads the live system: the active virtual environment,
// the process's own location, and the user's home directory.
type HostProvider struct{}

func (HostProvider) ScriptsDir(s Scheme) (string, error) {
	switch s {
	case Default:
		return defaultScriptsDir()
	case PosixUser:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "bin"), nil
	case NTUser:
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA is not set")
		}
		return filepath.Join(appData, "Python", "Scripts"), nil
	case OSXFrameworkUser:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Python", "bin"), nil
	default:
		return "", fmt.Errorf("unknown scheme %q", s)
	}
}

// defaultScriptsDir is the active virtual environment's scripts
// directory when one is active, otherwise the directory holding this
// executable, symlinks resolved.
func defaultScriptsDir() (string, error) {
	if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
		return filepath.Join(venv, venvBinDir()), nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", err
	}
	return filepath.Dir(resolved), nil
}

func venvBinDir() string {
	if runtime.GOOS == "windows" {
		return "Scripts"
	}
	return "bin"
}

func (HostProvider) PreferredUserScheme() Scheme {
	return preferredUserScheme(runtime.GOOS, frameworkInstall())
}

// preferredUserScheme picks the user scheme for a platform. The
// framework flag only matters on darwin.
func preferredUserScheme(goos string, framework bool) Scheme {
	switch {
	case goos == "windows":
		return NTUser
	case goos == "darwin" && framework:
		return OSXFrameworkUser
	default:
		return PosixUser
	}
}

// frameworkInstall reports whether the user-level framework directory
// exists.
func frameworkInstall() bool {
	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	fi, err := os.Stat(filepath.Join(home, "Library", "Python"))
	return err == nil && fi.IsDir()
}

func (HostProvider) ExecSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
