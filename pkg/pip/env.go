package pip

import "os"

// Function vars for test injection.
var (
	getenvFunc  = os.Getenv
	geteuidFunc = os.Geteuid
)

// InVirtualenv reports whether a Python virtual environment is active.
//
// Activation scripts for venv, virtualenv, and conda all export an
// environment variable pointing at the environment root.
//
// Returns:
//   - bool: True when a virtual environment is active
func InVirtualenv() bool {
	return getenvFunc("VIRTUAL_ENV") != "" || getenvFunc("CONDA_PREFIX") != ""
}

// ElevatedPrivileges reports whether the process runs as root.
//
// Installing packages as root into a system interpreter is exactly the
// situation covert exists to avoid, so the CLI refuses to proceed when
// this returns true.
//
// Returns:
//   - bool: True when the effective UID is 0; always false on Windows
func ElevatedPrivileges() bool {
	return geteuidFunc() == 0
}
