package renamer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// FilesystemError wraps a failed rename, move or mkdir. It is per-file;
// batch-level fate is decided by the orchestrating caller.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// Renamer mutates the filesystem for a single file. It tracks the file's
// current location across a rename followed by a move; a move failing
// after a successful rename leaves the rename in effect.
type Renamer struct {
	path string
}

// New returns a Renamer bound to the file's current path.
func New(path string) *Renamer {
	return &Renamer{path: path}
}

// Path returns the file's current location.
func (r *Renamer) Path() string {
	return r.path
}

// Rename renames the file in place within its directory. The target
// existing is an error unless force is set. leaveSymlink leaves a symlink
// at the old path pointing at the new one.
func (r *Renamer) Rename(newName string, force, leaveSymlink bool) error {
	dir := filepath.Dir(r.path)
	target := filepath.Join(dir, newName)
	if target == r.path {
		return nil
	}

	if _, err := os.Lstat(target); err == nil && !force {
		return &FilesystemError{Op: "rename", Path: target, Err: os.ErrExist}
	}

	oldPath := r.path
	if err := os.Rename(r.path, target); err != nil {
		return &FilesystemError{Op: "rename", Path: r.path, Err: err}
	}
	r.path = target

	if leaveSymlink {
		if err := os.Symlink(target, oldPath); err != nil {
			return &FilesystemError{Op: "symlink", Path: oldPath, Err: err}
		}
	}
	return nil
}

// Move relocates the file into destDir, creating missing directories. The
// target existing is an error unless force is set. Falls back to
// copy-and-remove when the destination is on another filesystem.
func (r *Renamer) Move(destDir string, force, leaveSymlink bool) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return &FilesystemError{Op: "mkdir", Path: destDir, Err: err}
	}

	target := filepath.Join(destDir, filepath.Base(r.path))
	if target == r.path {
		return nil
	}

	if _, err := os.Lstat(target); err == nil && !force {
		return &FilesystemError{Op: "move", Path: target, Err: os.ErrExist}
	}

	oldPath := r.path
	if err := os.Rename(r.path, target); err != nil {
		if !isCrossDevice(err) {
			return &FilesystemError{Op: "move", Path: target, Err: err}
		}
		if err := copyAndRemove(r.path, target); err != nil {
			return &FilesystemError{Op: "move", Path: target, Err: err}
		}
	}
	r.path = target

	if leaveSymlink {
		if err := os.Symlink(target, oldPath); err != nil {
			return &FilesystemError{Op: "symlink", Path: oldPath, Err: err}
		}
	}
	return nil
}

func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

// copyAndRemove copies src to dst then removes src. Used when a plain
// rename fails with EXDEV.
func copyAndRemove(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}

	return os.Remove(src)
}
