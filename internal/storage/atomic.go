package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// AtomicWriteFile replaces path with data. renameio writes a temporary file
// in the same directory, fsyncs it and renames it over path, so readers such
// as the note editor see either the old or the new content. perm is applied
// to the new file as given, without the umask. The parent directory is
// fsynced afterwards so the rename itself survives a crash.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	pending, err := renameio.NewPendingFile(path, renameio.WithStaticPermissions(perm))
	if err != nil {
		return fmt.Errorf("atomic write create temp for %s: %w", path, err)
	}
	defer pending.Cleanup()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("atomic write data: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomic write replace %s: %w", path, err)
	}
	if err := fsyncDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("atomic write fsync parent dir: %w", err)
	}
	return nil
}

// WriteFilePreservingMode writes data over an existing file, keeping its
// permission bits.
func WriteFilePreservingMode(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return AtomicWriteFile(path, data, info.Mode().Perm())
}

func fsyncDir(path string) error {
	d, err := os.Open(path)
	if err != nil {
		return err
	}
	if err := d.Sync(); err != nil {
		d.Close()
		return err
	}
	return d.Close()
}
