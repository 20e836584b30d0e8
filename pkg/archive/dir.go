package archive

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// ReadDir collects the metadata entries of a repository checked out at root.
// root may be the working tree or the .git directory itself.
func ReadDir(ctx context.Context, root string, limits Limits) (Entries, error) {
	gitDir := filepath.Join(root, ".git")
	if filepath.Base(filepath.Clean(root)) == ".git" {
		gitDir = root
	}
	info, err := os.Stat(gitDir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("read dir %s: %s is not a directory", root, gitDir)
	}

	entries := make(Entries)
	var total int64
	err = filepath.WalkDir(gitDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		total += fi.Size()
		if limits.MaxArchiveBytes > 0 && total > limits.MaxArchiveBytes {
			return fmt.Errorf("more than %d bytes: %w", limits.MaxArchiveBytes, ErrTooLarge)
		}

		rel, err := filepath.Rel(gitDir, p)
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		return entries.add(path.Join(".git", filepath.ToSlash(rel)), f, limits)
	})
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", root, err)
	}
	return entries, nil
}
