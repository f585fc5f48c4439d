package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// rotateFiles shifts tvrename.log to tvrename.1.log, tvrename.1.log to
// tvrename.2.log and so on, dropping any backup at or past maxBackups.
// The caller reopens the live file afterwards.
func rotateFiles(basePath string, maxBackups int) error {
	dir := filepath.Dir(basePath)
	base := filepath.Base(basePath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	backupPath := func(n int) string {
		return filepath.Join(dir, fmt.Sprintf("%s.%d%s", stem, n, ext))
	}

	indexes, err := backupIndexes(dir, stem, ext)
	if err != nil {
		return err
	}

	// Highest first, so each shift lands on a free name.
	sort.Sort(sort.Reverse(sort.IntSlice(indexes)))
	for _, n := range indexes {
		if n >= maxBackups {
			os.Remove(backupPath(n))
			continue
		}
		if err := os.Rename(backupPath(n), backupPath(n+1)); err != nil {
			return fmt.Errorf("failed to shift log backup %d: %w", n, err)
		}
	}

	if _, err := os.Stat(basePath); err == nil {
		if err := os.Rename(basePath, backupPath(1)); err != nil {
			return fmt.Errorf("failed to rotate current log: %w", err)
		}
	}
	return nil
}

// backupIndexes lists the numeric suffixes of the rotated logs already
// present next to the live file.
func backupIndexes(dir, stem, ext string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	prefix := stem + "."
	var indexes []int
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, prefix), ext))
		if err != nil {
			continue
		}
		indexes = append(indexes, n)
	}
	return indexes, nil
}
