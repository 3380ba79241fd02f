package dev

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileWatcher watches files for changes based on patterns.
//
// Patterns and plain exclude entries match the file's base name. An exclude
// entry ending in "/" names a directory: anything below a directory with
// that name, relative to a watched root, is ignored.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	patterns []string
	exclude  []string
	roots    []string
	ignored  map[string]bool
	onChange func(path string, op fsnotify.Op)
	logger   zerolog.Logger
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(patterns []string, exclude []string, onChange func(path string, op fsnotify.Op), logger zerolog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		patterns: patterns,
		exclude:  exclude,
		onChange: onChange,
		logger:   logger,
	}, nil
}

// Ignore drops events for one exact file, whatever the patterns say
func (fw *FileWatcher) Ignore(path string) {
	if fw.ignored == nil {
		fw.ignored = make(map[string]bool)
	}
	fw.ignored[filepath.Clean(path)] = true
}

// AddDirectory recursively adds a directory to the watcher
func (fw *FileWatcher) AddDirectory(dir string) error {
	fw.roots = append(fw.roots, filepath.Clean(dir))
	return fw.addTree(dir)
}

func (fw *FileWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Only watch directories
		if !d.IsDir() {
			return nil
		}
		if fw.excludedDir(path) {
			return filepath.SkipDir
		}

		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
		return nil
	})
}

// Start begins watching for file changes
func (fw *FileWatcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}

			if fw.shouldWatch(event.Name) {
				fw.onChange(event.Name, event.Op)
			}

			// If a new directory is created, add it to the watcher
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.addTree(event.Name); err != nil {
						fw.logger.Warn().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
					}
				}
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if err != nil {
				// Log error but continue watching
				fw.logger.Error().Err(err).Msg("watcher error")
			}
		}
	}
}

// shouldWatch checks if a file should trigger a change event based on patterns
func (fw *FileWatcher) shouldWatch(path string) bool {
	if fw.ignored[filepath.Clean(path)] {
		return false
	}

	base := filepath.Base(path)

	// Check excludes first
	if fw.excludedDir(filepath.Dir(path)) {
		return false
	}
	for _, pattern := range fw.exclude {
		if strings.HasSuffix(pattern, "/") {
			continue
		}
		if matched, _ := filepath.Match(pattern, base); matched {
			return false
		}
	}

	for _, pattern := range fw.patterns {
		// "**/" only means "at any depth", which base name matching already does
		pattern = strings.TrimPrefix(pattern, "**/")
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

// excludedDir reports whether dir, or any directory between it and its
// watched root, is excluded
func (fw *FileWatcher) excludedDir(dir string) bool {
	for _, segment := range fw.segments(dir) {
		for _, pattern := range fw.exclude {
			name, isDir := strings.CutSuffix(pattern, "/")
			if !isDir {
				continue
			}
			if matched, _ := filepath.Match(name, segment); matched {
				return true
			}
		}
	}
	return false
}

// segments splits dir into path elements relative to the root containing it
func (fw *FileWatcher) segments(dir string) []string {
	dir = filepath.Clean(dir)
	for _, root := range fw.roots {
		rel, err := filepath.Rel(root, dir)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if rel == "." {
			return nil
		}
		return strings.Split(rel, string(filepath.Separator))
	}
	return []string{filepath.Base(dir)}
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
