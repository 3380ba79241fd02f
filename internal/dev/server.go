// Package dev runs the generator in watch mode: every change to a watched
// input file triggers a debounced rebuild.
package dev

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/okra-platform/nativegen/internal/build"
	"github.com/okra-platform/nativegen/internal/config"
)

// Server represents the watch loop
type Server struct {
	config      *config.Config
	projectRoot string
	watcher     *FileWatcher
	logger      zerolog.Logger
	builder     build.Builder

	// Pending rebuild, reset by every change inside the debounce window
	timerMu sync.Mutex
	timer   *time.Timer

	// Mutex to prevent concurrent builds
	buildMutex sync.Mutex

	// OnBuild, if set, is called after every build attempt
	OnBuild func(*build.Artifacts, error)
}

// NewServer creates a new watch loop
func NewServer(cfg *config.Config, projectRoot string, builder build.Builder, logger zerolog.Logger) *Server {
	return &Server{
		config:      cfg,
		projectRoot: projectRoot,
		logger:      logger.With().Str("component", "watch").Logger(),
		builder:     builder,
	}
}

// Start runs an initial build, then rebuilds on every matching change until
// ctx is cancelled. A failed build is logged and the loop keeps watching.
func (s *Server) Start(ctx context.Context) error {
	s.Rebuild()

	watcher, err := NewFileWatcher(
		s.config.Watch.Patterns,
		s.config.Watch.Exclude,
		s.handleFileChange,
		s.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	s.watcher = watcher
	defer s.watcher.Close()
	defer s.cancelPending()

	// Writing the output must not trigger another build
	if output, err := s.builder.OutputPath(); err == nil {
		s.watcher.Ignore(output)
	} else {
		s.logger.Warn().Err(err).Msg("cannot resolve output path")
	}

	for _, dir := range s.directories() {
		if err := s.watcher.AddDirectory(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	s.logger.Info().
		Strs("patterns", s.config.Watch.Patterns).
		Dur("debounce", s.config.Watch.Debounce).
		Msg("watching for changes")

	return s.watcher.Start(ctx)
}

// directories returns the project root plus the schema's directory when the
// schema lives outside the project
func (s *Server) directories() []string {
	dirs := []string{s.projectRoot}

	schemaPath := s.config.Schema
	if !filepath.IsAbs(schemaPath) {
		schemaPath = filepath.Join(s.projectRoot, schemaPath)
	}
	schemaDir := filepath.Dir(schemaPath)

	rel, err := filepath.Rel(s.projectRoot, schemaDir)
	if err != nil || strings.HasPrefix(rel, "..") {
		dirs = append(dirs, schemaDir)
	}
	return dirs
}

// handleFileChange schedules a rebuild for a watched file
func (s *Server) handleFileChange(path string, op fsnotify.Op) {
	if op == fsnotify.Chmod {
		return
	}

	s.logger.Debug().Str("path", path).Str("op", op.String()).Msg("file changed")
	s.schedule()
}

// schedule starts, or restarts, the debounce timer
func (s *Server) schedule() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.config.Watch.Debounce, s.Rebuild)
}

func (s *Server) cancelPending() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Rebuild runs one build. Calls are serialized.
func (s *Server) Rebuild() {
	s.buildMutex.Lock()
	defer s.buildMutex.Unlock()

	artifacts, err := s.builder.Build()
	if err != nil {
		s.logger.Error().Err(err).Msg("build failed")
	} else {
		s.logger.Info().
			Str("output", artifacts.OutputPath).
			Str("digest", artifacts.BuildInfo.Digest).
			Msg("rebuilt model")
	}

	if s.OnBuild != nil {
		s.OnBuild(artifacts, err)
	}
}
