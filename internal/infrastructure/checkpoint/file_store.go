// Package checkpoint persists the committed draft history as a gob
// snapshot file, replaced wholesale on every save.
package checkpoint

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/draftboard/draftboard/internal/domain/draft"
)

// snapshot is the on-disk representation of the committed sequence.
type snapshot struct {
	Committed []draft.Action
}

// FileStore implements draft.Checkpointer on a single local file.
type FileStore struct {
	path   string
	logger zerolog.Logger
}

// NewFileStore creates a store writing to path.
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.With().Str("component", "checkpoint").Logger(),
	}
}

// Ensure creates the checkpoint file with an empty snapshot when it is
// absent or empty. Called once at startup.
func (s *FileStore) Ensure() error {
	info, err := os.Stat(s.path)
	if err == nil && info.Size() > 0 {
		return nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat checkpoint file: %w", err)
	}
	if err := s.write(nil); err != nil {
		return fmt.Errorf("create checkpoint file: %w", err)
	}
	s.logger.Info().Str("path", s.path).Msg("checkpoint file created")
	return nil
}

// Save replaces the stored snapshot with committed.
func (s *FileStore) Save(_ context.Context, committed []draft.Action) error {
	if err := s.write(committed); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

// Load reads the stored committed sequence. An absent or empty file is an
// empty history. A corrupt file is logged, reset to empty and read as an
// empty history rather than surfaced as an error.
func (s *FileStore) Load(_ context.Context) ([]draft.Action, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open checkpoint file: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		s.logger.Error().Err(err).Str("path", s.path).Msg("checkpoint unreadable, resetting to empty history")
		if werr := s.write(nil); werr != nil {
			s.logger.Error().Err(werr).Msg("failed to rewrite checkpoint file")
		}
		return nil, nil
	}
	return snap.Committed, nil
}

func (s *FileStore) write(committed []draft.Action) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(snapshot{Committed: committed}); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
