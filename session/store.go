package session

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-memimg/common"
)

// FileName is the name of the session file inside the config directory.
const FileName = "session.toml"

// Store persists a Config as TOML.
type Store struct {
	Path string
}

// DefaultPath returns $XDG_CONFIG_HOME/memimg/session.toml, or the platform
// equivalent from os.UserConfigDir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locate config directory")
	}
	return filepath.Join(dir, "memimg", FileName), nil
}

// NewStore returns a store at path, or at DefaultPath when path is empty.
func NewStore(path string) (*Store, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	return &Store{Path: path}, nil
}

// Load reads the session. A missing file yields DefaultConfig; keys missing from
// the file keep their default values.
func (s *Store) Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, common.NewPathError(common.ErrIoFailure, "read", s.Path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), errors.Wrapf(err, "parse %s", s.Path)
	}
	return cfg, nil
}

// Save writes cfg, replacing the previous file atomically.
func (s *Store) Save(cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return common.NewPathError(common.ErrIoFailure, "mkdir", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+FileName+".*")
	if err != nil {
		return common.NewPathError(common.ErrIoFailure, "create", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return common.NewPathError(common.ErrIoFailure, "write", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return common.NewPathError(common.ErrIoFailure, "close", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return common.NewPathError(common.ErrIoFailure, "rename", s.Path, err)
	}
	return nil
}

// Update loads the session, applies fn and saves the result.
func (s *Store) Update(fn func(*Config) error) (Config, error) {
	cfg, err := s.Load()
	if err != nil {
		return cfg, err
	}
	if err := fn(&cfg); err != nil {
		return cfg, err
	}
	return cfg, s.Save(cfg)
}
