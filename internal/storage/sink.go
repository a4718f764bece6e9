package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Sink пишет загрузку во временный файл; под своим именем файл появляется только после Commit.
type Sink struct {
	fs      afero.Fs
	file    afero.File
	tmpPath string
	dst     string
	written int64
	done    bool
}

// Create открывает sink для файла name. Имя должно пройти ValidateName.
func (d *Dir) Create(name string) (*Sink, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	tmp := filepath.Join(d.root, tempPrefix+uuid.NewString()+tempSuffix)
	f, err := d.fs.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}

	return &Sink{
		fs:      d.fs,
		file:    f,
		tmpPath: tmp,
		dst:     d.Path(name),
	}, nil
}

func (s *Sink) Write(p []byte) (int, error) {
	n, err := s.file.Write(p)
	s.written += int64(n)
	return n, err
}

// Written возвращает число записанных байт.
func (s *Sink) Written() int64 { return s.written }

// Path возвращает итоговый путь файла.
func (s *Sink) Path() string { return s.dst }

// Commit сбрасывает данные на диск и атомарно заменяет файл назначения.
func (s *Sink) Commit() error {
	if s.done {
		return errors.New("sink already finished")
	}
	s.done = true

	if err := s.file.Sync(); err != nil {
		_ = s.file.Close()
		_ = s.fs.Remove(s.tmpPath)
		return fmt.Errorf("sync: %w", err)
	}
	if err := s.file.Close(); err != nil {
		_ = s.fs.Remove(s.tmpPath)
		return fmt.Errorf("close: %w", err)
	}
	if err := s.fs.Rename(s.tmpPath, s.dst); err != nil {
		_ = s.fs.Remove(s.tmpPath)
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

// Abort закрывает и удаляет временный файл. Повторный вызов ничего не делает.
func (s *Sink) Abort() error {
	if s.done {
		return nil
	}
	s.done = true

	closeErr := s.file.Close()
	if err := s.fs.Remove(s.tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return closeErr
}
