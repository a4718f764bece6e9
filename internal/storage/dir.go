// Package storage управляет плоским каталогом загруженных файлов поверх afero.Fs:
// запись через временные файлы, листинг, учёт объёма и сборку мусора.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/yourname/gdrive_lite/internal/models"
)

const (
	tempPrefix = ".upload-"
	tempSuffix = ".part"
)

// Dir: каталог хранения. Подкаталогов и переименования при коллизиях нет.
type Dir struct {
	fs   afero.Fs
	root string
}

// New открывает каталог root, создавая его при отсутствии.
func New(fs afero.Fs, root string) (*Dir, error) {
	if _, err := fs.Stat(root); err != nil {
		if err := fs.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	return &Dir{fs: fs, root: root}, nil
}

// Root возвращает путь каталога.
func (d *Dir) Root() string { return d.root }

// Fs возвращает файловую систему каталога.
func (d *Dir) Fs() afero.Fs { return d.fs }

// Path строит путь назначения для файла с именем name.
func (d *Dir) Path(name string) string {
	return filepath.Join(d.root, name)
}

// Open открывает сохранённый файл на чтение.
func (d *Dir) Open(name string) (afero.File, error) {
	return d.fs.Open(d.Path(name))
}

// ValidateName отклоняет имена, которые могут выйти за пределы каталога.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", models.ErrUnsafeFilename, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q", models.ErrUnsafeFilename, name)
	case isTemp(name):
		return fmt.Errorf("%w: %q is reserved", models.ErrUnsafeFilename, name)
	}
	return nil
}

// List возвращает обычные файлы каталога, пропуская симлинки, подкаталоги и
// незавершённые загрузки.
func (d *Dir) List() ([]os.FileInfo, error) {
	return ListDir(d.fs, d.root)
}

// ListDir: то же, что List, для произвольного каталога на fs.
func ListDir(fs afero.Fs, dir string) ([]os.FileInfo, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}

	out := make([]os.FileInfo, 0, len(entries))
	for _, fi := range entries {
		if !fi.Mode().IsRegular() || isTemp(fi.Name()) {
			continue
		}
		out = append(out, fi)
	}

	return out, nil
}

// Usage суммирует размер и количество сохранённых файлов.
func (d *Dir) Usage() (total int64, files int, err error) {
	entries, err := d.List()
	if err != nil {
		return 0, 0, err
	}

	for _, fi := range entries {
		total += fi.Size()
	}

	return total, len(entries), nil
}

func isTemp(name string) bool {
	return strings.HasPrefix(name, tempPrefix) && strings.HasSuffix(name, tempSuffix)
}
