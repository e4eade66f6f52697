// Пакет assetstore — изображения профилей на диске.
//
// Файлы лежат в поддиректории корня статики (по умолчанию public/images)
// и адресуются location-путём относительно корня: "/images/<имя>".
// Загрузка сначала получает временное имя, затем файл копируется
// (Store) или переименовывается (Replace) в каноническое имя
// <владелец>_<исходное имя>.
package assetstore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Ошибки хранилища изображений.
var (
	// ErrMissingAsset — файл отсутствует или не читается.
	ErrMissingAsset = errors.New("изображение недоступно")
	// ErrInvalidLocation — путь выходит за пределы корня статики.
	ErrInvalidLocation = errors.New("недопустимый путь изображения")
	// ErrInvalidOwner — ключ владельца не может быть частью имени файла.
	ErrInvalidOwner = errors.New("недопустимый ключ владельца изображения")
)

// AssetStore — управление файлами изображений.
type AssetStore struct {
	// publicDir — корень статики
	publicDir string
	// subdir — поддиректория изображений относительно publicDir
	subdir string
}

// New создаёт AssetStore и директорию изображений, если её нет.
func New(publicDir, subdir string) (*AssetStore, error) {
	subdir = strings.Trim(path.Clean("/"+filepath.ToSlash(subdir)), "/")
	if subdir == "" {
		return nil, fmt.Errorf("директория изображений не задана")
	}

	s := &AssetStore{publicDir: publicDir, subdir: subdir}
	if err := os.MkdirAll(s.dir(), 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию изображений %s: %w", s.dir(), err)
	}
	return s, nil
}

// Dir возвращает абсолютный путь директории изображений.
func (s *AssetStore) Dir() string {
	return s.dir()
}

func (s *AssetStore) dir() string {
	return filepath.Join(s.publicDir, filepath.FromSlash(s.subdir))
}

// Location возвращает location-путь файла с именем name: "/images/<name>".
func (s *AssetStore) Location(name string) string {
	return "/" + s.subdir + "/" + name
}

// CanonicalName — каноническое имя изображения владельца.
// Ключ владельца не должен содержать разделителей пути.
func CanonicalName(ownerKey, originalFilename string) (string, error) {
	if ownerKey == "" || ownerKey == "." || ownerKey == ".." ||
		strings.ContainsAny(ownerKey, "/\\\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidOwner, ownerKey)
	}
	return ownerKey + "_" + baseName(originalFilename), nil
}

// canonicalPath возвращает каноническое имя и путь к нему,
// гарантируя, что путь лежит непосредственно в директории изображений.
func (s *AssetStore) canonicalPath(ownerKey, originalFilename string) (string, string, error) {
	canonical, err := CanonicalName(ownerKey, originalFilename)
	if err != nil {
		return "", "", err
	}
	dst := filepath.Join(s.dir(), canonical)
	if filepath.Dir(dst) != filepath.Clean(s.dir()) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidOwner, ownerKey)
	}
	return canonical, dst, nil
}

// SaveUpload записывает поток загружаемого файла под случайным
// временным именем. Паттерн: .tmp → fsync → rename.
// Возвращает временное имя (без директории).
func (s *AssetStore) SaveUpload(r io.Reader) (string, error) {
	name := strings.ReplaceAll(uuid.New().String(), "-", "")
	fullPath := filepath.Join(s.dir(), name)
	tmpPath := fullPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка записи данных: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	return name, nil
}

// Store копирует загруженный файл в каноническое имя рядом с ним.
// Временный файл остаётся на месте.
// Возвращает location канонической копии.
func (s *AssetStore) Store(tempName, ownerKey, originalFilename string) (string, error) {
	canonical, dst, err := s.canonicalPath(ownerKey, originalFilename)
	if err != nil {
		return "", err
	}
	src := filepath.Join(s.dir(), baseName(tempName))

	if err := copyFile(src, dst); err != nil {
		return "", err
	}
	return s.Location(canonical), nil
}

// Replace удаляет старое изображение (если оно есть) и переименовывает
// загруженный файл в каноническое имя. Отсутствие старого файла — не ошибка.
// Недопустимый ключ владельца отклоняется до удаления старого файла.
// Возвращает location нового изображения.
func (s *AssetStore) Replace(ownerKey, oldLocation, tempName, originalFilename string) (string, error) {
	canonical, dst, err := s.canonicalPath(ownerKey, originalFilename)
	if err != nil {
		return "", err
	}

	if err := s.Delete(oldLocation); err != nil {
		return "", err
	}

	src := filepath.Join(s.dir(), baseName(tempName))

	if err := os.Rename(src, dst); err != nil {
		return "", fmt.Errorf("ошибка переименования %s → %s: %w", src, dst, err)
	}
	return s.Location(canonical), nil
}

// Delete удаляет изображение по location. Пустой location и
// отсутствующий файл — не ошибка.
func (s *AssetStore) Delete(location string) error {
	if location == "" {
		return nil
	}
	fullPath, err := s.resolve(location)
	if err != nil {
		return err
	}

	info, err := os.Stat(fullPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("ошибка получения информации о файле %s: %w", location, err)
	}
	if info.IsDir() {
		return nil
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления файла %s: %w", location, err)
	}
	return nil
}

// Exists проверяет наличие файла по location.
func (s *AssetStore) Exists(location string) bool {
	fullPath, err := s.resolve(location)
	if err != nil {
		return false
	}
	info, err := os.Stat(fullPath)
	return err == nil && !info.IsDir()
}

// Encode читает изображение и возвращает его в base64.
// Отсутствующий или нечитаемый файл — ErrMissingAsset.
func (s *AssetStore) Encode(location string) (string, error) {
	fullPath, err := s.resolve(location)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMissingAsset, err)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrMissingAsset, location, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// resolve превращает location в путь на диске внутри publicDir.
func (s *AssetStore) resolve(location string) (string, error) {
	if location == "" {
		return "", fmt.Errorf("%w: пустой путь", ErrInvalidLocation)
	}
	clean := path.Clean("/" + filepath.ToSlash(location))
	if clean == "/" {
		return "", fmt.Errorf("%w: %q", ErrInvalidLocation, location)
	}
	return filepath.Join(s.publicDir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// baseName оставляет от имени файла только последний элемент пути.
func baseName(name string) string {
	name = path.Base(filepath.ToSlash(name))
	if name == "." || name == "/" || name == ".." {
		return "file"
	}
	return name
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("ошибка открытия файла %s: %w", src, err)
	}
	defer in.Close()

	tmpPath := dst + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка копирования %s: %w", src, err)
	}

	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка атомарного переименования: %w", err)
	}
	return nil
}
