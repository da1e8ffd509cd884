package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"recipe-normalizer/internal/pkg/common"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// FileStore 食譜集合檔案存取
type FileStore struct {
	fs afero.Fs
}

// NewFileStore 使用作業系統檔案系統
func NewFileStore() *FileStore {
	return NewFileStoreWithFs(afero.NewOsFs())
}

// NewFileStoreWithFs 使用指定的檔案系統（測試用記憶體檔案系統）
func NewFileStoreWithFs(fsys afero.Fs) *FileStore {
	return &FileStore{fs: fsys}
}

// Read 讀取整個集合檔案
func (s *FileStore) Read(path string) ([]byte, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &common.NotFoundError{Path: path}
		}
		return nil, &common.IOError{Op: "stat", Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &common.IOError{Op: "read", Path: path, Err: errors.New("is a directory")}
	}
	if info.Size() == 0 {
		return nil, &common.EmptyInputError{Path: path}
	}

	f, err := s.fs.Open(path)
	if err != nil {
		return nil, &common.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &common.IOError{Op: "read", Path: path, Err: err}
	}
	if len(data) == 0 {
		return nil, &common.EmptyInputError{Path: path}
	}
	return data, nil
}

// Write 覆寫集合檔案。atomic 為 true 時先寫入同目錄的暫存檔再改名
func (s *FileStore) Write(path string, data []byte, atomic bool) error {
	if atomic {
		return s.writeAtomic(path, data)
	}

	f, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return &common.IOError{Op: "open", Path: path, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return &common.IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &common.IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}

func (s *FileStore) writeAtomic(path string, data []byte) error {
	mode := fs.FileMode(0644)
	if info, err := s.fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := afero.TempFile(s.fs, filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &common.IOError{Op: "open", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	cleanup := func() {
		if err := s.fs.Remove(tmpName); err != nil && !errors.Is(err, fs.ErrNotExist) {
			common.LogWarn("Failed to remove temp file", zap.String("path", tmpName), zap.Error(err))
		}
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return &common.IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return &common.IOError{Op: "sync", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &common.IOError{Op: "close", Path: path, Err: err}
	}
	if err := s.fs.Chmod(tmpName, mode); err != nil {
		cleanup()
		return &common.IOError{Op: "chmod", Path: path, Err: err}
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		cleanup()
		return &common.IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
