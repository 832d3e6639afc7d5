package fileurl

import (
	"os"
	"path/filepath"
)

// IsExist 判断所给路径是否存在
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	if err != nil {
		return os.IsExist(err)
	}
	return true
}

// CreatePath creates the parent directory of dst.
// CreatePath 创建路径
func CreatePath(dst string, perm os.FileMode) error {
	return os.MkdirAll(filepath.Dir(dst), perm)
}

// GetAbsPath resolves path against the working directory and fails when
// nothing exists there.
func GetAbsPath(path string) (string, error) {
	realPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if !IsExist(realPath) {
		return "", os.ErrNotExist
	}
	return realPath, nil
}
