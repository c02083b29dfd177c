package pkg

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unsafe"

	"go.uber.org/multierr"
)

// BytesToString converts bytes slice to a string without extra allocation
func BytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

func PathExists(path string, isDir bool) (bool, error) {
	stat, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if (isDir && stat.IsDir()) || (!isDir && !stat.IsDir()) {
		return true, nil
	}
	if isDir {
		return false, fmt.Errorf("%s is not a directory", path)
	}
	return false, fmt.Errorf("%s is a directory", path)
}

// Compress writes the given files as a gzipped tar to buf, each stored under its base name.
// Files that do not exist are skipped. Returns the number of files archived.
func Compress(buf io.Writer, files ...string) (archived int, err error) {
	// tar > gzip > buf
	gzipWriter := gzip.NewWriter(buf)
	tarWriter := tar.NewWriter(gzipWriter)
	defer func() {
		err = multierr.Combine(err, tarWriter.Close(), gzipWriter.Close())
	}()

	for _, file := range files {
		exists, err := PathExists(file, false)
		if err != nil {
			return archived, err
		}
		if !exists {
			continue
		}
		if err := addToTar(tarWriter, file); err != nil {
			return archived, fmt.Errorf("archive %s: %w", file, err)
		}
		archived++
	}

	return archived, nil
}

func addToTar(tarWriter *tar.Writer, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(fi, "")
	if err != nil {
		return err
	}
	header.Name = filepath.Base(file)

	if err := tarWriter.WriteHeader(header); err != nil {
		return err
	}
	_, err = io.Copy(tarWriter, f)
	return err
}
