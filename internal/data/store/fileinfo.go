package store

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

const fingerprintWindow = 2048

// FileInfo identifies one version of the storage file
type FileInfo struct {
	ModTime     int64  // nanoseconds
	Size        int64  // bytes
	Inode       uint64 // changes when the file is replaced rather than rewritten
	Fingerprint string // CRC32 of the trailing bytes
}

// Same reports whether both infos describe the same file content
func (fi *FileInfo) Same(other *FileInfo) bool {
	if fi == nil || other == nil {
		return false
	}
	return *fi == *other
}

// GetFileInfo stats the file and fingerprints its tail
func GetFileInfo(path string) (*FileInfo, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return nil, &os.PathError{Op: "stat", Path: path, Err: err}
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	fingerprint, err := CalculateFileFingerprint(path)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint %s: %w", path, err)
	}

	return &FileInfo{
		ModTime:     stat.ModTime().UnixNano(),
		Size:        stat.Size(),
		Inode:       uint64(st.Ino),
		Fingerprint: fingerprint,
	}, nil
}

// CalculateFileFingerprint calculates the CRC32 of the last 2KB of a file
func CalculateFileFingerprint(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", err
	}

	readSize := min(stat.Size(), fingerprintWindow)
	if _, err := file.Seek(-readSize, io.SeekEnd); err != nil {
		return "", err
	}

	data := make([]byte, readSize)
	if _, err := io.ReadFull(file, data); err != nil {
		return "", err
	}

	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data)), nil
}
