package filesystem

import (
	"io"
	"os"
)

// GacheFs lets gache-backed registries (room history, release cache) write through the
// swappable backend instead of the real disk.
type GacheFs struct{}

func (GacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return API().OpenFile(name, flag, perm)
}

func (GacheFs) MkdirAll(path string, perm os.FileMode) error {
	return API().MkdirAll(path, perm)
}
