package driver

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"

	"github.com/ssargent/ixtree/pkg/btree"
)

// FileConfig configures a File block store, mirroring the shape of the
// log writer's configuration: a path, and whether every Apply and
// WriteAt should fsync immediately or defer to an explicit Sync call.
type FileConfig struct {
	Path       string
	SyncWrites bool
}

// File is a BlockStore backed by a single on-disk file, grown by
// Allocate and mutated in place by Apply. An advisory exclusive flock
// is held for the lifetime of the store so a second process opening
// the same file fails fast instead of corrupting it silently.
type File struct {
	mutex sync.Mutex
	file  *os.File
	size  int64
	sync  bool
}

// OpenFile opens (creating if necessary) the file at config.Path and
// takes an exclusive advisory lock on it.
func OpenFile(config FileConfig) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(config.Path), 0o750); err != nil {
		return nil, errors.Wrapf(err, "driver: create directory for %s", config.Path)
	}

	f, err := os.OpenFile(config.Path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, errors.Wrapf(err, "driver: open %s", config.Path)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		if closeErr := f.Close(); closeErr != nil {
			return nil, errors.Wrapf(err, "driver: lock %s (and close failed: %v)", config.Path, closeErr)
		}
		return nil, errors.Wrapf(err, "driver: lock %s (already held by another process)", config.Path)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "driver: stat %s", config.Path)
	}

	return &File{file: f, size: stat.Size(), sync: config.SyncWrites}, nil
}

func (f *File) ReadAt(_ context.Context, offset int64, length int) ([]byte, error) {
	buf := make([]byte, length)
	if _, err := f.file.ReadAt(buf, offset); err != nil {
		return nil, errors.Wrapf(err, "driver: read %d bytes at offset %d", length, offset)
	}
	return buf, nil
}

func (f *File) Allocate(_ context.Context, length int) (int64, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	offset := f.size
	f.size += int64(length)
	return offset, nil
}

func (f *File) Apply(_ context.Context, writes []btree.WriteOp) error {
	for _, w := range writes {
		if _, err := f.file.WriteAt(w.Data, w.Offset); err != nil {
			return errors.Wrapf(err, "driver: write %d bytes at offset %d", len(w.Data), w.Offset)
		}
	}
	if f.sync {
		return f.Sync()
	}
	return nil
}

// WriteAt writes data at a fixed offset, for pkg/header's superblock
// persistence outside of the Allocate/Apply protocol.
func (f *File) WriteAt(_ context.Context, offset int64, data []byte) error {
	f.mutex.Lock()
	if end := offset + int64(len(data)); end > f.size {
		f.size = end
	}
	f.mutex.Unlock()

	if _, err := f.file.WriteAt(data, offset); err != nil {
		return errors.Wrapf(err, "driver: write %d bytes at fixed offset %d", len(data), offset)
	}
	if f.sync {
		return f.Sync()
	}
	return nil
}

// Sync forces a durable fsync of every write applied so far.
func (f *File) Sync() error {
	return f.file.Sync()
}

// Close releases the advisory lock and closes the underlying file.
func (f *File) Close() error {
	if err := unix.Flock(int(f.file.Fd()), unix.LOCK_UN); err != nil {
		return errors.Wrapf(err, "driver: unlock %s", f.file.Name())
	}
	return f.file.Close()
}

// Size reports the current allocated extent of the file.
func (f *File) Size() int64 {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.size
}
