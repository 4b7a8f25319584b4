package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// posixVolume serves a volume through its local mount point. Byte-range
// locks and xattrs pass straight through to the network filesystem, which
// arbitrates them cluster-wide.
type posixVolume struct {
	root string
}

// OpenVolume opens the volume mounted at root.
func OpenVolume(root string) (Volume, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat volume root %s: %w: %w", root, ErrStorage, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("volume root %s is not a directory: %w", root, ErrStorage)
	}
	return &posixVolume{root: root}, nil
}

func (v *posixVolume) Open(path string) (File, error) {
	full := filepath.Join(v.root, path)
	f, err := os.OpenFile(full, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w: %w", full, ErrStorage, err)
	}
	return &posixFile{f: f}, nil
}

func (v *posixVolume) Identity(path string) (Identity, error) {
	full := filepath.Join(v.root, path)
	var st unix.Stat_t
	if err := unix.Stat(full, &st); err != nil {
		return Identity{}, fmt.Errorf("resolve %s: %w: %w", full, ErrStorage, err)
	}
	return Identity{Device: uint64(st.Dev), Inode: st.Ino}, nil
}

func (v *posixVolume) Close() error { return nil }

type posixFile struct {
	f *os.File
}

// LockExclusive takes an OFD record lock on byte 0. OFD locks conflict
// between open file descriptions rather than processes, so a second handle
// on this host contends the same way a remote holder does, and the lock is
// not dropped when an unrelated descriptor on the same file closes.
func (p *posixFile) LockExclusive() error {
	lk := unix.Flock_t{
		Type:   unix.F_WRLCK,
		Whence: io.SeekStart,
		Start:  0,
		Len:    1,
	}
	err := unix.FcntlFlock(p.f.Fd(), unix.F_OFD_SETLK, &lk)
	if err == nil {
		return nil
	}
	if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EACCES) {
		return fmt.Errorf("lock %s: %w", p.f.Name(), ErrContention)
	}
	return fmt.Errorf("lock %s: %w: %w", p.f.Name(), ErrStorage, err)
}

func (p *posixFile) Stat() error {
	var st unix.Stat_t
	if err := unix.Fstat(int(p.f.Fd()), &st); err != nil {
		return fmt.Errorf("fstat lock handle: %w", err)
	}
	return nil
}

func (p *posixFile) SetXattr(name string, value []byte) error {
	if err := unix.Fsetxattr(int(p.f.Fd()), name, value, 0); err != nil {
		return fmt.Errorf("set xattr %s: %w", name, err)
	}
	return nil
}

func (p *posixFile) RemoveXattr(name string) error {
	if err := unix.Fremovexattr(int(p.f.Fd()), name); err != nil {
		return fmt.Errorf("remove xattr %s: %w", name, err)
	}
	return nil
}

func (p *posixFile) Close() error { return p.f.Close() }
