//go:build windows

package junction

import (
	"os"
	"path/filepath"
	"syscall"

	"github.com/itchio/detour/syscallex"
	"github.com/pkg/errors"
)

// openReparseHandle opens a directory for raw reparse point access.
// FILE_FLAG_OPEN_REPARSE_POINT is what keeps the OS from transparently
// following the junction — without it every other call in this file
// would operate on the target instead. The share mode leaves other
// processes free to read, write or delete while we hold the handle.
func openReparseHandle(path string, access uint32) (syscall.Handle, error) {
	name, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return syscall.InvalidHandle, err
	}

	return syscallex.CreateFile(
		name,
		access,
		syscall.FILE_SHARE_READ|syscall.FILE_SHARE_WRITE|syscall.FILE_SHARE_DELETE,
		nil,
		syscall.OPEN_EXISTING,
		syscall.FILE_FLAG_BACKUP_SEMANTICS|syscall.FILE_FLAG_OPEN_REPARSE_POINT,
		0,
	)
}

func setReparseData(handle syscall.Handle, buf []byte) error {
	var bytesReturned uint32
	// buf is sized by encodeMountPoint as substitute name length plus
	// 20 bytes of headers and terminators, which is exactly the input
	// size FSCTL_SET_REPARSE_POINT wants
	return syscallex.DeviceIoControl(
		handle,
		syscallex.FSCTL_SET_REPARSE_POINT,
		&buf[0],
		uint32(len(buf)),
		nil,
		0,
		&bytesReturned,
		nil,
	)
}

// getReparseData reads the raw reparse buffer off an open handle.
// ok is false when the object simply has no reparse data — that's a
// query answer, not a failure. Anything else nonzero escalates.
func getReparseData(handle syscall.Handle) (buf []byte, ok bool, err error) {
	buf = make([]byte, syscallex.MAXIMUM_REPARSE_DATA_BUFFER_SIZE)
	var bytesReturned uint32
	err = syscallex.DeviceIoControl(
		handle,
		syscallex.FSCTL_GET_REPARSE_POINT,
		nil,
		0,
		&buf[0],
		uint32(len(buf)),
		&bytesReturned,
		nil,
	)
	if err == syscallex.ERROR_NOT_A_REPARSE_POINT {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return buf[:bytesReturned], true, nil
}

func deleteReparseData(handle syscall.Handle) error {
	marker := deleteMarker()
	var bytesReturned uint32
	return syscallex.DeviceIoControl(
		handle,
		syscallex.FSCTL_DELETE_REPARSE_POINT,
		&marker[0],
		uint32(len(marker)),
		nil,
		0,
		&bytesReturned,
		nil,
	)
}

// Create makes junctionPath redirect to targetPath. targetPath must be
// an existing directory; it is resolved to an absolute path before
// encoding. If junctionPath is already a directory, overwrite decides
// whether its reparse data gets (re)written or the call fails.
//
// A junction is a plain directory whose attribute layer is converted:
// the directory object itself is created at most once here and never
// recreated, only its metadata changes. Setting reparse data over an
// existing mount point replaces it in place, so overwriting needs no
// delete-then-set dance.
func Create(junctionPath string, targetPath string, overwrite bool) error {
	target, err := filepath.Abs(targetPath)
	if err != nil {
		return errors.WithStack(err)
	}

	targetInfo, err := os.Stat(target)
	if err != nil || !targetInfo.IsDir() {
		return errors.WithStack(ErrInvalidTarget)
	}

	info, err := os.Lstat(junctionPath)
	switch {
	case err == nil:
		if (info.IsDir() || info.Mode()&os.ModeSymlink != 0) && !overwrite {
			return errors.WithStack(ErrAlreadyExists)
		}
	case os.IsNotExist(err):
		if mkErr := os.Mkdir(junctionPath, 0o755); mkErr != nil {
			return osError("Unable to create junction point", mkErr)
		}
	default:
		return errors.WithStack(err)
	}

	buf, err := encodeMountPoint(target)
	if err != nil {
		return err
	}

	handle, err := openReparseHandle(junctionPath, syscall.GENERIC_WRITE)
	if err != nil {
		return osError("Unable to create junction point", err)
	}
	defer syscall.CloseHandle(handle)

	err = setReparseData(handle, buf)
	if err != nil {
		return osError("Unable to create junction point", err)
	}
	return nil
}

// Delete removes the junction at junctionPath along with its (by then
// plain) directory. Deleting something that's already gone is a no-op.
// Deleting a plain file fails with ErrNotAJunction.
func Delete(junctionPath string) error {
	info, err := os.Lstat(junctionPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.WithStack(err)
	}
	if !info.IsDir() && info.Mode()&os.ModeSymlink == 0 {
		return errors.WithStack(ErrNotAJunction)
	}

	err = func() error {
		handle, err := openReparseHandle(junctionPath, syscall.GENERIC_WRITE)
		if err != nil {
			return osError("Unable to delete junction point", err)
		}
		defer syscall.CloseHandle(handle)

		return deleteReparseData(handle)
	}()
	if err != nil {
		if _, isOs := AsOsError(err); isOs {
			return err
		}
		return osError("Unable to delete junction point", err)
	}

	err = os.Remove(junctionPath)
	if err != nil {
		// the reparse data is gone but the directory isn't: that's an
		// inconsistent state the caller has to know about, don't absorb it
		return osError("junction reparse data removed, but directory removal failed", err)
	}
	return nil
}

// Exists reports whether path is currently a junction point. Plain
// files, plain directories, missing paths, and reparse points of any
// other kind all answer false. Only fatal OS failures error out.
func Exists(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.WithStack(err)
	}
	if !info.IsDir() && info.Mode()&os.ModeSymlink == 0 {
		return false, nil
	}

	handle, err := openReparseHandle(path, syscall.GENERIC_READ)
	if err != nil {
		return false, osError("Unable to inspect junction point", err)
	}
	defer syscall.CloseHandle(handle)

	buf, ok, err := getReparseData(handle)
	if err != nil {
		return false, osError("Unable to inspect junction point", err)
	}
	if !ok {
		return false, nil
	}

	_, isMountPoint, err := decodeMountPoint(buf)
	if err != nil {
		// somebody else's malformed reparse data, not one of ours
		return false, nil
	}
	return isMountPoint, nil
}

// GetTarget returns the directory a junction redirects to, with the
// non-interpreted prefix already stripped.
func GetTarget(path string) (string, error) {
	handle, err := openReparseHandle(path, syscall.GENERIC_READ)
	if err != nil {
		return "", osError("Unable to read junction point", err)
	}
	defer syscall.CloseHandle(handle)

	buf, ok, err := getReparseData(handle)
	if err != nil {
		return "", osError("Unable to read junction point", err)
	}
	if !ok {
		return "", errors.WithStack(ErrNotAJunction)
	}

	target, isMountPoint, err := decodeMountPoint(buf)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if !isMountPoint {
		return "", errors.WithStack(ErrNotAJunction)
	}
	return target, nil
}
