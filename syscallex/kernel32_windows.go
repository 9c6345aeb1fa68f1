package syscallex

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// FSCTL codes for reparse point maintenance, cf. winioctl.h
const (
	FSCTL_SET_REPARSE_POINT    = 0x000900A4
	FSCTL_GET_REPARSE_POINT    = 0x000900A8
	FSCTL_DELETE_REPARSE_POINT = 0x000900AC
)

const (
	IO_REPARSE_TAG_MOUNT_POINT = 0xA0000003

	MAXIMUM_REPARSE_DATA_BUFFER_SIZE = 16 * 1024
)

// Reparse-specific win32 error codes. Of these, only
// ERROR_NOT_A_REPARSE_POINT is ever a benign outcome.
const (
	ERROR_NOT_A_REPARSE_POINT        syscall.Errno = 4390
	ERROR_REPARSE_ATTRIBUTE_CONFLICT syscall.Errno = 4391
	ERROR_INVALID_REPARSE_DATA       syscall.Errno = 4392
	ERROR_REPARSE_TAG_INVALID        syscall.Errno = 4393
	ERROR_REPARSE_TAG_MISMATCH       syscall.Errno = 4394
)

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procCreateFileW     = modkernel32.NewProc("CreateFileW")
	procDeviceIoControl = modkernel32.NewProc("DeviceIoControl")
)

// CreateFile opens an existing filesystem object for raw access.
// Unlike syscall.CreateFile, it also rejects opens where the call
// returned a valid-looking handle but left a nonzero error pending:
// drivers have been seen doing that, and ignoring it means operating
// on a handle in an unknown state.
func CreateFile(
	name *uint16,
	access uint32,
	shareMode uint32,
	sa *syscall.SecurityAttributes,
	createMode uint32,
	attrs uint32,
	templateFile syscall.Handle,
) (handle syscall.Handle, err error) {
	r1, _, e1 := syscall.Syscall9(
		procCreateFileW.Addr(),
		7,
		uintptr(unsafe.Pointer(name)),
		uintptr(access),
		uintptr(shareMode),
		uintptr(unsafe.Pointer(sa)),
		uintptr(createMode),
		uintptr(attrs),
		uintptr(templateFile),
		0, 0,
	)
	handle = syscall.Handle(r1)
	if handle == syscall.InvalidHandle {
		if e1 != 0 {
			err = e1
		} else {
			err = syscall.EINVAL
		}
		return
	}
	if e1 != 0 {
		syscall.CloseHandle(handle)
		handle = syscall.InvalidHandle
		err = e1
	}
	return
}

// DeviceIoControl issues a device control request against an open
// handle. On failure the returned error is the raw syscall.Errno,
// so callers can tell the reparse error codes apart.
func DeviceIoControl(
	handle syscall.Handle,
	ioControlCode uint32,
	inBuffer *byte,
	inBufferSize uint32,
	outBuffer *byte,
	outBufferSize uint32,
	bytesReturned *uint32,
	overlapped *syscall.Overlapped,
) (err error) {
	r1, _, e1 := syscall.Syscall9(
		procDeviceIoControl.Addr(),
		8,
		uintptr(handle),
		uintptr(ioControlCode),
		uintptr(unsafe.Pointer(inBuffer)),
		uintptr(inBufferSize),
		uintptr(unsafe.Pointer(outBuffer)),
		uintptr(outBufferSize),
		uintptr(unsafe.Pointer(bytesReturned)),
		uintptr(unsafe.Pointer(overlapped)),
		0,
	)
	if r1 == 0 {
		if e1 != 0 {
			err = e1
		} else {
			err = syscall.EINVAL
		}
	}
	return
}
