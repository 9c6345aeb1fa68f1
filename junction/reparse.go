// Package junction creates, inspects and removes NTFS directory
// junction points: directories whose reparse metadata redirects them
// to another local directory. It talks to the filesystem directly via
// FSCTL device control requests, so it works without the privileges
// CreateSymbolicLink requires.
package junction

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"

	"github.com/pkg/errors"
)

// Layout of a mount point reparse data buffer, as NTFS persists it:
// a fixed header, then offsets/lengths into a trailing UTF-16 path
// buffer. Lengths are in bytes, not UTF-16 code units.
const (
	// reparse tag for directory mount points (junctions)
	reparseTagMountPoint = 0xA0000003

	// ReparseTag (4) + ReparseDataLength (2) + Reserved (2)
	reparseHeaderSize = 8
	// SubstituteNameOffset, SubstituteNameLength,
	// PrintNameOffset, PrintNameLength, 2 bytes each
	mountPointHeaderSize = 8

	// largest path buffer NTFS accepts for a mount point
	maxPathBufferSize = 16368
)

// nonInterpretedPrefix makes the object manager treat the rest of the
// path literally instead of parsing it.
const nonInterpretedPrefix = `\??\`

// encodeMountPoint serializes a mount point reparse data buffer for
// target, which must already be an absolute path. The returned slice
// is sized exactly as FSCTL_SET_REPARSE_POINT wants it.
func encodeMountPoint(target string) ([]byte, error) {
	substituteName := utf16.Encode([]rune(nonInterpretedPrefix + target))
	substituteLen := 2 * len(substituteName)

	// substitute name, its null terminator, and the (empty) print
	// name's null terminator all live in the path buffer
	if substituteLen+4 > maxPathBufferSize {
		return nil, errors.Errorf("junction target too long: %d bytes encoded, max is %d", substituteLen, maxPathBufferSize-4)
	}

	buf := make([]byte, reparseHeaderSize+mountPointHeaderSize+substituteLen+4)
	binary.LittleEndian.PutUint32(buf[0:4], reparseTagMountPoint)
	binary.LittleEndian.PutUint16(buf[4:6], uint16(substituteLen)+12)
	// buf[6:8] is Reserved, left zero
	binary.LittleEndian.PutUint16(buf[8:10], 0)
	binary.LittleEndian.PutUint16(buf[10:12], uint16(substituteLen))
	// print name sits right after the substitute name's null terminator
	binary.LittleEndian.PutUint16(buf[12:14], uint16(substituteLen)+2)
	binary.LittleEndian.PutUint16(buf[14:16], 0)

	pathBuffer := buf[reparseHeaderSize+mountPointHeaderSize:]
	for i, u := range substituteName {
		binary.LittleEndian.PutUint16(pathBuffer[2*i:], u)
	}
	return buf, nil
}

// decodeMountPoint extracts the target path out of a reparse data
// buffer. ok is false when the buffer carries some other reparse tag
// (a symlink, a dedup record...) — that's not an error, the caller
// just isn't looking at a junction. Errors mean the buffer itself is
// malformed.
func decodeMountPoint(buf []byte) (target string, ok bool, err error) {
	if len(buf) < reparseHeaderSize {
		return "", false, errors.Errorf("reparse buffer too short: %d bytes", len(buf))
	}
	if binary.LittleEndian.Uint32(buf[0:4]) != reparseTagMountPoint {
		return "", false, nil
	}
	if len(buf) < reparseHeaderSize+mountPointHeaderSize {
		return "", false, errors.Errorf("mount point buffer too short: %d bytes", len(buf))
	}

	substituteOff := int(binary.LittleEndian.Uint16(buf[8:10]))
	substituteLen := int(binary.LittleEndian.Uint16(buf[10:12]))
	if substituteLen%2 != 0 {
		return "", false, errors.Errorf("odd substitute name length: %d", substituteLen)
	}

	start := reparseHeaderSize + mountPointHeaderSize + substituteOff
	end := start + substituteLen
	if end > len(buf) || substituteLen > maxPathBufferSize {
		return "", false, errors.Errorf("substitute name region [%d:%d] outside reparse buffer of %d bytes", start, end, len(buf))
	}

	name := make([]uint16, substituteLen/2)
	for i := range name {
		name[i] = binary.LittleEndian.Uint16(buf[start+2*i:])
	}

	target = string(utf16.Decode(name))
	target = strings.TrimPrefix(target, nonInterpretedPrefix)
	return target, true, nil
}

// deleteMarker builds the 8-byte buffer FSCTL_DELETE_REPARSE_POINT
// expects: just the tag, zero data length, zero reserved.
func deleteMarker() []byte {
	buf := make([]byte, reparseHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], reparseTagMountPoint)
	return buf
}
