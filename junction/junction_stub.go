//go:build !windows

package junction

import (
	"fmt"

	"github.com/pkg/errors"
)

var errWindowsOnly = fmt.Errorf("junction points are a windows-only feature")

func Create(junctionPath string, targetPath string, overwrite bool) error {
	return errors.WithStack(errWindowsOnly)
}

func Delete(junctionPath string) error {
	return errors.WithStack(errWindowsOnly)
}

func Exists(path string) (bool, error) {
	return false, errors.WithStack(errWindowsOnly)
}

func GetTarget(path string) (string, error) {
	return "", errors.WithStack(errWindowsOnly)
}
