//go:build unix

package fsutil

import (
	"strconv"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sys/unix"
)

func deviceKey(path string) (string, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return "", err
	}
	return strconv.FormatUint(uint64(st.Dev), 10), nil
}

func checkReadable(dir string) error {
	return unix.Access(dir, unix.R_OK)
}

func isEXDEV(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
