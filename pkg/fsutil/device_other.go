//go:build !unix

package fsutil

import (
	"path/filepath"
	"strings"
)

// volume names are the closest thing to a device id off unix
func deviceKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(filepath.VolumeName(abs)), nil
}

func checkReadable(string) error {
	return nil
}

func isEXDEV(error) bool {
	return false
}
