package terminal

import (
	"os"
)

// HasTTY reports whether stdin and stdout are both character devices. The
// interactive UI and colored output are only enabled when it returns true.
func HasTTY() bool {
	for _, f := range []*os.File{os.Stdin, os.Stdout} {
		info, err := f.Stat()
		if err != nil || info.Mode()&os.ModeCharDevice == 0 {
			return false
		}
	}
	return true
}
