//go:build !statsview

package statsview

import "io"

// Launch is a no-op in builds without the statsview tag.
func Launch(addr string, output io.Writer) {}

// Available reports whether this build was compiled with the statsview tag.
func Available() bool {
	return false
}
