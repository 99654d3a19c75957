//go:build statsview

// Package statsview launches a go-echarts/statsview dashboard for live
// runtime metrics, generalizing Gopher2600's statsview/statsview.go
// (identical build-tag gating, identical API shape) unchanged in spirit:
// it's an opt-in diagnostic, not something the core ever depends on.
package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Launch starts the statsview HTTP server on addr in its own goroutine.
func Launch(addr string, output io.Writer) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()
		mgr.Start()
	}()
	fmt.Fprintf(output, "stats server available at %s/debug/statsview\n", addr)
}

// Available reports whether this build was compiled with the statsview tag.
func Available() bool {
	return true
}
