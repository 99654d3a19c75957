package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/golang/glog"

	"nescore/debugterm"
	"nescore/nes"
	"nescore/statsview"
	"nescore/ui"
	"nescore/uiebiten"
	"nescore/uisdl"
	"nescore/wavwriter"
)

var (
	path         = flag.String("path", "./rom/sample1.nes", "path to NES ROM file")
	width        = flag.Int("width", 256*4, "window width")
	height       = flag.Int("height", 240*4, "window height")
	cpuprofile   = flag.String("cpuprofile", "", "write cpu profile to file")
	backend      = flag.String("backend", "glfw", "video backend: glfw, sdl, ebiten")
	debugOverlay = flag.Bool("debugoverlay", false, "enable imgui debug overlay (sdl backend only)")
	debugTerm    = flag.Bool("debug", false, "run the terminal debugger instead of a video frontend")
	statsAddr    = flag.String("stats-addr", "", "address to serve a statsview dashboard on (requires -tags statsview)")
	dumpAudio    = flag.String("dump-audio", "", "path to write captured audio as a WAV file")
)

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ioutil.ReadAll(f)
}

func init() {
	runtime.LockOSThread()
}

func main() {
	flag.Parse()
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			glog.Fatal("Failed to create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			glog.Fatal("Failed to start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if *statsAddr != "" {
		if !statsview.Available() {
			glog.Warningln("-stats-addr given but this binary wasn't built with -tags statsview")
		} else {
			statsview.Launch(*statsAddr, os.Stderr)
		}
	}

	buf, err := readFile(*path)
	if err != nil {
		glog.Fatalln("Failed to read: " + *path)
	}
	console := nes.MustNewConsole(buf, nil)

	var audioDone chan error
	if *dumpAudio != "" {
		w, err := wavwriter.New(*dumpAudio)
		if err != nil {
			glog.Fatalln(err)
		}
		samples := make(chan float32, 4096)
		console.APU.SetAudioOut(samples)
		audioDone = make(chan error, 1)
		go func() {
			w.Drain(samples)
			audioDone <- w.Close()
		}()
	}

	if *debugTerm {
		term, err := debugterm.New(console)
		if err != nil {
			glog.Fatalln(err)
		}
		defer term.Close()
		term.Run()
		return
	}

	switch *backend {
	case "glfw":
		ui.Start(console, *width, *height)
	case "sdl":
		uisdl.Start(console, *width, *height, *debugOverlay)
	case "ebiten":
		if err := uiebiten.Start(console, *width, *height, audioDone); err != nil {
			glog.Fatalln(err)
		}
	default:
		glog.Fatalln(fmt.Errorf("main: unknown -backend %q (want glfw, sdl, or ebiten)", *backend))
	}
}
