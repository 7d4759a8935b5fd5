// Command gbemu is a minimal, non-interactive driver: it loads a ROM,
// runs a fixed number of frames, and writes the last frame's picture to
// a PPM file. It intentionally does not open a window, map a keyboard,
// or play audio — those are the host-shell responsibilities spec §1
// places outside the core's scope.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	gbemu "github.com/Div9851/gbemu"
)

func main() {
	app := cli.NewApp()
	app.Name = "gbemu"
	app.Usage = "run a Game Boy ROM headlessly and dump the final frame"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "rom", Usage: "path to a .gb ROM file"},
		cli.IntFlag{Name: "frames", Value: 60, Usage: "number of frames to run before dumping output"},
		cli.StringFlag{Name: "out", Value: "frame.ppm", Usage: "output PPM path"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("gbemu failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	romPath := ctx.String("rom")
	if romPath == "" {
		return fmt.Errorf("gbemu: -rom is required")
	}

	console := gbemu.New()
	if err := console.LoadROMFile(romPath); err != nil {
		return err
	}

	frames := ctx.Int("frames")
	for i := 0; i < frames; i++ {
		console.NextFrame()
	}

	return writePPM(ctx.String("out"), console.FrameBuffer())
}

// writePPM writes an RGBA8 framebuffer out as a binary PPM (P6) image,
// dropping the alpha channel, so the CLI has an observable artifact
// without pulling in an image-encoding dependency for a 160x144 debug
// dump.
func writePPM(path string, rgba []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("gbemu: creating output file: %w", err)
	}
	defer f.Close()

	const width, height = 160, 144
	if _, err := fmt.Fprintf(f, "P6\n%d %d\n255\n", width, height); err != nil {
		return err
	}

	rgb := make([]byte, 0, width*height*3)
	for i := 0; i+3 < len(rgba); i += 4 {
		rgb = append(rgb, rgba[i], rgba[i+1], rgba[i+2])
	}
	_, err = f.Write(rgb)
	return err
}
