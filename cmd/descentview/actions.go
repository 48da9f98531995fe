package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/32bitkid/descent"
	"github.com/32bitkid/descent/gamedata"
	"github.com/32bitkid/descent/resource"
	"github.com/32bitkid/descent/screen"
)

func requireArgs(c *cli.Context, n int) {
	if c.NArg() < n {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
}

func listAction(c *cli.Context) error {
	requireArgs(c, 1)

	archive, err := descent.Open(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for _, e := range archive.Entries {
		if d := e.Image; d != nil {
			rle := ""
			if d.RLE {
				rle = " rle"
			}
			fmt.Fprintf(c.App.Writer, "%-16s %8d  %dx%d%s\n", e.Name, len(e.Bytes), d.Width, d.Height, rle)
			continue
		}
		fmt.Fprintf(c.App.Writer, "%-16s %8d\n", e.Name, len(e.Bytes))
	}
	return nil
}

func extractAction(c *cli.Context) error {
	requireArgs(c, 2)
	logger := newLogger(c)

	archive, err := descent.Open(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	dir := c.Args().Get(1)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return cli.NewExitError(err, 1)
	}

	extracted, failed := 0, 0
	if archive.GameData != nil && archive.GameData.Len() > 0 {
		path := filepath.Join(dir, "game-data.txt")
		if err := os.WriteFile(path, []byte(gamedata.DumpString(archive.GameData)), 0644); err != nil {
			logger.Error().Err(err).Str("path", path).Msg("write game data")
			failed++
		} else {
			extracted++
		}
	}

	for _, e := range archive.Entries {
		if len(e.Bytes) == 0 {
			logger.Warn().Str("entry", e.Name).Msg("skipping empty entry")
			failed++
			continue
		}
		path := filepath.Join(dir, filepath.Base(e.Name))
		if err := os.WriteFile(path, e.Bytes, 0644); err != nil {
			logger.Error().Err(err).Str("path", path).Msg("extract")
			failed++
			continue
		}
		logger.Debug().Str("entry", e.Name).Int("bytes", len(e.Bytes)).Msg("extracted")
		extracted++
	}

	logger.Info().Int("extracted", extracted).Int("failed", failed).Str("dir", dir).Msg("extract complete")
	return nil
}

func showAction(c *cli.Context) error {
	requireArgs(c, 3)
	logger := newLogger(c)

	archive, err := descent.Open(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	entry, ok := archive.Find(c.Args().Get(1))
	if !ok {
		return cli.NewExitError(fmt.Sprintf("%s: no such entry", c.Args().Get(1)), 1)
	}
	output := c.Args().Get(2)

	opts := descent.DecodeOptions{SampleRate: c.Int("rate")}
	if entry.Image != nil {
		pal, err := loadPalette(c.String("palette"), archive)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		opts.Palette = lit(pal, c.Int("light"))
	}

	content, err := entry.Decode(opts)
	if err != nil {
		if !errors.Is(err, resource.ErrFormat) && !errors.Is(err, resource.ErrCorrupt) && !errors.Is(err, resource.ErrTruncated) {
			return cli.NewExitError(err, 1)
		}
		logger.Warn().Err(err).Str("entry", entry.Name).Msg("decode failed, writing hex dump")
		text := fmt.Sprintf("Error reading %s:\n%v\n\n%s", entry.Name, err, resource.HexDump(entry.Bytes, entry.Name))
		return writeOutput(output, []byte(text))
	}
	if content.Info != "" {
		logger.Info().Str("entry", entry.Name).Msg(content.Info)
	}

	switch {
	case content.Image != nil:
		return writePNG(output, content.Image)
	case content.Audio != nil:
		return writeOutput(output, content.Audio)
	}
	return writeOutput(output, []byte(content.Text))
}

func gameDataAction(c *cli.Context) error {
	requireArgs(c, 1)

	_, _, gd, err := descent.ReadPIG(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := gamedata.Dump(c.App.Writer, gd); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func rewriteAction(c *cli.Context) error {
	requireArgs(c, 2)
	logger := newLogger(c)

	archive, err := descent.Open(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if !archive.Writable() {
		return cli.NewExitError("PIG files are read-only and cannot be saved", 1)
	}

	var changes descent.Changeset
	for _, name := range c.StringSlice("remove") {
		if _, ok := archive.Find(name); !ok {
			logger.Warn().Str("entry", name).Msg("not in archive")
		}
		changes.Remove(name)
	}
	for _, path := range c.StringSlice("add") {
		b, err := os.ReadFile(path)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		changes.Add(descent.Entry{Name: filepath.Base(path), Bytes: b})
	}
	if changes.Empty() {
		logger.Info().Msg("no modifications, writing an identical copy")
	}

	entries := changes.Apply(archive.Entries)
	output := c.Args().Get(1)
	if err := descent.WriteHOG(output, entries); err != nil {
		return cli.NewExitError(err, 1)
	}
	logger.Info().Int("entries", len(entries)).Str("path", output).Msg("archive saved")
	return nil
}

func paletteAction(c *cli.Context) error {
	requireArgs(c, 2)

	b, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	pal, err := resource.DecodePalette(b)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return writePNG(c.Args().Get(1), screen.Swatches(lit(pal, c.Int("light"))))
}

func previewAction(c *cli.Context) error {
	requireArgs(c, 2)

	f, err := os.Open(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	src, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	pal, err := loadPalette(c.String("palette"), nil)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	b := src.Bounds()
	indices := screen.Quantize(src, pal.ColorPalette())
	img, err := resource.DecodeBitmap(indices, b.Dx(), b.Dy(), lit(pal, c.Int("light")), false, resource.FlagTransparent)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return writePNG(c.Args().Get(1), img)
}

// loadPalette reads name from disk, falling back to an entry of the
// opened archive.
func loadPalette(name string, archive *descent.Archive) (*resource.Palette, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		if archive == nil {
			return nil, err
		}
		e, ok := archive.Find(filepath.Base(name))
		if !ok {
			return nil, fmt.Errorf("palette %s: %w", name, descent.ErrNoPalette)
		}
		b = e.Bytes
	}
	return resource.DecodePalette(b)
}

func lit(pal *resource.Palette, level int) color.Palette {
	if level < 0 {
		return pal.ColorPalette()
	}
	return screen.Shaded(pal, level)
}

func writePNG(path string, img image.Image) error {
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		path += ".png"
	}
	f, err := os.Create(path)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return cli.NewExitError(err, 1)
	}
	if err := f.Close(); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func writeOutput(path string, b []byte) error {
	if err := os.WriteFile(path, b, 0644); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}
