package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/32bitkid/descent/resource"
)

const defaultPalette = "palette.256"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) zerolog.Logger {
	level := zerolog.InfoLevel
	if c.Bool("verbose") {
		level = zerolog.DebugLevel
	}
	out := c.App.ErrWriter
	if out == nil {
		out = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "descentview"
	app.Usage = "Descent HOG and PIG archive utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	paletteFlag := &cli.StringFlag{
		Name:    "palette",
		EnvVars: []string{"DESCENTVIEW_PALETTE"},
		Value:   defaultPalette,
		Usage:   "palette file, or entry of the opened archive, used for PIG bitmaps",
	}
	lightFlag := &cli.IntFlag{
		Name:  "light",
		Value: -1,
		Usage: "render bitmaps at a fade table light level (0-33)",
	}

	app.Commands = []*cli.Command{
		{
			Name:      "list",
			Usage:     "List the entries of an archive",
			ArgsUsage: "ARCHIVE",
			Action:    listAction,
		},
		{
			Name:      "extract",
			Usage:     "Extract every entry of an archive",
			ArgsUsage: "ARCHIVE DIRECTORY",
			Action:    extractAction,
		},
		{
			Name:      "show",
			Usage:     "Decode one entry to PNG, WAV or text",
			ArgsUsage: "ARCHIVE ENTRY OUTPUT",
			Flags: []cli.Flag{
				paletteFlag,
				lightFlag,
				&cli.IntFlag{
					Name:    "rate",
					EnvVars: []string{"DESCENTVIEW_SAMPLE_RATE"},
					Value:   resource.DefaultSampleRate,
					Usage:   "sample rate of headerless sounds",
				},
			},
			Action: showAction,
		},
		{
			Name:      "gamedata",
			Usage:     "Dump the game data block of a PIG",
			ArgsUsage: "PIG",
			Action:    gameDataAction,
		},
		{
			Name:      "rewrite",
			Usage:     "Write a copy of a HOG with entries removed or added",
			ArgsUsage: "HOG OUTPUT",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:  "remove",
					Usage: "entry to drop",
				},
				&cli.StringSliceFlag{
					Name:  "add",
					Usage: "file to add or replace",
				},
			},
			Action: rewriteAction,
		},
		{
			Name:      "palette",
			Usage:     "Render a palette file as a grid of swatches",
			ArgsUsage: "PALETTE OUTPUT",
			Flags:     []cli.Flag{lightFlag},
			Action:    paletteAction,
		},
		{
			Name:      "preview",
			Usage:     "Preview an image mapped onto the game palette",
			ArgsUsage: "IMAGE OUTPUT",
			Flags:     []cli.Flag{paletteFlag, lightFlag},
			Action:    previewAction,
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
		logger.Fatal().Err(err).Send()
	}
}
