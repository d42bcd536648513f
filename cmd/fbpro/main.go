package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/fbpro"
	"github.com/bodgit/fbpro/anim"
	"github.com/bodgit/fbpro/render"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// options builds the library options shared by every command. The returned
// function closes the store, if any.
func options(c *cli.Context) ([]fbpro.Option, func(), error) {
	f, err := format(c)
	if err != nil {
		return nil, nil, err
	}

	opts := []fbpro.Option{
		fbpro.WithLogger(newLogger(c)),
		fbpro.WithFormat(f),
		fbpro.WithScale(c.Int("scale")),
		fbpro.WithColorTable(c.Int("color-table")),
		fbpro.WithView(c.Int("view")),
		fbpro.WithWorkers(c.Int("workers")),
	}

	if c.String("db") == "" {
		return opts, func() {}, nil
	}

	s, err := fbpro.NewStore(c.String("db"))
	if err != nil {
		return nil, nil, err
	}

	return append(opts, fbpro.WithStore(s)), func() { s.Close() }, nil
}

func format(c *cli.Context) (render.Format, error) {
	if c.String("format") == "" {
		return render.PNG, nil
	}
	return render.ParseFormat(c.String("format"))
}

func writeImage(c *cli.Context, file string, m image.Image) error {
	f, err := format(c)
	if err != nil {
		return err
	}

	if filepath.Ext(file) == "" {
		file += f.Ext()
	}

	w, err := os.Create(file)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := render.Encode(w, render.Scale(m, c.Int("scale")), f); err != nil {
		return err
	}

	return w.Close()
}

func openDatabase(c *cli.Context) (*fbpro.Database, func(), error) {
	opts, closer, err := options(c)
	if err != nil {
		return nil, nil, err
	}

	db, err := fbpro.Open(c.String("game-dir"), opts...)
	if err != nil {
		closer()
		return nil, nil, err
	}

	return db, closer, nil
}

func main() {
	app := cli.NewApp()

	app.Name = "fbpro"
	app.Usage = "Front Page Sports Football Pro '93 asset extractor"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	imageFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   "png",
			Usage:   "output image format (png, gif, bmp, qoi)",
		},
		&cli.IntFlag{
			Name:    "scale",
			Aliases: []string{"s"},
			Value:   1,
			Usage:   "integer scaling factor",
		},
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "game-dir",
			EnvVars: []string{"FBPRO_GAME_DIR"},
			Value:   cwd,
			Usage:   "path to game directory",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"FBPRO_DB"},
			Usage:   "path to optional cache database",
		},
		&cli.IntFlag{
			Name:    "color-table",
			EnvVars: []string{"FBPRO_COLOR_TABLE"},
			Value:   -1,
			Usage:   fmt.Sprintf("sprite color table 0-%d, -1 for none", len(anim.ColorTables)-1),
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "screen",
			Usage:       "Decode a screen",
			Description: "The palette is found in the game directory the same way the game does, falling back to grayscale.",
			ArgsUsage:   "FILE",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "out",
					Aliases: []string{"o"},
					Usage:   "output file, defaults to FILE with a new extension",
				},
			}, imageFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				logger := newLogger(c)
				file := c.Args().First()

				b, err := os.ReadFile(file)
				if err != nil {
					return cli.Exit(err, 1)
				}

				opts, closer, err := options(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				buf, err := fbpro.DecodeScreen(b, opts...)
				if err != nil {
					return cli.Exit(err, 1)
				}

				p, path, err := fbpro.ScreenPalette(c.String("game-dir"), file)
				if err != nil {
					return cli.Exit(err, 1)
				}
				if path == "" {
					logger.Printf("No palette for \"%s\", using grayscale\n", file)
				} else {
					logger.Printf("Using palette \"%s\"\n", path)
				}

				out := c.String("out")
				if out == "" {
					out = strings.TrimSuffix(file, filepath.Ext(file))
				}

				if err := writeImage(c, out, buf.Paletted(p)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "list",
			Usage:     "List animations",
			ArgsUsage: " ",
			Action: func(c *cli.Context) error {
				db, closer, err := openDatabase(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				for i, e := range db.Entries() {
					var status string
					if a, ok := db.Animation(e.Name); ok {
						status = fmt.Sprintf("%d views, %d sprites", a.Views, len(a.Sprites))
					} else {
						status = "failed to decode"
					}
					fmt.Printf("%3d %-8s %6d  %s\n", i, e.Name, e.FrameCount, status)
				}

				return nil
			},
		},
		{
			Name:      "sheet",
			Usage:     "Render animations as sprite sheets",
			ArgsUsage: "NAME...",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "out",
					Aliases: []string{"o"},
					Value:   ".",
					Usage:   "output directory",
				},
			}, imageFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, closer, err := openDatabase(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				for _, name := range c.Args().Slice() {
					a, ok := db.Animation(name)
					if !ok {
						return cli.Exit(fmt.Errorf("%w: %q", anim.ErrNotFound, name), 1)
					}
					if !fbpro.SafeName(a.Name) || a.Frames == 0 {
						return cli.Exit(fmt.Errorf("animation %q cannot be rendered", a.Name), 1)
					}
					if err := writeImage(c, filepath.Join(c.String("out"), a.Name), render.Sheet(a, db.Palette())); err != nil {
						return cli.Exit(err, 1)
					}
				}

				return nil
			},
		},
		{
			Name:      "catalog",
			Usage:     "Render one frame of every animation",
			ArgsUsage: " ",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "out",
					Aliases: []string{"o"},
					Value:   "catalog",
					Usage:   "output file",
				},
				&cli.IntFlag{
					Name:  "view",
					Value: 4,
					Usage: "view to show for each animation",
				},
			}, imageFlags...),
			Action: func(c *cli.Context) error {
				db, closer, err := openDatabase(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				if err := writeImage(c, c.String("out"), render.Catalog(db.Animations(), db.Palette(), c.Int("view"))); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "export",
			Usage:       "Export every screen and animation",
			Description: "Screens keep their path relative to the game directory, animations are written to an anim directory.",
			ArgsUsage:   "DIRECTORY",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  "view",
					Value: 4,
					Usage: "view to show for each animation in the catalog",
				},
				&cli.IntFlag{
					Name:  "workers",
					Value: 10,
					Usage: "number of concurrent workers",
				},
			}, imageFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				opts, closer, err := options(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				if err := fbpro.Export(context.Background(), c.String("game-dir"), c.Args().First(), opts...); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
