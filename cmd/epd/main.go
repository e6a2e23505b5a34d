package main

import (
	"bytes"
	"fmt"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/epd"
	"github.com/bodgit/epd/frame"
	"github.com/bodgit/epd/palette"
	"github.com/bodgit/epd/server"
	"github.com/bodgit/epd/slot"
	"github.com/urfave/cli/v2"
)

const defaultDB = "epd.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func open(c *cli.Context) (*epd.EPD, error) {
	e, err := epd.New(c.String("db"), newLogger(c))
	if err != nil {
		return nil, err
	}
	e.Fit = c.Bool("fit")
	e.Options.UpsideDown = !c.Bool("no-flip")
	return e, nil
}

func withExt(file, ext string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + ext
}

func writePreview(file string, b []byte, upsideDown bool) error {
	f, err := frame.ReadFrame(bytes.NewReader(b), upsideDown)
	if err != nil {
		return err
	}

	out, err := os.Create(file)
	if err != nil {
		return err
	}
	defer out.Close()

	return png.Encode(out, f.Image)
}

func main() {
	app := cli.NewApp()

	app.Name = "epd"
	app.Usage = "Seven color e-paper frame converter"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	fitFlag := &cli.BoolFlag{
		Name:  "fit",
		Usage: "resize and crop images to the panel resolution",
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"EPD_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "no-flip",
			EnvVars: []string{"EPD_NO_FLIP"},
			Usage:   "store frames the right way up instead of rotated by 180°",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "convert",
			Usage:     "Convert an image to a frame file",
			ArgsUsage: "IMAGE",
			Flags: []cli.Flag{
				fitFlag,
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "frame file to write (default IMAGE.bin)",
				},
				&cli.StringFlag{
					Name:    "preview",
					Aliases: []string{"p"},
					Usage:   "also write a PNG preview to this file",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := epd.Load(c.Args().First(), c.Bool("fit"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				o := frame.DefaultOptions
				o.UpsideDown = !c.Bool("no-flip")

				b, preview, err := frame.Convert(m, &o)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				output := c.String("output")
				if output == "" {
					output = withExt(c.Args().First(), ".bin")
				}
				if err := ioutil.WriteFile(output, b, 0644); err != nil {
					return cli.NewExitError(err, 1)
				}

				if p := c.String("preview"); p != "" {
					f, err := os.Create(p)
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					defer f.Close()

					if err := png.Encode(f, preview); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				return nil
			},
		},
		{
			Name:      "decode",
			Usage:     "Render a frame file as a PNG",
			ArgsUsage: "FRAME",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "PNG file to write (default FRAME.png)",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				b, err := ioutil.ReadFile(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				output := c.String("output")
				if output == "" {
					output = withExt(c.Args().First(), ".png")
				}
				if err := writePreview(output, b, !c.Bool("no-flip")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "store",
			Usage:     "Convert an image and store the frame in the database",
			ArgsUsage: "IMAGE",
			Flags:     []cli.Flag{fitFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, err := open(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer e.Close()

				id, err := e.Import(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				fmt.Println(id)

				return nil
			},
		},
		{
			Name:      "scan",
			Usage:     "Convert and store every image in a directory",
			ArgsUsage: "DIRECTORY",
			Flags:     []cli.Flag{fitFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, err := open(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer e.Close()

				if err := e.Scan(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "export",
			Usage: "Build a flash partition image from the newest frames",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "slots",
					Value: slot.DefaultSlots,
					Usage: "number of slots in the partition",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   "images.bin",
					Usage:   "partition image to write",
				},
			},
			Action: func(c *cli.Context) error {
				if c.Int("slots") < 1 {
					return cli.NewExitError("slots must be at least 1", 1)
				}

				e, err := open(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer e.Close()

				b, err := e.Export(c.Int("slots"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := ioutil.WriteFile(c.String("output"), b, 0644); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "palette",
			Usage:     "Show how the panel colors cover an image",
			ArgsUsage: "IMAGE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := epd.Load(c.Args().First(), false)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if _, err := palette.Analyze(m).WriteTo(os.Stdout); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "serve",
			Usage: "Accept frames uploaded by the browser converter",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "listen",
					EnvVars: []string{"EPD_LISTEN"},
					Value:   ":8080",
					Usage:   "address to listen on",
				},
			},
			Action: func(c *cli.Context) error {
				e, err := open(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer e.Close()

				s := server.New(e.DB(), e.Options.UpsideDown)
				if err := s.Start(c.String("listen")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
