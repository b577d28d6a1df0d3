package main

import (
	"log"
	"os"

	"github.com/sfslab/sfs"
	"github.com/sfslab/sfs/storage"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:  "sfs",
		Usage: "Format SFS volumes",
		Commands: []*cli.Command{
			{
				Name:      "fmt",
				Usage:     "Initialize a new SFS volume on the given path",
				ArgsUsage: "PATH",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "debug",
						Aliases: []string{"d"},
						Usage:   "create the backing file fresh and zero-fill it",
					},
				},
				Action: formatVolume,
			},
		},
	}

	if len(os.Args) < 2 {
		log.Print("a subcommand is required; see --help")
		os.Exit(2)
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

// formatVolume implements `sfs fmt PATH [--debug]`: --debug creates the
// backing file fresh and clears it; without it, an existing file is opened
// and formatted in place without being recreated.
func formatVolume(context *cli.Context) error {
	path := context.Args().First()
	if path == "" {
		return cli.Exit("PATH is required", 2)
	}

	device, err := storage.OpenFileBlockEmulator(path, context.Bool("debug"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer device.Close()

	if _, err := sfs.Create(device); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	log.Printf("formatted SFS volume at %s", path)
	return nil
}
