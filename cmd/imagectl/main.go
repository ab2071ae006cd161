package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"image-backend/internal/client"
)

var Version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "imagectl",
		Usage:   "Upload, list and download images from an image service",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Sources: cli.EnvVars("IMAGECTL_SERVER"),
				Value:   "http://localhost:8080",
				Usage:   "Base URL of the image service.",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "upload",
				Usage:     "Upload a file under a name",
				ArgsUsage: "<name> <path>",
				Action:    upload,
			},
			{
				Name:   "list",
				Usage:  "List stored images",
				Action: list,
			},
			{
				Name:      "get",
				Usage:     "Download one image",
				ArgsUsage: "<image_id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:      "output",
						Aliases:   []string{"o"},
						Usage:     "Write to this file instead of stdout.",
						TakesFile: true,
					},
				},
				Action: get,
			},
			{
				Name:  "download-all",
				Usage: "Download every image as a zip archive",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:      "output",
						Aliases:   []string{"o"},
						Value:     "all_images.zip",
						Usage:     "Archive destination.",
						TakesFile: true,
					},
				},
				Action: downloadAll,
			},
			{
				Name:  "uploads",
				Usage: "Show the recent upload ledger",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "Number of records to show (1..100).",
					},
				},
				Action: uploads,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "imagectl:", err)
		os.Exit(1)
	}
}

func newClient(cmd *cli.Command) *client.Client {
	return client.New(cmd.String("server"), nil)
}

func upload(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return errors.New("upload expects <name> <path>")
	}
	name, path := cmd.Args().Get(0), cmd.Args().Get(1)

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	res, err := newClient(cmd).Upload(ctx, name, filepath.Base(path), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "%s: %s\n", res.ImageID, res.Message)
	return nil
}

func list(ctx context.Context, cmd *cli.Command) error {
	names, err := newClient(cmd).List(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(cmd.Root().Writer, name)
	}
	return nil
}

func get(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return errors.New("get expects <image_id>")
	}
	body, err := newClient(cmd).Get(ctx, id)
	if err != nil {
		return err
	}
	defer body.Close()
	return writeOut(cmd, cmd.String("output"), body)
}

func downloadAll(ctx context.Context, cmd *cli.Command) error {
	body, err := newClient(cmd).DownloadAll(ctx)
	if err != nil {
		return err
	}
	defer body.Close()
	return writeOut(cmd, cmd.String("output"), body)
}

func uploads(ctx context.Context, cmd *cli.Command) error {
	records, err := newClient(cmd).Uploads(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "UPLOADED\tIMAGE\tSIZE\tMIME\tSHA256")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			rec.UploadedAt.Format("2006-01-02T15:04:05Z07:00"),
			rec.ImageID, rec.SizeBytes, rec.MimeType, rec.SHA256)
	}
	return tw.Flush()
}

func writeOut(cmd *cli.Command, path string, r io.Reader) error {
	if path == "" || path == "-" {
		_, err := io.Copy(cmd.Root().Writer, r)
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	return nil
}
