package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"rostersearch/internal/engine"
	"rostersearch/internal/record"
	"rostersearch/internal/store"
	"rostersearch/internal/worker"
)

func main() {
	app := &cli.App{
		Name:  "rostersearch",
		Usage: "personnel roster search engine",
		Commands: []*cli.Command{
			{
				Name:  "repl",
				Usage: "interactive search shell",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dataset", Usage: "dataset URL or file to load on start"},
				},
				Action: func(c *cli.Context) error {
					return runREPL(c.String("dataset"))
				},
			},
			{
				Name:  "serve",
				Usage: "serve the search worker over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "listen address"},
					&cli.StringFlag{Name: "dataset", Usage: "dataset URL or file to load on start"},
				},
				Action: func(c *cli.Context) error {
					return runServe(c.String("addr"), c.String("dataset"))
				},
			},
			{
				Name:      "snapshot",
				Usage:     "save a dataset into a local snapshot file",
				ArgsUsage: "<dataset-url> <snapshot-path>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return cli.Exit("usage: rostersearch snapshot <dataset-url> <snapshot-path>", 1)
					}
					return saveSnapshot(c.Args().Get(0), c.Args().Get(1))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func saveSnapshot(url, path string) error {
	ds, err := record.Load(url)
	if err != nil {
		return err
	}

	snap, err := store.OpenSnapshot(path)
	if err != nil {
		return err
	}
	defer snap.Close()

	if err := snap.Save(ds, url); err != nil {
		return err
	}
	fmt.Printf("Saved %d records to %s\n", len(ds.Records), path)
	return nil
}

// newWorker builds a worker, optionally loading a dataset up front. A
// .db dataset path is treated as a snapshot file.
func newWorker(dataset string) (*worker.Worker, error) {
	w := worker.NewWithLoader(engine.DefaultConfig(), loadDatasetOrSnapshot)
	if dataset == "" {
		return w, nil
	}

	resp := w.Handle(worker.Request{ID: "boot", Type: worker.TypeInit, URL: dataset})
	if resp.Type == worker.TypeError {
		return nil, fmt.Errorf("failed to load %s: %s", dataset, resp.Error)
	}
	fmt.Printf("Loaded %d records from %s\n", resp.Count, dataset)
	return w, nil
}

func loadDatasetOrSnapshot(url string) (*record.Dataset, error) {
	if len(url) > 3 && url[len(url)-3:] == ".db" {
		snap, err := store.OpenSnapshot(url)
		if err != nil {
			return nil, err
		}
		defer snap.Close()
		ds, _, err := snap.Load()
		return ds, err
	}
	return record.Load(url)
}
