package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/stockcast-app/stockcast/internal/config"
	"github.com/stockcast-app/stockcast/internal/ingest"
	"github.com/stockcast-app/stockcast/internal/storage"
)

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory containing sales CSV/XLSX files",
		Value:   "./data/sales",
		EnvVars: []string{"APP_DATA_DIR"},
	}
}

func newWorkersFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:  "workers",
		Usage: "Number of files ingested concurrently",
		Value: 4,
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "stockcast",
		Usage: "Inventory analytics and demand forecasting from sales exports",
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Download sales exports from object storage into the data directory",
				Flags: []cli.Flag{
					newDataDirFlag(),
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Only fetch objects under this key prefix",
					},
				},
				Action: runFetch,
			},
			{
				Name:  "ingest",
				Usage: "Parse and validate the sales files in the data directory",
				Flags: []cli.Flag{
					newDataDirFlag(),
					newWorkersFlag(),
				},
				Action: runIngest,
			},
			{
				Name:  "report",
				Usage: "Compute inventory health, ABC classes and order recommendations",
				Flags: []cli.Flag{
					newDataDirFlag(),
					newWorkersFlag(),
					&cli.StringFlag{
						Name:     "products",
						Usage:    "Product catalog CSV",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Usage:   "Directory for report CSV output",
						Value:   "./data/output",
						EnvVars: []string{"APP_OUTPUT_DIR"},
					},
				},
				Action: runReport,
			},
			{
				Name:  "forecast",
				Usage: "Generate a demand forecast from the ingested sales history",
				Flags: []cli.Flag{
					newDataDirFlag(),
					newWorkersFlag(),
					&cli.IntFlag{
						Name:  "horizon",
						Usage: "Forecast horizon in days",
						Value: 30,
					},
					&cli.BoolFlag{
						Name:  "gemini",
						Usage: "Use the Gemini predictor (requires GEMINI_API_KEY)",
					},
				},
				Action: runForecast,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runFetch(c *cli.Context) error {
	cfg := config.Load()

	client, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return err
	}

	ctx := context.Background()
	objects, err := client.ListObjects(ctx, c.String("prefix"))
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		log.Println("No objects found in storage")
		return nil
	}

	dataDir := c.String("data-dir")
	for _, obj := range objects {
		dest := filepath.Join(dataDir, filepath.Base(obj.Key))
		if err := client.DownloadObject(ctx, obj.Key, dest); err != nil {
			return err
		}
		log.Printf("Downloaded %s (%d bytes)", obj.Key, obj.Size)
	}

	log.Printf("Fetched %d objects into %s", len(objects), dataDir)
	return nil
}

func runIngest(c *cli.Context) error {
	result, err := ingest.LoadSalesDir(c.String("data-dir"), c.Int("workers"))
	if err != nil {
		return err
	}
	if len(result.Records) == 0 {
		return fmt.Errorf("no sales records found in %s", c.String("data-dir"))
	}

	series := ingest.AggregateDaily(result.Records)
	log.Printf("Ingested %d records (%d skipped) across %d days, %s to %s",
		len(result.Records), result.Skipped, len(series),
		series[0].Date.Format("2006-01-02"),
		series[len(series)-1].Date.Format("2006-01-02"))
	return nil
}
