package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/stockcast-app/stockcast/internal/config"
	"github.com/stockcast-app/stockcast/internal/domain"
	"github.com/stockcast-app/stockcast/internal/forecast"
	"github.com/stockcast-app/stockcast/internal/ingest"
	"github.com/stockcast-app/stockcast/internal/repository"
	"github.com/stockcast-app/stockcast/internal/service"
)

// cliSessionID keys the in-memory session a CLI run works against.
const cliSessionID = "cli"

func runReport(c *cli.Context) error {
	catalogFile, err := os.Open(c.String("products"))
	if err != nil {
		return fmt.Errorf("failed to open product catalog: %w", err)
	}
	defer catalogFile.Close()

	products, err := ingest.ReadProductsCSV(catalogFile)
	if err != nil {
		return err
	}

	sales, err := ingest.LoadSalesDir(c.String("data-dir"), c.Int("workers"))
	if err != nil {
		return err
	}

	store := repository.NewSessionStore()
	if err := store.UpsertProducts(cliSessionID, products); err != nil {
		return err
	}
	store.AppendSales(cliSessionID, sales.Records)

	report, err := service.NewInventoryService(store).BuildReport(context.Background(), cliSessionID)
	if err != nil {
		return err
	}

	outputDir := c.String("output-dir")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outputDir, "inventory_report.csv")
	if err := writeReportCSV(path, report); err != nil {
		return err
	}

	log.Printf("Report for %d products written to %s", len(report.Metrics), path)
	return nil
}

func writeReportCSV(path string, report *domain.InventoryReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	classByID := make(map[string]domain.ABCClass, len(report.Classes))
	for _, item := range report.Classes {
		classByID[item.ProductID] = item.Class
	}
	orderByID := make(map[string]domain.OptimalOrder, len(report.Orders))
	for _, order := range report.Orders {
		orderByID[order.ProductID] = order
	}

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"product_id", "product_name", "daily_demand", "demand_std_dev",
		"safety_stock", "reorder_point", "stockout_probability",
		"turnover_rate", "days_of_inventory", "abc_class",
		"order_quantity", "urgent", "critical",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, m := range report.Metrics {
		order := orderByID[m.ProductID]
		row := []string{
			m.ProductID,
			m.ProductName,
			formatFloat(m.DailyDemand),
			formatFloat(m.DemandStdDev),
			formatFloat(m.SafetyStock),
			formatFloat(m.ReorderPoint),
			formatFloat(m.StockoutProbability),
			formatFloat(m.TurnoverRate),
			formatFloat(m.DaysOfInventory),
			string(classByID[m.ProductID]),
			formatFloat(order.Final),
			strconv.FormatBool(order.Urgent),
			strconv.FormatBool(order.Critical),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func runForecast(c *cli.Context) error {
	sales, err := ingest.LoadSalesDir(c.String("data-dir"), c.Int("workers"))
	if err != nil {
		return err
	}
	if len(sales.Records) == 0 {
		return fmt.Errorf("no sales records found in %s", c.String("data-dir"))
	}

	var primary forecast.Predictor
	if c.Bool("gemini") {
		cfg := config.Load()
		if cfg.Forecast.GeminiAPIKey == "" {
			return fmt.Errorf("--gemini requires GEMINI_API_KEY to be set")
		}
		primary = forecast.NewGeminiPredictor(cfg.Forecast.GeminiAPIKey, cfg.Forecast.GeminiModel)
	}

	series := ingest.AggregateDaily(sales.Records)
	response, err := forecast.NewOrchestrator(primary).Forecast(context.Background(), series, c.Int("horizon"))
	if err != nil {
		return err
	}

	log.Printf("Forecast source: %s", response.Source)
	if response.Seasonality.Detected {
		log.Printf("Seasonality: %s (strength %.2f)", response.Seasonality.Pattern, response.Seasonality.Strength)
	} else if response.Seasonality.Reason != "" {
		log.Printf("Seasonality: none (%s)", response.Seasonality.Reason)
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()
	if err := w.Write([]string{"date", "predicted", "upper_bound", "lower_bound"}); err != nil {
		return err
	}
	for _, p := range response.Points {
		row := []string{p.Date, formatFloat(p.Predicted), formatFloat(p.UpperBound), formatFloat(p.LowerBound)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
