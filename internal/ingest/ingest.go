// internal/ingest/ingest.go
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stockcast-app/stockcast/internal/domain"
	"github.com/stockcast-app/stockcast/pkg/logger"
)

// Result holds the records recovered from a sales file plus how many
// rows were dropped for invalid values. Dropped rows are not an error;
// malformed values degrade per record.
type Result struct {
	Records []domain.SalesRecord
	Skipped int
}

// Accepted date layouts for sales rows.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Column aliases tolerated in sales file headers.
var (
	dateColumns     = []string{"date", "sale_date", "tanggal"}
	idColumns       = []string{"product_id", "sku", "sku_id"}
	nameColumns     = []string{"product_name", "name", "product", "nama"}
	quantityColumns = []string{"quantity", "sales", "qty", "units"}
	revenueColumns  = []string{"revenue", "amount", "total"}
)

// ReadSalesCSV parses a sales CSV stream into normalized records.
// Numeric fields arriving as strings are coerced; rows with a missing
// date or non-numeric quantity are skipped and counted, never fatal.
func ReadSalesCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	dateIdx, ok := findColumn(colMap, dateColumns)
	if !ok {
		return nil, fmt.Errorf("sales file has no date column (got headers: %s)", strings.Join(header, ", "))
	}
	qtyIdx, ok := findColumn(colMap, quantityColumns)
	if !ok {
		return nil, fmt.Errorf("sales file has no quantity column (got headers: %s)", strings.Join(header, ", "))
	}
	idIdx, hasID := findColumn(colMap, idColumns)
	nameIdx, hasName := findColumn(colMap, nameColumns)
	revenueIdx, hasRevenue := findColumn(colMap, revenueColumns)

	result := &Result{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading sales row: %w", err)
		}

		date, ok := parseDate(field(row, dateIdx))
		if !ok {
			result.Skipped++
			continue
		}

		quantity, ok := parseNumber(field(row, qtyIdx))
		if !ok || quantity < 0 {
			result.Skipped++
			continue
		}

		rec := domain.SalesRecord{Date: date, Quantity: quantity}
		if hasID {
			rec.ProductID = strings.TrimSpace(field(row, idIdx))
		}
		if hasName {
			rec.ProductName = strings.TrimSpace(field(row, nameIdx))
		}
		if hasRevenue {
			// Revenue is optional; a bad value zeroes the field only.
			if revenue, ok := parseNumber(field(row, revenueIdx)); ok {
				rec.Revenue = revenue
			}
		}

		result.Records = append(result.Records, rec)
	}

	return result, nil
}

// ReadProductsCSV parses a product catalog CSV. Absent optional fields
// keep their zero values so downstream defaults apply.
func ReadProductsCSV(r io.Reader) ([]domain.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	idIdx, ok := findColumn(colMap, idColumns)
	if !ok {
		return nil, fmt.Errorf("product file has no id column (got headers: %s)", strings.Join(header, ", "))
	}

	numField := func(row []string, names ...string) float64 {
		idx, ok := findColumn(colMap, names)
		if !ok {
			return 0
		}
		v, ok := parseNumber(field(row, idx))
		if !ok {
			return 0
		}
		return v
	}

	var products []domain.Product
	seen := make(map[string]bool)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading product row: %w", err)
		}

		id := strings.TrimSpace(field(row, idIdx))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		product := domain.Product{
			ID:           id,
			UnitCost:     numField(row, "unit_cost", "cost", "hpp"),
			UnitPrice:    numField(row, "unit_price", "price", "harga"),
			CurrentStock: numField(row, "current_stock", "stock", "stok"),
			LeadTimeDays: int(numField(row, "lead_time_days", "lead_time")),
			ReorderPoint: numField(row, "reorder_point"),
			SafetyStock:  numField(row, "safety_stock"),
			MaxStock:     numField(row, "max_stock"),
		}
		if idx, ok := findColumn(colMap, nameColumns); ok {
			product.Name = strings.TrimSpace(field(row, idx))
		}
		if idx, ok := colMap["category"]; ok {
			product.Category = strings.TrimSpace(field(row, idx))
		}

		products = append(products, product)
	}

	return products, nil
}

// LoadSalesFile reads one sales file, converting XLSX input first.
func LoadSalesFile(path string) (*Result, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return readSalesXLSX(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sales file %s: %w", path, err)
	}
	defer f.Close()

	return ReadSalesCSV(f)
}

// LoadSalesDir ingests every CSV/XLSX sales file in a directory
// concurrently and merges the results chronologically.
func LoadSalesDir(dir string, workers int) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sales directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		if strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".xlsx") {
			paths = append(paths, dir+"/"+entry.Name())
		}
	}

	if workers < 1 {
		workers = 1
	}

	var (
		mu     sync.Mutex
		merged Result
	)
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for _, path := range paths {
		g.Go(func() error {
			res, err := LoadSalesFile(path)
			if err != nil {
				return err
			}
			logger.Log.Info().
				Str("file", path).
				Int("records", len(res.Records)).
				Int("skipped", res.Skipped).
				Msg("ingested sales file")

			mu.Lock()
			merged.Records = append(merged.Records, res.Records...)
			merged.Skipped += res.Skipped
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(merged.Records, func(i, j int) bool {
		return merged.Records[i].Date.Before(merged.Records[j].Date)
	})

	return &merged, nil
}

// AggregateDaily collapses sales records into one (date, total) point
// per calendar day, sorted chronologically. Product linkage is ignored;
// the aggregate feeds the base demand forecast.
func AggregateDaily(records []domain.SalesRecord) []domain.TimePoint {
	totals := make(map[string]float64)
	for _, rec := range records {
		totals[rec.Date.Format("2006-01-02")] += rec.Quantity
	}

	points := make([]domain.TimePoint, 0, len(totals))
	for key, total := range totals {
		date, err := time.Parse("2006-01-02", key)
		if err != nil {
			continue
		}
		points = append(points, domain.TimePoint{Date: date, Value: total})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

func findColumn(colMap map[string]int, names []string) (int, bool) {
	for _, name := range names {
		if idx, ok := colMap[name]; ok {
			return idx, true
		}
	}
	return 0, false
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseNumber coerces a string numeric field, tolerating surrounding
// spaces and thousands separators.
func parseNumber(raw string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseDate(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Truncate(24 * time.Hour), true
		}
	}
	return time.Time{}, false
}
