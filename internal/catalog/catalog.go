// Package catalog loads the vehicle and lender tables from CSV at startup.
// Both tables are read-only after loading; there is no runtime write path.
package catalog

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/financing-advisor/internal/model"
)

// Vehicle CSV columns.
const (
	colYear     = "year"
	colMake     = "make"
	colModel    = "model"
	colTrim     = "trim"
	colMSRP     = "msrp_approx"
	colBodyType = "body_type"
	colMPG      = "mpg_estimate"
)

// Lender CSV columns. The four rate columns keep the descriptive headers of
// the source spreadsheet.
const (
	colLenderName = "lender_name"
	colCoverage   = "country_coverage"
	colRateExc    = "interest_rate_range_apy_excellent (760+)"
	colRateGood   = "interest_rate_range_apy_good (660-759)"
	colRateFair   = "interest_rate_range_apy_fair (580-659)"
	colRatePoor   = "interest_rate_range_apy_poor (<580)"
	colTerms      = "typical_terms_months"
	colLoanTypes  = "loan_types_offered"
)

// LoadVehicles reads the vehicle catalog CSV. Rows with a non-positive price
// or year are dropped. A missing file is logged and returns an empty catalog
// so the service can still serve the rest of its API.
func LoadVehicles(path string) []model.Vehicle {
	rows, err := readCSV(path)
	if err != nil {
		zap.L().Error("catalog: vehicle CSV unavailable", zap.String("path", path), zap.Error(err))
		return nil
	}

	var vehicles []model.Vehicle
	for _, row := range rows {
		price, _ := strconv.Atoi(row[colMSRP])
		year, _ := strconv.Atoi(row[colYear])
		if price <= 0 || year <= 0 {
			continue
		}
		vehicles = append(vehicles, model.Vehicle{
			Year:        year,
			Make:        valueOr(row, colMake, "Toyota"),
			Model:       valueOr(row, colModel, "Unknown"),
			Trim:        valueOr(row, colTrim, "Base"),
			Price:       price,
			BodyType:    row[colBodyType],
			MPGEstimate: row[colMPG],
		})
	}

	zap.L().Info("catalog: vehicles loaded", zap.String("path", path), zap.Int("count", len(vehicles)))
	return vehicles
}

// LoadLenders reads the lender table CSV verbatim; filtering happens at
// aggregation time. A missing file yields an empty table.
func LoadLenders(path string) []model.LenderRecord {
	rows, err := readCSV(path)
	if err != nil {
		zap.L().Error("catalog: lender CSV unavailable", zap.String("path", path), zap.Error(err))
		return nil
	}

	lenders := make([]model.LenderRecord, 0, len(rows))
	for _, row := range rows {
		lenders = append(lenders, model.LenderRecord{
			Name:            row[colLenderName],
			CountryCoverage: row[colCoverage],
			RatesByTier: map[model.CreditTier]string{
				model.TierExcellent: row[colRateExc],
				model.TierGood:      row[colRateGood],
				model.TierFair:      row[colRateFair],
				model.TierPoor:      row[colRatePoor],
			},
			TypicalTerms: row[colTerms],
			LoanTypes:    row[colLoanTypes],
		})
	}

	zap.L().Info("catalog: lenders loaded", zap.String("path", path), zap.Int("count", len(lenders)))
	return lenders
}

// readCSV reads a whole header-keyed CSV into per-row maps. Missing columns
// read as empty strings.
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: open csv")
	}
	defer f.Close()

	return readCSVRows(f)
}

func readCSVRows(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, eris.Wrap(err, "catalog: read header")
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "catalog: read row")
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(record) {
				row[h] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func valueOr(row map[string]string, key, fallback string) string {
	if v := row[key]; v != "" {
		return v
	}
	return fallback
}
