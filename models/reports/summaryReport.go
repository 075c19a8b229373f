package reports

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/calc_backend/models"
	"bitbucket.org/mmdatafocus/calc_backend/utils"
	_ "github.com/go-sql-driver/mysql"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("calc-backend-reports")

const recentCalculationLimit = 5

// RecentCalculation is the restricted read projection served inside a summary.
// It deliberately omits user_id: the whole summary is already scoped to one user.
type RecentCalculation struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Inputs    []float64 `json:"inputs"`
	Result    float64   `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}

type ReportSummary struct {
	TotalCalculations  int64               `json:"total_calculations"`
	CountsByOperation  map[string]int64    `json:"counts_by_operation"`
	AverageOperands    float64             `json:"average_operands"`
	RecentCalculations []RecentCalculation `json:"recent_calculations"`
}

// CountOperands returns the number of operands in one stored inputs value.
// The stored shape drifted over the system's history: most rows hold a JSON array,
// some legacy rows a comma delimited string, a few hold nothing at all. Any other
// shape counts as zero. Total function: a single malformed historical row must never
// fail the whole report or skew it with an error path.
func CountOperands(raw []byte) int {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0
	}

	var list []json.RawMessage
	if err := json.Unmarshal(trimmed, &list); err == nil {
		return len(list)
	}

	var str string
	if err := json.Unmarshal(trimmed, &str); err == nil {
		return countDelimited(str)
	}

	if json.Valid(trimmed) {
		// number, bool or object: not an operand list
		return 0
	}

	// Legacy rows stored the list as plain "1, 2, 3" text, not valid JSON.
	return countDelimited(string(trimmed))
}

func countDelimited(s string) int {
	count := 0
	for _, piece := range strings.Split(s, ",") {
		if strings.TrimSpace(piece) != "" {
			count++
		}
	}
	return count
}

// decodeOperands mirrors CountOperands' shape handling but yields the numeric values
// for the recent-calculations projection. Pieces that do not parse are skipped.
func decodeOperands(raw []byte) []float64 {
	operands := []float64{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return operands
	}

	var list []float64
	if err := json.Unmarshal(trimmed, &list); err == nil {
		if list == nil {
			return operands
		}
		return list
	}

	var str string
	if err := json.Unmarshal(trimmed, &str); err == nil {
		return parseDelimited(str)
	}
	if !json.Valid(trimmed) {
		return parseDelimited(string(trimmed))
	}
	return operands
}

func parseDelimited(s string) []float64 {
	operands := []float64{}
	for _, piece := range strings.Split(s, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if v, err := strconv.ParseFloat(piece, 64); err == nil {
			operands = append(operands, v)
		}
	}
	return operands
}

// BuildReportSummary aggregates one user's calculations: total count, counts grouped
// by operation type, average operand count (2 decimals) and the five most recent
// records, newest first. A user with no records gets the all-zero summary, not an
// error. The db handle is passed in explicitly and scoped to this call.
//
// The four read passes run inside a single read-only transaction so they observe one
// snapshot: sum(CountsByOperation) == TotalCalculations holds even while the owner
// is writing concurrently.
func BuildReportSummary(ctx context.Context, db *gorm.DB, userId string) (*ReportSummary, error) {
	ctx, span := tracer.Start(ctx, "BuildReportSummary")
	defer span.End()

	if cached, ok := summaryCacheGet(userId); ok {
		return cached, nil
	}

	summary := &ReportSummary{
		CountsByOperation:  map[string]int64{},
		RecentCalculations: []RecentCalculation{},
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Calculation{}).
			Where("user_id = ?", userId).
			Count(&summary.TotalCalculations).Error; err != nil {
			return err
		}

		var opRows []struct {
			Type  string
			Total int64
		}
		if err := tx.Model(&models.Calculation{}).
			Select("type, COUNT(*) AS total").
			Where("user_id = ?", userId).
			Group("type").
			Scan(&opRows).Error; err != nil {
			return err
		}
		for _, row := range opRows {
			summary.CountsByOperation[row.Type] = row.Total
		}

		var inputRows [][]byte
		if err := tx.Model(&models.Calculation{}).
			Where("user_id = ?", userId).
			Pluck("inputs", &inputRows).Error; err != nil {
			return err
		}
		if summary.TotalCalculations > 0 {
			totalOperands := 0
			for _, raw := range inputRows {
				totalOperands += CountOperands(raw)
			}
			summary.AverageOperands = roundToTwoDecimals(
				float64(totalOperands) / float64(summary.TotalCalculations))
		}

		var recent []*models.Calculation
		// Secondary sort on id keeps equal timestamps deterministic.
		if err := tx.Where("user_id = ?", userId).
			Order("created_at DESC, id ASC").
			Limit(recentCalculationLimit).
			Find(&recent).Error; err != nil {
			return err
		}
		for _, calc := range recent {
			summary.RecentCalculations = append(summary.RecentCalculations, RecentCalculation{
				ID:        calc.ID,
				Type:      calc.Type,
				Inputs:    decodeOperands(calc.Inputs),
				Result:    calc.Result,
				CreatedAt: calc.CreatedAt,
			})
		}
		return nil
	}, &sql.TxOptions{ReadOnly: true})

	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrorStoreUnavailable, err)
	}

	summaryCacheSet(userId, summary)
	return summary, nil
}

func roundToTwoDecimals(v float64) float64 {
	return math.Round(v*100) / 100
}
