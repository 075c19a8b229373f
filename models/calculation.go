package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/calc_backend/config"
	"bitbucket.org/mmdatafocus/calc_backend/utils"
	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CalculationType string

const (
	CalculationTypeAddition       CalculationType = "addition"
	CalculationTypeSubtraction    CalculationType = "subtraction"
	CalculationTypeMultiplication CalculationType = "multiplication"
	CalculationTypeDivision       CalculationType = "division"
)

// Calculation is one stored arithmetic request. Inputs is a JSON column rather than a
// typed slice: historical rows hold either a JSON array or a legacy comma delimited
// string, and readers must deal with both (see the reports package).
type Calculation struct {
	ID        string    `gorm:"type:char(36);primary_key" json:"id"`
	UserId    string    `gorm:"type:char(36);index;not null" json:"user_id"`
	Type      string    `gorm:"size:20;not null" json:"type"`
	Inputs    []byte    `gorm:"type:json" json:"inputs"`
	Result    float64   `json:"result"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCalculation struct {
	Type   string    `json:"type" binding:"required"`
	Inputs []float64 `json:"inputs" binding:"required,min=1"`
}

// CalculationResponse is the wire shape of a Calculation; Inputs is decoded back into
// a numeric list so clients never see the raw column bytes.
type CalculationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Inputs    []float64 `json:"inputs"`
	Result    float64   `json:"result"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

/*
caches:
	ReportSummary:$userId (written by models/reports, cleared here on every write)
*/

func (calc *Calculation) Response() *CalculationResponse {
	inputs := []float64{}
	// Legacy string rows fail to decode here; they are served as an empty list and
	// handled properly by the report normalizer.
	_ = json.Unmarshal(calc.Inputs, &inputs)
	return &CalculationResponse{
		ID:        calc.ID,
		Type:      calc.Type,
		Inputs:    inputs,
		Result:    calc.Result,
		CreatedAt: calc.CreatedAt,
		UpdatedAt: calc.UpdatedAt,
	}
}

func (calc Calculation) RemoveInstanceRedis() error {
	if err := config.RemoveRedisKey("ReportSummary:" + calc.UserId); err != nil {
		return err
	}
	return nil
}

// NormalizeCalculationType lowercases and validates the operation name. Clients send
// mixed case ("Addition"); storage is always lowercase.
func NormalizeCalculationType(raw string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	switch CalculationType(normalized) {
	case CalculationTypeAddition, CalculationTypeSubtraction,
		CalculationTypeMultiplication, CalculationTypeDivision:
		return normalized, nil
	}
	return "", fmt.Errorf("unsupported calculation type: %s", raw)
}

// EvaluateCalculation computes the result over the operand list. decimal keeps the
// intermediate arithmetic exact; only the stored result is a float.
func EvaluateCalculation(calcType string, inputs []float64) (float64, error) {
	if len(inputs) == 0 {
		return 0, errors.New("at least one operand is required")
	}

	acc := decimal.NewFromFloat(inputs[0])
	for _, operand := range inputs[1:] {
		d := decimal.NewFromFloat(operand)
		switch CalculationType(calcType) {
		case CalculationTypeAddition:
			acc = acc.Add(d)
		case CalculationTypeSubtraction:
			acc = acc.Sub(d)
		case CalculationTypeMultiplication:
			acc = acc.Mul(d)
		case CalculationTypeDivision:
			if d.IsZero() {
				return 0, utils.ErrorDivisionByZero
			}
			acc = acc.Div(d)
		default:
			return 0, fmt.Errorf("unsupported calculation type: %s", calcType)
		}
	}

	result, _ := acc.Float64()
	return result, nil
}

func CreateCalculation(ctx context.Context, input *NewCalculation) (*Calculation, error) {

	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, errors.New("user id is required")
	}

	calcType, err := NormalizeCalculationType(input.Type)
	if err != nil {
		return nil, err
	}

	result, err := EvaluateCalculation(calcType, input.Inputs)
	if err != nil {
		return nil, err
	}

	inputsInByte, err := json.Marshal(input.Inputs)
	if err != nil {
		return nil, err
	}

	calc := Calculation{
		ID:     uuid.NewString(),
		UserId: userId,
		Type:   calcType,
		Inputs: inputsInByte,
		Result: result,
	}

	if err := db.WithContext(ctx).Create(&calc).Error; err != nil {
		return nil, err
	}
	if err := calc.RemoveInstanceRedis(); err != nil {
		return nil, err
	}
	return &calc, nil
}

func GetAllCalculations(ctx context.Context) ([]*CalculationResponse, error) {

	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, errors.New("user id is required")
	}

	var calcs []*Calculation
	if err := db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC, id ASC").
		Find(&calcs).Error; err != nil {
		return nil, err
	}

	results := make([]*CalculationResponse, 0, len(calcs))
	for _, calc := range calcs {
		results = append(results, calc.Response())
	}
	return results, nil
}

func GetCalculation(ctx context.Context, id string) (*Calculation, error) {

	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, errors.New("user id is required")
	}

	var calc Calculation
	// Scoping by user_id makes another user's record indistinguishable from a missing one.
	err := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userId).First(&calc).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &calc, nil
}

func UpdateCalculation(ctx context.Context, id string, input *NewCalculation) (*Calculation, error) {

	db := config.GetDB()

	calc, err := GetCalculation(ctx, id)
	if err != nil {
		return nil, err
	}

	// Best-effort lock around the read-modify-write; a lost race only costs one of
	// two concurrent edits, so lock failures never block the update.
	if redisLock := config.GetRedisLock(); redisLock != nil {
		lock, lockErr := redisLock.Obtain(ctx, "lock:calculation:"+id, 10*time.Second, nil)
		if lockErr == nil {
			defer func() {
				if releaseErr := lock.Release(ctx); releaseErr != nil && releaseErr != redislock.ErrLockNotHeld {
					config.LogError(config.GetLogger(), "calculation.go", "UpdateCalculation", "lock.Release", id, releaseErr)
				}
			}()
		}
	}

	calcType, err := NormalizeCalculationType(input.Type)
	if err != nil {
		return nil, err
	}
	result, err := EvaluateCalculation(calcType, input.Inputs)
	if err != nil {
		return nil, err
	}
	inputsInByte, err := json.Marshal(input.Inputs)
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Model(&calc).Updates(map[string]interface{}{
		"type":   calcType,
		"inputs": inputsInByte,
		"result": result,
	}).Error; err != nil {
		return nil, err
	}
	if err := calc.RemoveInstanceRedis(); err != nil {
		return nil, err
	}
	return calc, nil
}

func DeleteCalculation(ctx context.Context, id string) (*Calculation, error) {

	db := config.GetDB()

	calc, err := GetCalculation(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Delete(&calc).Error; err != nil {
		return nil, err
	}
	if err := calc.RemoveInstanceRedis(); err != nil {
		return nil, err
	}
	return calc, nil
}
