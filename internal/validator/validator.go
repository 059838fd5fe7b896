// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/ledger"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
)

// validCurrencies contains the ISO 4217 codes parks may keep their books in.
var validCurrencies = map[string]bool{
	"AUD": true, "BIF": true, "BWP": true, "CAD": true, "CDF": true,
	"CHF": true, "CNY": true, "EGP": true, "ETB": true, "EUR": true,
	"GBP": true, "GHS": true, "INR": true, "JPY": true, "KES": true,
	"MAD": true, "MWK": true, "MZN": true, "NAD": true, "NGN": true,
	"NZD": true, "RWF": true, "SEK": true, "SSP": true, "TZS": true,
	"UGX": true, "USD": true, "XAF": true, "XOF": true, "ZAR": true,
	"ZMW": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators and the decimal type on v.
func RegisterOn(v *validator.Validate) {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	_ = v.RegisterValidation("iso4217", validateISO4217)
	_ = v.RegisterValidation("role", validateRole)
	_ = v.RegisterValidation("budget_status", validateBudgetStatus)
	_ = v.RegisterValidation("request_status", validateRequestStatus)
	_ = v.RegisterValidation("audit_status", validateAuditStatus)
	_ = v.RegisterValidation("audit_progress", validateAuditProgress)
	_ = v.RegisterValidation("funding_type", validateFundingType)
	_ = v.RegisterValidation("fiscal_year", validateFiscalYear)
	_ = v.RegisterValidation("money_positive", validateMoneyPositive)
	_ = v.RegisterValidation("money_nonneg", validateMoneyNonNegative)
	_ = v.RegisterValidation("alloc_percentage", validateAllocPercentage)
	_ = v.RegisterValidation("stream_percentage", validateStreamPercentage)
}

// decimalValue exposes decimals to validator tags as their string form.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func fieldDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(fl.Field().String())
	return d, err == nil
}

func validateISO4217(fl validator.FieldLevel) bool {
	return validCurrencies[fl.Field().String()]
}

func validateRole(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).IsValid()
}

func validateBudgetStatus(fl validator.FieldLevel) bool {
	return models.BudgetStatus(fl.Field().String()).IsValid()
}

func validateRequestStatus(fl validator.FieldLevel) bool {
	return models.RequestStatus(fl.Field().String()).IsValid()
}

func validateAuditStatus(fl validator.FieldLevel) bool {
	return models.AuditStatus(fl.Field().String()).IsValid()
}

func validateAuditProgress(fl validator.FieldLevel) bool {
	return models.AuditProgress(fl.Field().String()).IsValid()
}

func validateFundingType(fl validator.FieldLevel) bool {
	return models.FundingRequestType(fl.Field().String()).IsValid()
}

func validateFiscalYear(fl validator.FieldLevel) bool {
	return ledger.ValidateFiscalYear(int(fl.Field().Int())) == nil
}

func validateMoneyPositive(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && ledger.ValidatePositive(d) == nil
}

func validateMoneyNonNegative(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && ledger.ValidateNonNegative(d) == nil
}

func validateAllocPercentage(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && ledger.ValidatePercentage(d) == nil
}

func validateStreamPercentage(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && ledger.ValidateStreamPercentage(d) == nil
}
