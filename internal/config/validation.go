// Package config provides configuration management for gamblebot.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)
	v.RegisterValidation("logdriver", validateLogDriver)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateLogDriver validates the prediction log backend name
func validateLogDriver(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "csv", "postgres", "sqlite":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Model.TDPriorFloor >= cfg.Model.TDPriorCeil {
		return fmt.Errorf("td_prior_floor must be below td_prior_ceil")
	}
	if cfg.Model.TDPriorCeil > cfg.Model.TouchdownCap {
		return fmt.Errorf("td_prior_ceil cannot exceed touchdown_cap")
	}
	if cfg.Model.SackPriorFloor >= cfg.Model.SackCap {
		return fmt.Errorf("sack_prior_floor must be below sack_cap")
	}

	if cfg.PredictionLog.Enabled {
		switch cfg.PredictionLog.Driver {
		case "postgres":
			if cfg.PredictionLog.DSN == "" {
				return fmt.Errorf("prediction_log.dsn is required for the postgres driver")
			}
		default:
			if cfg.PredictionLog.Path == "" {
				return fmt.Errorf("prediction_log.path is required for the %s driver", cfg.PredictionLog.Driver)
			}
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.TextfilePath == "" {
		return fmt.Errorf("metrics.textfile_path is required when metrics are enabled")
	}

	if cfg.IsProduction() && cfg.OddsAPIKey() == "" {
		return fmt.Errorf("production environment requires an odds API key")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "logdriver":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: csv, postgres, sqlite\n", field)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
