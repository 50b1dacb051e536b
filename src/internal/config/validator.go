package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig validates the entire configuration and returns all validation errors
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	sections := []struct {
		name  string
		value interface{}
		isNil bool
	}{
		{"general", c.General, c.General == nil},
		{"registration", c.Registration, c.Registration == nil},
		{"discovery", c.Discovery, c.Discovery == nil},
		{"api", c.API, c.API == nil},
	}

	for _, section := range sections {
		if section.isNil {
			validationErrors = append(validationErrors, ValidationError{
				FieldPath: section.name,
				Message:   fmt.Sprintf("configuration must contain '%s' section", section.name),
			})
			continue
		}
		if err := validate.Struct(section.value); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, section.name, "")...)
		}
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	validationErrors = append(validationErrors, c.validateInterfaces()...)
	validationErrors = append(validationErrors, c.validateRegistration()...)

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

func (c *Config) validateInterfaces() ValidationErrors {
	var validationErrors ValidationErrors

	seenIfaces := make(map[string]bool)
	for _, iface := range c.General.Interfaces {
		if seenIfaces[iface] {
			validationErrors = append(validationErrors, ValidationError{
				FieldPath: "general.interfaces",
				Message:   fmt.Sprintf("duplicate interface: %s", iface),
			})
		}
		seenIfaces[iface] = true
	}

	if c.General.HasAllInterfaces() && len(c.General.Interfaces) > 1 {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "general.interfaces",
			Message:   "\"all\" cannot be combined with explicit interface names",
		})
	}

	return validationErrors
}

func (c *Config) validateRegistration() ValidationErrors {
	var validationErrors ValidationErrors

	if c.Registration.TTLShortSec > c.Registration.TTLLongSec {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "registration.ttl_short_sec",
			Message:   fmt.Sprintf("must not exceed ttl_long_sec (%d)", c.Registration.TTLLongSec),
		})
	}

	return validationErrors
}

// convertValidatorErrors converts go-playground/validator errors to our ValidationError format
func convertValidatorErrors(err error, fieldPrefix string, itemName string) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			fieldPath := fieldPrefix
			if e.Field() != "" {
				// e.Field() returns the TOML tag name because we registered TagNameFunc
				fieldName := e.Field()

				if fieldPrefix != "" {
					fieldPath = fieldPrefix + "." + fieldName
				} else {
					fieldPath = fieldName
				}
			}

			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fieldPath,
				Message:   getValidationMessage(e),
			})
		}
	}

	return validationErrors
}
