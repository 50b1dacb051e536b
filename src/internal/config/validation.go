package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_if":
		return "field is required"
	case "min":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "max":
		return fmt.Sprintf("must be <= %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "hostname_port":
		return "must be in format 'host:port'"
	case "iface_name":
		return "must be \"all\" or an interface name such as eth0 or eth0:1"
	case "host_label":
		return "must be a single DNS label (letters, digits and hyphens)"
	case "service_type":
		return "must be a DNS-SD service type such as _ssh._tcp"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	ItemName  string // Optional name of the item the error belongs to
	FieldPath string // Dot-notation field path (e.g., "registration.lease_time_sec")
	Message   string // Human-readable error message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(ve)))
	for i, err := range ve {
		if err.ItemName != "" {
			sb.WriteString(fmt.Sprintf("  %d. [%s] %s: %s\n", i+1, err.ItemName, err.FieldPath, err.Message))
		} else {
			sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.FieldPath, err.Message))
		}
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validators
	if err := validate.RegisterValidation("iface_name", validateIfaceName); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("host_label", validateHostLabel); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("service_type", validateServiceType); err != nil {
		panic(err)
	}

	// Register function to get field name from "toml" tag
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validator: "all" or a Linux interface name, optionally with an alias suffix
func validateIfaceName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return name == AllInterfaces || ifaceNameRegexp.MatchString(name)
}

// Custom validator: single DNS label
func validateHostLabel(fl validator.FieldLevel) bool {
	return hostLabelRegexp.MatchString(fl.Field().String())
}

// Custom validator: DNS-SD service type
func validateServiceType(fl validator.FieldLevel) bool {
	return serviceTypeRegexp.MatchString(fl.Field().String())
}
