// Package validation wraps go-playground/validator with the rules shared by
// expense drafts, account registration and imported trip documents.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/ledger"
)

// ErrValidatorInit is returned when a custom rule cannot be registered.
var ErrValidatorInit = errors.New("validator initialization failed")

var maxAmount = decimal.NewFromInt(ledger.MaxAmount)

var (
	validate     *validator.Validate
	validateOnce sync.Once
	errValidate  error
)

func initValidator() (*validator.Validate, error) {
	vld := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names in field paths.
	vld.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// String amounts that parse as a decimal in [0, ledger.MaxAmount].
	if err := vld.RegisterValidation("nonnegative_amount", func(fl validator.FieldLevel) bool {
		str := strings.TrimSpace(fl.Field().String())
		if str == "" {
			return true // Let required handle empty strings
		}
		d, err := decimal.NewFromString(str)
		if err != nil {
			return false
		}
		return !d.IsNegative() && !d.GreaterThan(maxAmount)
	}); err != nil {
		return nil, fmt.Errorf("%w: failed to register 'nonnegative_amount': %w", ErrValidatorInit, err)
	}

	if err := vld.RegisterValidation("split_mode", func(fl validator.FieldLevel) bool {
		return ledger.SplitMode(fl.Field().String()).Valid()
	}); err != nil {
		return nil, fmt.Errorf("%w: failed to register 'split_mode': %w", ErrValidatorInit, err)
	}

	return vld, nil
}

// Get returns the shared validator instance.
func Get() (*validator.Validate, error) {
	validateOnce.Do(func() {
		validate, errValidate = initValidator()
	})
	return validate, errValidate
}

// Issue is a single failed rule.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// Error lists every failed rule of one struct.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	lines := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		lines[i] = issue.String()
	}
	return strings.Join(lines, "\n")
}

// Struct validates v. It returns nil or an *Error describing every failure.
func Struct(v any) error {
	vld, err := Get()
	if err != nil {
		return err
	}

	if err := vld.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		out := &Error{Issues: make([]Issue, 0, len(verrs))}
		for _, fe := range verrs {
			out.Issues = append(out.Issues, Issue{Path: fieldPath(fe), Message: message(fe)})
		}
		return out
	}
	return nil
}

// fieldPath drops the root struct name: "Document.sessions[0].name" becomes
// "sessions[0].name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "eq":
		return "must be " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "nonnegative_amount":
		return "must be an amount between 0 and " + maxAmount.String()
	case "split_mode":
		return "must be one of equal, exact"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
