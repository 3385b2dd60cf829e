package config

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	envparser "github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

const postgresScheme = "postgresql://"

var (
	rules = newRuleValidator()

	// field name -> env key, env key -> declaration index
	fieldKeys, fieldOrder = schemaFields()
)

func newRuleValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("env")
	})
	return v
}

func schemaFields() (map[string]string, map[string]int) {
	typ := reflect.TypeOf(Config{})
	keys := make(map[string]string, typ.NumField())
	order := make(map[string]int, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		key := field.Tag.Get("env")
		keys[field.Name] = key
		order[key] = i
	}
	return keys, order
}

// Validate binds env onto Config and checks every rule. It never reads the
// process environment. On failure the error is *ValidationError listing all
// violations in schema order.
func Validate(env Environment) (Config, error) {
	if env == nil {
		env = Environment{}
	}

	var cfg Config
	var violations []Violation
	failed := make(map[string]bool)

	if err := envparser.ParseWithOptions(&cfg, envparser.Options{Environment: env}); err != nil {
		coerced, err := coercionViolations(err, env)
		if err != nil {
			return Config{}, err
		}
		for _, v := range coerced {
			failed[v.Field] = true
		}
		violations = append(violations, coerced...)
	}

	if err := rules.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return Config{}, fmt.Errorf("check rules: %w", err)
		}
		for _, fe := range fieldErrs {
			if failed[fe.Field()] {
				continue
			}
			failed[fe.Field()] = true
			violations = append(violations, ruleViolation(fe))
		}
	}

	violations = append(violations, crossFieldViolations(cfg, failed)...)

	if len(violations) > 0 {
		slices.SortStableFunc(violations, func(a, b Violation) int {
			return cmp.Compare(fieldOrder[a.Field], fieldOrder[b.Field])
		})
		return Config{}, &ValidationError{Violations: violations}
	}

	return cfg, nil
}

func coercionViolations(err error, env Environment) ([]Violation, error) {
	var agg envparser.AggregateError
	if !errors.As(err, &agg) {
		return nil, fmt.Errorf("bind environment: %w", err)
	}

	out := make([]Violation, 0, len(agg.Errors))
	for _, e := range agg.Errors {
		var parseErr envparser.ParseError
		if !errors.As(e, &parseErr) {
			return nil, fmt.Errorf("bind environment: %w", e)
		}
		key := fieldKeys[parseErr.Name]
		out = append(out, Violation{
			Field:   key,
			Kind:    KindCoercion,
			Message: fmt.Sprintf("expected %s, received %q", typeLabel(parseErr.Type), env[key]),
		})
	}
	return out, nil
}

func typeLabel(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	default:
		return t.String()
	}
}

func ruleViolation(fe validator.FieldError) Violation {
	v := Violation{Field: fe.Field()}

	switch ruleName(fe.Tag()) {
	case "required":
		v.Kind = KindMissing
		v.Message = "is required"
	case "oneof":
		v.Kind = KindEnum
		v.Message = fmt.Sprintf("must be one of %s, received %q",
			strings.Join(strings.Fields(fe.Param()), ", "), fmt.Sprint(fe.Value()))
	case "startswith":
		v.Kind = KindFormat
		v.Message = "must start with mongodb:// or postgresql://"
	case "min", "max", "gt", "gte", "lt", "lte":
		if fe.Kind() == reflect.String {
			v.Kind = KindLength
			v.Message = fmt.Sprintf("must be at least %s characters long", fe.Param())
			break
		}
		v.Kind = KindRange
		v.Message = boundMessage(ruleName(fe.Tag()), fe.Param())
	default:
		v.Kind = KindFormat
		v.Message = fmt.Sprintf("failed %q rule", fe.Tag())
	}
	return v
}

// ruleName strips parameters and alternatives: "startswith=a|startswith=b" -> "startswith".
func ruleName(tag string) string {
	if i := strings.IndexAny(tag, "=|"); i >= 0 {
		return tag[:i]
	}
	return tag
}

func boundMessage(rule, param string) string {
	switch rule {
	case "min", "gte":
		return "must be greater than or equal to " + param
	case "max", "lte":
		return "must be less than or equal to " + param
	case "gt":
		return "must be greater than " + param
	default:
		return "must be less than " + param
	}
}

func crossFieldViolations(cfg Config, failed map[string]bool) []Violation {
	if !strings.HasPrefix(cfg.DatabaseURL, postgresScheme) {
		return nil
	}

	var out []Violation
	required := []struct {
		key   string
		value string
	}{
		{"JWT_SECRET", cfg.JWTSecret},
		{"JWT_EXPIRES_IN", cfg.JWTExpiresIn},
	}
	for _, field := range required {
		if field.value != "" || failed[field.key] {
			continue
		}
		out = append(out, Violation{
			Field:   field.key,
			Kind:    KindCrossField,
			Message: "is required when DATABASE_URL uses " + postgresScheme,
		})
	}
	return out
}
