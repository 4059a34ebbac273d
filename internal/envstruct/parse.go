// Package envstruct populates configuration structs from environment
// variables declared with `env` and `envDefault` struct tags.
package envstruct

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

var (
	ErrEnvNotSet    = errors.New("environment variable not set")
	ErrInvalidValue = errors.New("v must be a pointer to a struct")
)

// Populate fills the fields of the pointer to struct v with values from the
// environment.
//
// lookupEnv has the same signature as [os.LookupEnv]. Fields must be tagged
// with `env:"ENV_VAR"`. When the variable is unset, the `envDefault` tag is
// used; without one, ErrEnvNotSet is returned. Supported field types are
// string, bool, int, float64, and time.Duration.
func Populate(v any, lookupEnv func(string) (string, bool)) error {
	ptrRef := reflect.ValueOf(v)
	if ptrRef.Kind() != reflect.Ptr {
		return fmt.Errorf("%w: not pointer: %v", ErrInvalidValue, v)
	}
	ref := ptrRef.Elem()
	if ref.Kind() != reflect.Struct {
		return fmt.Errorf("%w: not struct: %v", ErrInvalidValue, v)
	}

	refType := ref.Type()

	var errorList []error
	for i := range refType.NumField() {
		refField := ref.Field(i)
		refTypeField := refType.Field(i)
		tag := refTypeField.Tag

		envVarName, ok := tag.Lookup("env")
		if !ok {
			continue
		}

		if !refField.CanSet() {
			errorList = append(errorList, fmt.Errorf("%w: cannot set field: %s",
				ErrInvalidValue, refTypeField.Name))
			continue
		}

		val, err := envLookupWithFallback(envVarName, tag, lookupEnv)
		if err != nil {
			errorList = append(errorList, err)
			continue
		}

		if err = setField(refField, val); err != nil {
			errorList = append(errorList, fmt.Errorf("field %s from %s: %w",
				refTypeField.Name, envVarName, err))
		}
	}

	return errors.Join(errorList...)
}

// envLookupWithFallback looks up the environment variable and falls back to
// the envDefault tag when it is unset.
func envLookupWithFallback(
	envVarName string,
	tag reflect.StructTag,
	lookupEnv func(string) (string, bool),
) (string, error) {
	if val, ok := lookupEnv(envVarName); ok {
		return val, nil
	}
	if val, ok := tag.Lookup("envDefault"); ok {
		return val, nil
	}
	return "", fmt.Errorf("%w: %s", ErrEnvNotSet, envVarName)
}

// setField converts val to the field's type and assigns it.
func setField(field reflect.Value, val string) error {
	// time.Duration is an int64 kind, so check the concrete type first.
	if field.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", val, err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(val)
	case reflect.Bool:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("parse bool %q: %w", val, err)
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("parse int %q: %w", val, err)
		}
		field.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("parse float %q: %w", val, err)
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("%w: unsupported field type %s", ErrInvalidValue, field.Kind())
	}
	return nil
}
