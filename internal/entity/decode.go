package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeStrict decodes data into dst after checking that every top-level key
// is in known and not null, then validates required fields.
func decodeStrict(entity string, data []byte, known map[string]bool, dst any) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return &DecodeError{Entity: entity, Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}
	if keys == nil {
		return &DecodeError{Entity: entity, Err: fmt.Errorf("%w: document is null", ErrDecode)}
	}

	var unknown []string
	for k := range keys {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &DecodeError{Entity: entity, Key: unknown[0], Err: ErrUnknownField}
	}

	// A null value cannot be told apart from an absent key once decoded.
	var nulls []string
	for k, v := range keys {
		if string(v) == "null" {
			nulls = append(nulls, k)
		}
	}
	if len(nulls) > 0 {
		sort.Strings(nulls)
		return &DecodeError{Entity: entity, Key: nulls[0], Err: fmt.Errorf("%w: null value", ErrDecode)}
	}

	if err := json.Unmarshal(data, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &DecodeError{Entity: entity, Key: typeErr.Field, Err: fmt.Errorf("%w: %v", ErrDecode, err)}
		}
		if errors.Is(err, ErrMissingField) {
			return &DecodeError{Entity: entity, Err: err}
		}
		return &DecodeError{Entity: entity, Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &DecodeError{Entity: entity, Key: verrs[0].Field(), Err: ErrMissingField}
		}
		return &DecodeError{Entity: entity, Err: err}
	}
	return nil
}
