package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/2HgO/chainrelief-go/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
)

// MaxBodyBytes caps request bodies; donation batches are the largest payload.
const MaxBodyBytes = 1 << 20

var Validator = NewStructValidator()
var queryBinder = schema.NewDecoder()

func init() {
	queryBinder.SetAliasTag("query")
	queryBinder.IgnoreUnknownKeys(true)
	queryBinder.RegisterConverter(decimal.Decimal{}, func(s string) reflect.Value {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(d)
	})
}

type structValidator struct {
	validator *validator.Validate
}

func (s *structValidator) Validate(v any) error {
	return s.validator.Struct(v)
}

func NewStructValidator() *structValidator {
	v := &structValidator{validator: validator.New()}

	v.validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"query", "uri", "header"} {
			if tag, ok := fld.Tag.Lookup(key); ok {
				return strings.SplitN(tag, ",", 2)[0]
			}
		}
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	// decimal amounts are compared numerically by gt/gte/lt/lte
	v.validator.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// bindStrings copies path values and headers into string fields tagged uri or header.
func bindStrings(r *http.Request, data any) error {
	t := reflect.TypeOf(data)
	switch {
	case t.Kind() != reflect.Pointer,
		t.Elem().Kind() != reflect.Struct:
		return errors.NewValidationError("invalid data type")
	}
	target := reflect.Indirect(reflect.ValueOf(data))
	for _, field := range reflect.VisibleFields(t.Elem()) {
		if !field.IsExported() || field.Type.Kind() != reflect.String {
			continue
		}
		if key, ok := field.Tag.Lookup("uri"); ok {
			target.FieldByIndex(field.Index).SetString(r.PathValue(key))
		}
		if key, ok := field.Tag.Lookup("header"); ok {
			target.FieldByIndex(field.Index).SetString(strings.TrimSpace(r.Header.Get(key)))
		}
	}
	return nil
}

func Bind[T any](r *http.Request) *T {
	if reflect.TypeFor[T]().Kind() != reflect.Struct {
		panic(errors.NewValidationError("invalid request type"))
	}
	data := new(T)
	if err := defaults.Set(data); err != nil {
		panic(errors.HandleBindError(err))
	}
	if err := r.ParseForm(); err != nil {
		panic(errors.HandleBindError(err))
	}
	if err := queryBinder.Decode(data, r.Form); err != nil {
		panic(errors.HandleBindError(err))
	}

	bodyData, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		panic(errors.HandleBindError(err))
	}
	if len(bodyData) > MaxBodyBytes {
		panic(errors.NewValidationError("request body too large"))
	}
	if len(bodyData) > 0 {
		if err = json.Unmarshal(bodyData, data); err != nil {
			panic(errors.HandleBindError(err))
		}
	}
	// path and header values win over anything the body tried to set
	if err = bindStrings(r, data); err != nil {
		panic(errors.HandleBindError(err))
	}

	if err = Validator.Validate(data); err != nil {
		panic(errors.HandleBindError(err))
	}

	return data
}
