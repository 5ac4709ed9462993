// Package validate wraps go-playground/validator with English messages keyed
// by the serialized field name.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	once  sync.Once
	v     *govalidator.Validate
	trans ut.Translator
)

func setup() {
	v = govalidator.New(govalidator.WithRequiredStructEnabled())

	// Prefer yaml names (mode files), then json names (bank files).
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"yaml", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		panic(fmt.Sprintf("validate: register english translations: %v", err))
	}
}

// Struct validates s and returns a *Error describing every failed field,
// or nil.
func Struct(s any) error {
	once.Do(setup)
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	return TranslateErrors(err)
}

// Error is a validation failure with one message per field namespace.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// TranslateErrors converts a validator error into *Error. Errors that are
// not validation errors are returned unchanged.
func TranslateErrors(err error) error {
	once.Do(setup)

	var ve govalidator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		fields[ns] = fmt.Sprintf("%s: %s", ns, fe.Translate(trans))
	}
	return &Error{Fields: fields}
}
