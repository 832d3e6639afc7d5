// Package validator plugs go-playground/validator into gin binding and
// registers translations for every supported language.
package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/haierkeys/ya-note-service/pkg/util"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"
	validatorV10 "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	ru_translations "github.com/go-playground/validator/v10/translations/ru"
)

// CustomValidator implements binding.StructValidator.
type CustomValidator struct {
	once     sync.Once
	Validate *validatorV10.Validate
}

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

func (v *CustomValidator) ValidateStruct(obj interface{}) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	switch value.Kind() {
	case reflect.Ptr:
		if value.IsNil() {
			return nil
		}
		return v.ValidateStruct(value.Elem().Interface())
	case reflect.Struct:
		v.lazyinit()
		return v.Validate.Struct(obj)
	default:
		return nil
	}
}

func (v *CustomValidator) Engine() interface{} {
	v.lazyinit()
	return v.Validate
}

func (v *CustomValidator) lazyinit() {
	v.once.Do(func() {
		v.Validate = validatorV10.New()
		v.Validate.SetTagName("binding")
	})
}

var customMessages = map[string]map[string]string{
	"slug": {
		"en": "{0} may contain only latin letters, digits, hyphens and underscores",
		"ru": "{0} может содержать только латинские буквы, цифры, дефисы и подчёркивания",
	},
}

// Init installs the validator into gin and returns the translator set.
// Field names in messages come from json tags.
func Init() (*ut.UniversalTranslator, error) {
	customValidator := NewCustomValidator()
	validate := customValidator.Engine().(*validatorV10.Validate)
	binding.Validator = customValidator

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	if err := validate.RegisterValidation("slug", func(fl validatorV10.FieldLevel) bool {
		// surrounding whitespace is stripped later, a blank slug means "derive it"
		v := strings.TrimSpace(fl.Field().String())
		return v == "" || util.IsValidSlug(v)
	}); err != nil {
		return nil, err
	}

	uni := ut.New(en.New(), en.New(), ru.New())

	enTran, _ := uni.GetTranslator("en")
	ruTran, _ := uni.GetTranslator("ru")

	if err := en_translations.RegisterDefaultTranslations(validate, enTran); err != nil {
		return nil, err
	}
	if err := ru_translations.RegisterDefaultTranslations(validate, ruTran); err != nil {
		return nil, err
	}

	for tag, messages := range customMessages {
		for locale, text := range messages {
			trans, _ := uni.GetTranslator(locale)
			if err := registerMessage(validate, trans, tag, text); err != nil {
				return nil, err
			}
		}
	}

	return uni, nil
}

func registerMessage(validate *validatorV10.Validate, trans ut.Translator, tag, text string) error {
	return validate.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, text, true)
		},
		func(t ut.Translator, fe validatorV10.FieldError) string {
			msg, err := t.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}
