package app

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	validatorV10 "github.com/go-playground/validator/v10"
)

// TransKey holds the ut.Translator of the request in gin.Context.
const TransKey = "trans"

type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// ErrorsToString joins every message, used as response details.
func (v ValidErrors) ErrorsToString() string {
	return strings.Join(v.Errors(), ", ")
}

// Maps groups messages by field name.
func (v ValidErrors) Maps() map[string][]string {
	out := make(map[string][]string, len(v))
	for _, err := range v {
		out[err.Key] = append(out[err.Key], err.Message)
	}
	return out
}

// MapsToString 按字段输出错误，字段多条错误以 ; 连接
func (v ValidErrors) MapsToString() map[string]string {
	out := make(map[string]string, len(v))
	for key, msgs := range v.Maps() {
		out[key] = strings.Join(msgs, "; ")
	}
	return out
}

// BindAndValid binds the request by its content type and validates it.
// Validation messages are translated with the translator of the request.
func BindAndValid(c *gin.Context, v interface{}) (bool, ValidErrors) {
	var errs ValidErrors
	err := c.ShouldBind(v)
	if err == nil {
		return true, nil
	}

	var verrs validatorV10.ValidationErrors
	if !errors.As(err, &verrs) {
		errs = append(errs, &ValidError{Key: "__all__", Message: err.Error()})
		return false, errs
	}

	var trans ut.Translator
	if t, ok := c.Get(TransKey); ok {
		trans, _ = t.(ut.Translator)
	}

	for _, e := range verrs {
		msg := e.Error()
		if trans != nil {
			msg = e.Translate(trans)
		}
		errs = append(errs, &ValidError{Key: e.Field(), Message: msg})
	}
	return false, errs
}
