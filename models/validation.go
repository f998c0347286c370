package models

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// 錯誤欄位名稱使用json tag，與API請求欄位一致
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// 驗證struct並一次回傳所有失敗欄位，通過時回傳空map
func ValidateStruct(s interface{}) map[string]string {
	errs := map[string]string{}

	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["request"] = "Invalid request"
		return errs
	}

	for _, fieldError := range validationErrors {
		errs[fieldError.Field()] = validationMessage(fieldError)
	}
	return errs
}

func validationMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Must be at least " + fieldError.Param() + " characters"
	case "max":
		return "Must be at most " + fieldError.Param() + " characters"
	case "oneof":
		return "Must be one of: " + fieldError.Param()
	case "gte":
		return "Must be greater than or equal to " + fieldError.Param()
	default:
		return "Invalid value"
	}
}
