package util

import (
	"errors"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
	trans        ut.Translator
)

func getValidator() (*validator.Validate, ut.Translator) {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		english := en.New()
		uni := ut.New(english, english)
		trans, _ = uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
	})
	return validate, trans
}

// ValidateStruct returns english messages for every failed validate tag of s, nil if s is valid.
func ValidateStruct(s any) ([]string, error) {
	v, trans := getValidator()
	err := v.Struct(s)
	if err == nil {
		return nil, nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, err
	}
	return translateError(validationErrs, trans), nil
}

func translateError(validationErrs validator.ValidationErrors, trans ut.Translator) []string {
	errs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		errs = append(errs, e.Translate(trans))
	}
	return errs
}

// ValidationError wraps failed validations with ErrBadParamInput.
func ValidationError(orig error, messages []string) error {
	return WrapErrorf(orig, ErrBadParamInput, "validation error: %v", messages)
}
