package rest

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// validationErrors flattens the field errors reported by ozzo-validation, if any.
func validationErrors(err error) map[string]string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}

	res := make(map[string]string, len(verrs))
	for field, ferr := range verrs {
		res[field] = ferr.Error()
	}

	return res
}
