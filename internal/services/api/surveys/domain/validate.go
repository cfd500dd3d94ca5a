package domain

import (
	"fishdash/internal/core/survey"
	"fishdash/internal/platform/net/http/bind"
)

func init() {
	// status labels are a closed set, unlike query selectors
	_ = bind.RegisterValidation("survey_status", func(fl bind.FieldLevel) bool {
		_, err := survey.ParseStatus(fl.Field().String())
		return err == nil
	}, "{0} must be a survey status (submitted in_review flagged approved rejected)")
}
