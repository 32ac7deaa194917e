// Package command contains the write operations of the tracker. Each command
// is validated, applied to the session state and then persisted.
package command

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alem-hub/score-tracker/internal/domain/shared"
	"github.com/alem-hub/score-tracker/internal/domain/student"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

// messages maps "<Field>.<tag>" to the text shown to the user.
var messages = map[string]string{
	"StudentID.gte":   "Student ID must be at least 1.",
	"Name.notblank":   "Name cannot be empty.",
	"Score.finite":    "Score must be a finite number!",
	"Score.gte":       "Score cannot be negative!",
	"Type.notblank":   "Score type cannot be empty!",
	"Period.notblank": "Grading period cannot be empty!",
	"Period.oneof":    "Grading period must be one of Prelim, Midterm, Finals.",
	"Index.gte":       "Score index must be at least 1.",
}

// validateCommand checks the struct tags of cmd. The first failing field
// decides the message.
func validateCommand(op string, cmd any) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		msg, ok := messages[fe.StructField()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid (%s)", fe.StructField(), fe.Tag())
		}
		return shared.WrapError("command", op, shared.ErrValidation, msg, err)
	}
	return shared.WrapError("command", op, shared.ErrValidation, err.Error(), err)
}

// canonicalPeriod maps a case variant of a standard period onto it.
func canonicalPeriod(p student.Period) student.Period {
	trimmed := strings.TrimSpace(string(p))
	for _, std := range student.Periods() {
		if strings.EqualFold(trimmed, string(std)) {
			return std
		}
	}
	return student.Period(trimmed)
}
