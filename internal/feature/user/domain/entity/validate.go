package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"account_backend/internal/shared/apperror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// max は文字数で数えるため、bcrypt の上限はバイト数で別に検査する
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= limit
	})
	return v
}

// Validate は作成・更新の両方で適用されるルールで u を検証します。
// 最初に失敗したフィールドを示す KindValidation の apperror を返します。
func Validate(u *User) error {
	if u == nil {
		return apperror.Validation("user is required")
	}
	err := validate.Struct(u)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperror.Wrap(apperror.KindValidation, "invalid user", err)
	}
	fe := fieldErrs[0]
	return apperror.Validation(fmt.Sprintf("%s %s", strings.ToLower(fe.Field()), ruleMessage(fe.Tag(), fe.Param())))
}

func ruleMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "maxbytes":
		return "must be at most " + param + " bytes"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
