package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/weiwangfds/noteapi/internal/errors"
)

// bindError 把请求绑定失败转换为带字段详情的校验错误
// 例如 Title的required规则失败 -> {"title": "is required"}
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Validation("malformed request body").WithDetails(err.Error())
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldName(fe)] = ruleMessage(fe)
	}
	return apperrors.Validation("request validation failed").WithFields(fields)
}

// fieldName 使用json风格的小写字段名，保留dive产生的下标，如 tags[2]
func fieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
}
