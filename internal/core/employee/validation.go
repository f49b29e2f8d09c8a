package employee

import (
	"math"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var uuidPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-(?:[0-9a-f]{4}-){3}[0-9a-f]{12}$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 登録に失敗するのはタグ名が空の場合のみ
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("nonzero", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return f != 0 && !math.IsNaN(f)
	})
	return v
}

// IsValidID は id が 8-4-4-4-12 形式の 16 進 UUID 文字列かを判定します。
func IsValidID(id string) bool {
	return uuidPattern.MatchString(id)
}

func (s *Service) validateFields(in Fields) error {
	if err := s.validate.Struct(in); err != nil {
		return missingFields()
	}
	return nil
}
