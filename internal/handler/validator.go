package handler

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// Trans 定义全局翻译器 (导出供 response.go 使用)
var Trans ut.Translator

// phonePattern 大陆手机号
var phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

// InitTrans 初始化翻译器并注册自定义校验规则
// locale 参数指定需要初始化的语言，例如 "zh" 或 "en"
func InitTrans(locale string) (err error) {
	// 在 Gin v1.9+ 中 binding.Validator 可能为 nil，需要先初始化
	if binding.Validator == nil {
		binding.Validator = &defaultValidator{validator: validator.New()}
	}

	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	// 报错信息使用 json tag，查询参数没有 json tag 时退回 form tag
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	if err = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}

	zhT := zh.New()
	enT := en.New()
	// 第一个参数是 fallback 语言
	uni := ut.New(enT, zhT, enT)

	Trans, ok = uni.GetTranslator(locale)
	if !ok {
		return fmt.Errorf("uni.GetTranslator(%s) failed", locale)
	}

	phoneMsg := "{0} must be a valid mobile number"
	switch locale {
	case "zh":
		err = zh_translations.RegisterDefaultTranslations(v, Trans)
		phoneMsg = "{0}必须是有效的手机号"
	default:
		err = en_translations.RegisterDefaultTranslations(v, Trans)
	}
	if err != nil {
		return err
	}

	return v.RegisterTranslation("phone", Trans,
		func(ut ut.Translator) error {
			return ut.Add("phone", phoneMsg, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("phone", fe.Field())
			return t
		},
	)
}

// RemoveTopStruct 去除提示信息中的结构体名称
// validator 返回的 key 形如 "RegisterRequest.email"
func RemoveTopStruct(fields map[string]string) map[string]string {
	res := make(map[string]string)
	for field, err := range fields {
		res[field[strings.Index(field, ".")+1:]] = err
	}
	return res
}

// defaultValidator 实现 binding.StructValidator，用于 binding.Validator 为空时兜底
type defaultValidator struct {
	validator *validator.Validate
}

func (v *defaultValidator) ValidateStruct(obj interface{}) error {
	return v.validator.Struct(obj)
}

func (v *defaultValidator) Engine() interface{} {
	return v.validator
}
