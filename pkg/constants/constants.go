package constants

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/go-playground/locales/en"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   = validator.New()
	Translator ut.Translator
)

func init() {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	Translator, _ = uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(Validate, Translator); err != nil {
		panic(err)
	}
}

type ContextKey int

const (
	AppKey ContextKey = iota
	PoolKey
	TxKey
	LoggerKey
	ParamsKey
	RequestStart
	SessionKey
	UserKey
	OrganizationIDKey
	MembershipKey
)
