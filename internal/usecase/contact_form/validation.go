package contact_form

import (
	"regexp"
	"strings"
)

const (
	msgNameRequired  = "введите имя"
	msgEmailRequired = "введите адрес электронной почты"
	msgEmailInvalid  = "введите корректный адрес электронной почты"
	msgPhoneRequired = "введите номер телефона"
	msgPhoneInvalid  = "введите корректный номер мобильного телефона (11 цифр, начинается с 070, 080 или 090)"
)

var (
	// local@domain.tld: непустые части вокруг одной "@" и хотя бы одна точка в домене
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// 11-значный мобильный номер: 070, 080 или 090 и еще 8 цифр
	phonePattern = regexp.MustCompile(`^0[789]0\d{8}$`)

	phoneSeparators = strings.NewReplacer("-", "", " ", "", "　", "")
)

// Validate синхронно проверяет форму. Пустой результат - форма валидна.
// Заметка (Note) никогда не проверяется.
func Validate(form Form, variant Variant) FieldErrors {
	errs := make(FieldErrors)

	if strings.TrimSpace(form.Name) == "" {
		errs[FieldName] = msgNameRequired
	}

	if variant.RequiresEmail() {
		if msg := validateEmail(form.Email); msg != "" {
			errs[FieldEmail] = msg
		}
	}

	if variant.RequiresPhone() {
		if msg := validatePhone(form.Phone); msg != "" {
			errs[FieldPhone] = msg
		}
	}

	return errs
}

// Check валидирует форму и возвращает *ValidationError, если есть ошибки
func Check(form Form, variant Variant) error {
	if errs := Validate(form, variant); errs.HasErrors() {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// NormalizePhone убирает дефисы и пробелы из номера
func NormalizePhone(phone string) string {
	return phoneSeparators.Replace(strings.TrimSpace(phone))
}

func validateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return msgEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return msgEmailInvalid
	}
	return ""
}

func validatePhone(phone string) string {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return msgPhoneRequired
	}
	if !phonePattern.MatchString(normalized) {
		return msgPhoneInvalid
	}
	return ""
}
