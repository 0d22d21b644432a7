package contact_form

import (
	"strings"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
)

// Field имя поля формы контактов
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldPhone Field = "phone"
	FieldNote  Field = "note"
)

// Variant набор обязательных контактных полей, зависит от развертывания
type Variant string

const (
	VariantEmail Variant = "email"
	VariantPhone Variant = "phone"
	VariantBoth  Variant = "both"
)

// Form сырые данные формы, как их ввел посетитель
type Form struct {
	Name  string
	Email string
	Phone string
	Note  string // Необязательное поле, никогда не валидируется
}

// FieldErrors ошибки валидации по полям (поле → сообщение)
type FieldErrors map[Field]string

// HasErrors возвращает true, если есть хотя бы одна ошибка
func (e FieldErrors) HasErrors() bool {
	return len(e) > 0
}

// Clear убирает ошибку поля - вызывается, как только посетитель снова редактирует поле
func (e FieldErrors) Clear(field Field) {
	delete(e, field)
}

// ToContactDetails конвертирует форму в контактные данные с обрезкой пробелов.
// Телефон нормализуется (без дефисов и пробелов).
func (f Form) ToContactDetails(variant Variant) domain.ContactDetails {
	details := domain.ContactDetails{
		Name: strings.TrimSpace(f.Name),
		Note: strings.TrimSpace(f.Note),
	}
	if variant.RequiresEmail() {
		details.Email = strings.TrimSpace(f.Email)
	}
	if variant.RequiresPhone() {
		details.Phone = NormalizePhone(f.Phone)
	}
	return details
}

// RequiresEmail возвращает true, если вариант требует email
func (v Variant) RequiresEmail() bool {
	return v == VariantEmail || v == VariantBoth
}

// RequiresPhone возвращает true, если вариант требует телефон
func (v Variant) RequiresPhone() bool {
	return v == VariantPhone || v == VariantBoth
}

// ParseField проверяет имя поля
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldName, FieldEmail, FieldPhone, FieldNote:
		return Field(s), nil
	default:
		return "", ErrUnknownField
	}
}

// ParseVariant проверяет вариант набора полей
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantEmail, VariantPhone, VariantBoth:
		return Variant(s), nil
	default:
		return "", ErrUnknownVariant
	}
}
