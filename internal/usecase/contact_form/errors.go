package contact_form

import "errors"

var (
	// ErrValidationFailed возвращается, когда хотя бы одно обязательное поле не прошло проверку
	ErrValidationFailed = errors.New("contact_form: validation failed")

	// ErrUnknownField возвращается при неизвестном имени поля
	ErrUnknownField = errors.New("contact_form: unknown field")

	// ErrUnknownVariant возвращается при неизвестном варианте набора полей
	ErrUnknownVariant = errors.New("contact_form: unknown contact variant")
)

// ValidationError несет ошибки по полям; errors.Is(err, ErrValidationFailed) == true
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return ErrValidationFailed.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
