package edit_form

// EditFieldRequest HTTP request model
type EditFieldRequest struct {
	Field string `json:"field"` // name | email | phone | note
	Value string `json:"value"`
}
