package dto

type CrearClienteRequest struct {
	Nombre   string  `json:"nombre"   validate:"required,min=2"`
	Telefono *string `json:"telefono"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

type ActualizarClienteRequest struct {
	Nombre   *string `json:"nombre"   validate:"omitempty,min=2"`
	Telefono *string `json:"telefono"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

type ClienteResponse struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Telefono *string `json:"telefono,omitempty"`
	Email    *string `json:"email,omitempty"`
	Activo   bool    `json:"activo"`
}
