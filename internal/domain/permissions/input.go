package permissions

import "hrmconsole/internal/platform/validation"

var inputMessages = validation.Messages{
	"code.notblank": "El código es requerido",
	"code.max":      "El código no puede exceder 100 caracteres",
	"name.notblank": "El nombre es requerido",
	"name.max":      "El nombre no puede exceder 100 caracteres",
	"description":   "La descripción no puede exceder 255 caracteres",
	"category":      "La categoría no puede exceder 50 caracteres",
}

func (in Input) Validate() error {
	return validation.Check(in, inputMessages)
}
