// Package ids genera identificadores opacos del lado cliente, antes de la primera escritura.
package ids

import "github.com/google/uuid"

// Generator permite inyectar ids deterministas en tests.
type Generator func() string

// New devuelve un UUID v4 en texto.
func New() string {
	return uuid.NewString()
}
