package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// Provider es el contrato esperado del servicio externo de identidad.
// Todas las fallas del proveedor llegan como *Error con un código conocido.
type Provider interface {
	AuthVerifier

	SignUp(ctx context.Context, email, password string) (Credential, error)
	SignIn(ctx context.Context, email, password string) (Credential, error)
	// SignOut invalida el token (si el proveedor lo soporta).
	SignOut(ctx context.Context, idToken string) error
	SendPasswordReset(ctx context.Context, email string) error
	UpdateProfile(ctx context.Context, idToken string, upd ProfileUpdate) (User, error)
	// Lookup devuelve el usuario dueño del token.
	Lookup(ctx context.Context, idToken string) (User, error)
}
