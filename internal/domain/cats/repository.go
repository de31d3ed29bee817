package cats

import "context"

// Repository guarda perfiles bajo users/{uid}/cats. uid vacío falla con docstore.ErrNoIdentity.
type Repository interface {
	List(ctx context.Context, uid string) ([]Profile, error)
	Get(ctx context.Context, uid, id string) (Profile, error)
	// Add asigna el ID y devuelve el perfil guardado.
	Add(ctx context.Context, uid string, p Profile) (Profile, error)
	Update(ctx context.Context, uid string, p Profile) error
	// Delete borra también vacunas, alergias y tratamientos del gato.
	Delete(ctx context.Context, uid, id string) error
}
