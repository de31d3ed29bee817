package accounts

import (
	"context"
	"sync"

	"nyanpass/internal/ports/auth"
)

// StateListener recibe el usuario actual, o ok=false cuando no hay sesión.
type StateListener func(user auth.User, ok bool)

// Session guarda el estado de un dispositivo: credencial vigente y suscriptores.
// Se construye por cliente; nunca es global.
type Session struct {
	svc *Service

	mu        sync.Mutex
	cred      *auth.Credential
	listeners map[uint64]StateListener
	nextID    uint64
}

func (s *Service) NewSession() *Session {
	return &Session{svc: s, listeners: map[uint64]StateListener{}}
}

func (s *Session) Register(ctx context.Context, email, password string) (auth.User, error) {
	cred, err := s.svc.Register(ctx, email, password)
	if err != nil {
		return auth.User{}, err
	}
	s.set(&cred)
	return cred.User, nil
}

func (s *Session) Login(ctx context.Context, email, password string) (auth.User, error) {
	cred, err := s.svc.Login(ctx, email, password)
	if err != nil {
		return auth.User{}, err
	}
	s.set(&cred)
	return cred.User, nil
}

// Restore retoma una sesión a partir de un token guardado.
func (s *Session) Restore(ctx context.Context, idToken string) (auth.User, error) {
	u, err := s.svc.CurrentUser(ctx, idToken)
	if err != nil {
		return auth.User{}, err
	}
	s.set(&auth.Credential{User: u, IDToken: idToken})
	return u, nil
}

// Logout limpia la sesión local aunque el proveedor falle.
func (s *Session) Logout(ctx context.Context) error {
	token := s.IDToken()
	if token == "" {
		return ErrNoCurrentUser
	}
	err := s.svc.Logout(ctx, token)
	s.set(nil)
	return err
}

func (s *Session) UpdateProfile(ctx context.Context, upd auth.ProfileUpdate) (auth.User, error) {
	token := s.IDToken()
	if token == "" {
		return auth.User{}, ErrNoCurrentUser
	}
	u, err := s.svc.UpdateProfile(ctx, token, upd)
	if err != nil {
		return auth.User{}, err
	}

	s.mu.Lock()
	if s.cred != nil && s.cred.User.ID == u.ID {
		s.cred.User = u
	}
	s.mu.Unlock()
	return u, nil
}

func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred != nil
}

// CurrentUserData devuelve {id, email, displayName, photoURL} o ok=false.
func (s *Session) CurrentUserData() (auth.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred == nil {
		return auth.User{}, false
	}
	return s.cred.User, true
}

// UserID es la identidad explícita que reciben los servicios de datos.
func (s *Session) UserID() (string, bool) {
	u, ok := s.CurrentUserData()
	return u.ID, ok
}

func (s *Session) IDToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred == nil {
		return ""
	}
	return s.cred.IDToken
}

// OnAuthStateChange llama a fn ya mismo con el estado actual y después en cada
// login/logout. La función devuelta desuscribe; llamarla más de una vez no hace nada.
func (s *Session) OnAuthStateChange(fn StateListener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	user, ok := s.current()
	s.mu.Unlock()

	fn(user, ok)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// set cambia la credencial y notifica fuera del lock.
func (s *Session) set(cred *auth.Credential) {
	s.mu.Lock()
	s.cred = cred
	user, ok := s.current()
	listeners := make([]StateListener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(user, ok)
	}
}

func (s *Session) current() (auth.User, bool) {
	if s.cred == nil {
		return auth.User{}, false
	}
	return s.cred.User, true
}
