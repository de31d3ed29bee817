package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"nyanpass/internal/ports/auth"
)

// Operation agrupa los mensajes de auth: el mismo código se explica distinto
// según la pantalla (p.ej. user-not-found en login vs. en recuperar contraseña).
type Operation string

const (
	OpLogin    Operation = "login"
	OpRegister Operation = "register"
	OpReset    Operation = "reset"
	OpProfile  Operation = "profile"
)

// Claves genéricas.
const (
	MsgErrorSaving     = "error_saving"
	MsgErrorLoading    = "error_loading"
	MsgNotFound        = "not_found"
	MsgUnauthorized    = "unauthorized"
	MsgInvalidInput    = "invalid_input"
	MsgTooManyRequests = "too_many_requests"
	MsgResetSent       = "reset_sent"
)

type translations map[Language]string

// anyOp: mensajes que valen para cualquier operación.
const anyOp Operation = "any"

func authKey(op Operation, code auth.ErrorCode) string { return string(op) + "." + string(code) }
func genericKey(op Operation) string                  { return string(op) + ".generic" }

var table = map[string]translations{
	authKey(OpLogin, auth.CodeUserNotFound): {
		Spanish: "Email o contraseña incorrectos", English: "Incorrect email or password",
		French: "Email ou mot de passe incorrect", Portuguese: "Email ou senha incorretos",
	},
	authKey(OpLogin, auth.CodeWrongPassword): {
		Spanish: "Email o contraseña incorrectos", English: "Incorrect email or password",
		French: "Email ou mot de passe incorrect", Portuguese: "Email ou senha incorretos",
	},
	authKey(OpLogin, auth.CodeTooManyRequests): {
		Spanish: "Demasiados intentos fallidos. Intenta más tarde", English: "Too many failed attempts. Try again later",
		French: "Trop de tentatives échouées. Réessayez plus tard", Portuguese: "Muitas tentativas falhadas. Tente mais tarde",
	},
	authKey(OpRegister, auth.CodeEmailAlreadyInUse): {
		Spanish: "Este email ya está en uso", English: "This email is already in use",
		French: "Cet email est déjà utilisé", Portuguese: "Este email já está em uso",
	},
	authKey(OpRegister, auth.CodeWeakPassword): {
		Spanish: "La contraseña es demasiado débil", English: "The password is too weak",
		French: "Le mot de passe est trop faible", Portuguese: "A senha é muito fraca",
	},
	authKey(OpReset, auth.CodeUserNotFound): {
		Spanish: "No existe una cuenta con este email", English: "There is no account with this email",
		French: "Aucun compte n'existe avec cet email", Portuguese: "Não existe uma conta com este email",
	},
	authKey(anyOp, auth.CodeInvalidEmail): {
		Spanish: "Email inválido", English: "Invalid email",
		French: "Email invalide", Portuguese: "Email inválido",
	},
	authKey(anyOp, auth.CodeInvalidIDToken): {
		Spanish: "Tu sesión expiró. Inicia sesión nuevamente", English: "Your session expired. Please log in again",
		French: "Votre session a expiré. Reconnectez-vous", Portuguese: "Sua sessão expirou. Entre novamente",
	},
	authKey(anyOp, auth.CodeNoCurrentUser): {
		Spanish: "No hay una sesión iniciada", English: "You are not logged in",
		French: "Vous n'êtes pas connecté", Portuguese: "Você não está conectado",
	},
	authKey(anyOp, auth.CodeUserDisabled): {
		Spanish: "Esta cuenta está deshabilitada", English: "This account has been disabled",
		French: "Ce compte a été désactivé", Portuguese: "Esta conta foi desativada",
	},
	genericKey(OpLogin): {
		Spanish: "Error al iniciar sesión", English: "Error signing in",
		French: "Erreur de connexion", Portuguese: "Erro ao entrar",
	},
	genericKey(OpRegister): {
		Spanish: "Error al registrar usuario", English: "Error registering user",
		French: "Erreur lors de l'inscription", Portuguese: "Erro ao registrar usuário",
	},
	genericKey(OpReset): {
		Spanish: "Error al enviar el correo de recuperación", English: "Error sending the recovery email",
		French: "Erreur lors de l'envoi de l'email de récupération", Portuguese: "Erro ao enviar o email de recuperação",
	},
	genericKey(OpProfile): {
		Spanish: "Error al actualizar el perfil", English: "Error updating the profile",
		French: "Erreur lors de la mise à jour du profil", Portuguese: "Erro ao atualizar o perfil",
	},
	MsgErrorSaving: {
		Spanish: "Error al guardar", English: "Error saving",
		French: "Erreur lors de l'enregistrement", Portuguese: "Erro ao salvar",
	},
	MsgErrorLoading: {
		Spanish: "Error al cargar", English: "Error loading",
		French: "Erreur de chargement", Portuguese: "Erro ao carregar",
	},
	MsgNotFound: {
		Spanish: "No encontrado", English: "Not found",
		French: "Introuvable", Portuguese: "Não encontrado",
	},
	MsgUnauthorized: {
		Spanish: "Inicio de sesión requerido", English: "Login required",
		French: "Connexion requise", Portuguese: "Login necessário",
	},
	MsgInvalidInput: {
		Spanish: "Datos inválidos", English: "Invalid data",
		French: "Données invalides", Portuguese: "Dados inválidos",
	},
	MsgTooManyRequests: {
		Spanish: "Demasiadas solicitudes. Intenta más tarde", English: "Too many requests. Try again later",
		French: "Trop de requêtes. Réessayez plus tard", Portuguese: "Muitas solicitações. Tente mais tarde",
	},
	MsgResetSent: {
		Spanish: "Te enviamos un correo para restablecer tu contraseña", English: "We sent you an email to reset your password",
		French: "Nous vous avons envoyé un email pour réinitialiser votre mot de passe", Portuguese: "Enviamos um email para redefinir sua senha",
	},
}

var cat = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.Spanish))
	for key, tr := range table {
		for lang, text := range tr {
			// Solo falla con tags inválidos; los nuestros son fijos.
			_ = b.SetString(lang.Tag(), key, text)
		}
	}
	return b
}

func printer(l Language) *message.Printer {
	return message.NewPrinter(l.Tag(), message.Catalog(cat))
}

// Message traduce una clave genérica; claves desconocidas caen en "error_loading".
func Message(l Language, key string) string {
	if _, ok := table[key]; !ok {
		key = MsgErrorLoading
	}
	return printer(l).Sprintf(key)
}

// AuthMessage traduce un código del proveedor para una operación:
// primero op+código, después cualquier-op+código, y si no el genérico de la operación.
func AuthMessage(l Language, op Operation, code auth.ErrorCode) string {
	for _, key := range []string{authKey(op, code), authKey(anyOp, code)} {
		if _, ok := table[key]; ok {
			return printer(l).Sprintf(key)
		}
	}
	key := genericKey(op)
	if _, ok := table[key]; !ok {
		key = MsgErrorSaving
	}
	return printer(l).Sprintf(key)
}
