// Package documents mapea los registros del dominio a paths del docstore:
//
//	users/{uid}/cats/{catId}
//	users/{uid}/cats/{catId}/vaccines/{vaccineId}
//	users/{uid}/cats/{catId}/allergies/{allergyId}
//	users/{uid}/cats/{catId}/treatments/{treatmentId}
//	users/{uid}/settings/user_settings
//
// Toda operación recibe el uid explícito; sin uid falla con docstore.ErrNoIdentity.
package documents

import (
	"strings"

	"nyanpass/internal/ports/docstore"
)

const (
	colUsers      = "users"
	colCats       = "cats"
	colVaccines   = "vaccines"
	colAllergies  = "allergies"
	colTreatments = "treatments"
	colSettings   = "settings"
	settingsDocID = "user_settings"
)

// Subcolecciones que cuelgan de un gato (las borra el cascade).
var catChildren = []string{colVaccines, colAllergies, colTreatments}

func userSegment(uid string) (string, error) {
	if strings.TrimSpace(uid) == "" {
		return "", docstore.ErrNoIdentity
	}
	return docstore.Segment(uid)
}

func catsCollection(uid string) (string, error) {
	u, err := userSegment(uid)
	if err != nil {
		return "", err
	}
	return docstore.Join(colUsers, u, colCats), nil
}

func catPath(uid, catID string) (string, error) {
	col, err := catsCollection(uid)
	if err != nil {
		return "", err
	}
	c, err := docstore.Segment(catID)
	if err != nil {
		return "", err
	}
	return docstore.Join(col, c), nil
}

func childCollection(uid, catID, collection string) (string, error) {
	cat, err := catPath(uid, catID)
	if err != nil {
		return "", err
	}
	return docstore.Join(cat, collection), nil
}

func childPath(uid, catID, collection, id string) (string, error) {
	col, err := childCollection(uid, catID, collection)
	if err != nil {
		return "", err
	}
	s, err := docstore.Segment(id)
	if err != nil {
		return "", err
	}
	return docstore.Join(col, s), nil
}

func settingsPath(uid string) (string, error) {
	u, err := userSegment(uid)
	if err != nil {
		return "", err
	}
	return docstore.Join(colUsers, u, colSettings, settingsDocID), nil
}
