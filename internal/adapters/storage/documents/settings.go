package documents

import (
	"context"
	"fmt"

	"nyanpass/internal/domain/settings"
)

const settingsEntity = "settings"

type SettingsRepo struct {
	base
}

var _ settings.Repository = (*SettingsRepo)(nil)

// Get devuelve settings.ErrNotFound si no existe o no se pudo leer.
func (r *SettingsRepo) Get(ctx context.Context, uid string) (settings.Settings, error) {
	path, err := settingsPath(uid)
	if err != nil {
		return settings.Settings{}, readErr(err, settings.ErrNotFound)
	}
	doc, err := r.read(ctx, settingsEntity, path)
	if err != nil {
		return settings.Settings{}, settings.ErrNotFound
	}
	var st settings.Settings
	if !r.decode(settingsEntity, doc, &st) {
		return settings.Settings{}, settings.ErrNotFound
	}
	return st, nil
}

func (r *SettingsRepo) Save(ctx context.Context, uid string, st settings.Settings) error {
	path, err := settingsPath(uid)
	if err != nil {
		return err
	}
	if err := r.write(ctx, settingsEntity, path, st); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (r *SettingsRepo) Delete(ctx context.Context, uid string) error {
	path, err := settingsPath(uid)
	if err != nil {
		return err
	}
	if err := r.remove(ctx, settingsEntity, path); err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	return nil
}
