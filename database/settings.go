package database

import (
	"database/sql"
	"errors"
	"fmt"
)

var errNotInitialized = errors.New("settings database is not initialized")

// GetSetting retrieves a specific setting value from the app_settings table.
func GetSetting(key string) (string, error) {
	if DB == nil {
		return "", errNotInitialized
	}
	var value string
	err := DB.QueryRow("SELECT value FROM app_settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil // Not set is not an error
		}
		return "", fmt.Errorf("failed to get setting '%s': %w", key, err)
	}
	return value, nil
}

// SetSetting saves or updates a specific setting value in the app_settings table.
func SetSetting(key, value string) error {
	if DB == nil {
		return errNotInitialized
	}
	stmt, err := DB.Prepare(`INSERT INTO app_settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("failed to prepare set setting statement for key '%s': %w", key, err)
	}
	defer stmt.Close()

	if _, err = stmt.Exec(key, value); err != nil {
		return fmt.Errorf("failed to execute set setting for key '%s': %w", key, err)
	}
	return nil
}

// DeleteSetting removes a setting; deleting a missing key is not an error.
func DeleteSetting(key string) error {
	if DB == nil {
		return errNotInitialized
	}
	if _, err := DB.Exec("DELETE FROM app_settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete setting '%s': %w", key, err)
	}
	return nil
}
