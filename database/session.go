package database

import (
	"dbconsole/logger"
	"dbconsole/models"
)

func GetAuthToken() (string, error) {
	return GetSetting(models.AuthTokenKey)
}

func SetAuthToken(token string) error {
	return SetSetting(models.AuthTokenKey, token)
}

// ClearAuthToken forgets the session token, e.g. after the backend answered 401.
func ClearAuthToken() error {
	return DeleteSetting(models.AuthTokenKey)
}

func GetSelectedInstance() (string, error) {
	return GetSetting(models.SelectedInstanceKey)
}

// SetSelectedInstance stores the instance; an empty name clears the selection.
func SetSelectedInstance(instance string) error {
	if instance == "" {
		return DeleteSetting(models.SelectedInstanceKey)
	}
	return SetSetting(models.SelectedInstanceKey, instance)
}

// TokenOrEmpty is a client.TokenSource backed by the settings table.
func TokenOrEmpty() string {
	token, err := GetAuthToken()
	if err != nil {
		logger.Error("TokenOrEmpty: Error reading auth token: %v", err)
		return ""
	}
	return token
}

// GetSessionSettings reports the session without exposing the token.
func GetSessionSettings() (models.SessionSettings, error) {
	var s models.SessionSettings
	instance, err := GetSelectedInstance()
	if err != nil {
		return s, err
	}
	token, err := GetAuthToken()
	if err != nil {
		return s, err
	}
	s.Instance = instance
	s.HasToken = token != ""
	return s, nil
}
