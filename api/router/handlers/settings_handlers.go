package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"dbconsole/database"
	"dbconsole/logger"
	"dbconsole/models"
)

// GetSessionSettingsHandler reports the selected instance and whether a token is stored.
// @Summary Get session settings
// @Tags Settings
// @Produce json
// @Success 200 {object} models.SessionSettings
// @Failure 500 {object} models.ErrorResponse
// @Router /settings/session [get]
func GetSessionSettingsHandler(w http.ResponseWriter, r *http.Request) {
	session, err := database.GetSessionSettings()
	if err != nil {
		logger.Error("GetSessionSettingsHandler: Error getting session settings: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve session settings")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// SetSessionSettingsHandler updates the instance and/or token; omitted fields are kept.
// @Summary Update session settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param session body models.SessionUpdateRequest true "Fields to update"
// @Success 200 {object} models.SessionSettings
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /settings/session [put]
func SetSessionSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SessionUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("SetSessionSettingsHandler: Error decoding request body: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if req.Instance != nil {
		if err := database.SetSelectedInstance(strings.TrimSpace(*req.Instance)); err != nil {
			logger.Error("SetSessionSettingsHandler: Error saving instance: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to save instance")
			return
		}
	}
	if req.Token != nil {
		var err error
		if token := strings.TrimSpace(*req.Token); token == "" {
			err = database.ClearAuthToken()
		} else {
			err = database.SetAuthToken(token)
		}
		if err != nil {
			logger.Error("SetSessionSettingsHandler: Error saving token: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to save token")
			return
		}
	}
	GetSessionSettingsHandler(w, r)
}

// LogoutHandler forgets the stored token.
// @Summary Log out
// @Tags Settings
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /settings/session [delete]
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := database.ClearAuthToken(); err != nil {
		logger.Error("LogoutHandler: Error clearing token: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to log out")
		return
	}
	logger.Info("Session token cleared.")
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Logged out."})
}

// GetTableLayoutsHandler retrieves the stored per-table layouts.
// @Summary Get table layouts
// @Tags Settings
// @Produce json
// @Success 200 {object} models.AllTableLayouts
// @Failure 500 {object} models.ErrorResponse
// @Router /settings/table-layouts [get]
func GetTableLayoutsHandler(w http.ResponseWriter, r *http.Request) {
	layouts, err := database.GetTableLayouts()
	if err != nil {
		logger.Error("GetTableLayoutsHandler: Error getting table layouts: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve table layouts")
		return
	}
	writeJSON(w, http.StatusOK, layouts)
}

// SetTableLayoutsHandler replaces the stored per-table layouts.
// @Summary Save table layouts
// @Tags Settings
// @Accept json
// @Produce json
// @Param layouts body models.AllTableLayouts true "Layouts keyed by table name"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /settings/table-layouts [put]
func SetTableLayoutsHandler(w http.ResponseWriter, r *http.Request) {
	var payload models.AllTableLayouts
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Error("SetTableLayoutsHandler: Error decoding request body: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	for table, layout := range payload {
		if layout.PageSize < 0 {
			writeError(w, http.StatusBadRequest, "pageSize must not be negative for table "+table)
			return
		}
	}

	if err := database.SetTableLayouts(payload); err != nil {
		logger.Error("SetTableLayoutsHandler: Error saving table layouts: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save table layouts")
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Table layouts saved successfully."})
}

// ResetTableLayoutsHandler resets all table layouts to default.
// @Summary Reset table layouts
// @Tags Settings
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /settings/table-layouts/reset [post]
func ResetTableLayoutsHandler(w http.ResponseWriter, r *http.Request) {
	if err := database.ResetTableLayouts(); err != nil {
		logger.Error("ResetTableLayoutsHandler: Error resetting table layouts: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to reset table layouts.")
		return
	}
	logger.Info("All table layouts have been reset in database.")
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "All table layouts have been reset."})
}
