package database

import (
	"encoding/json"
	"fmt"

	"dbconsole/logger"
	"dbconsole/models"
)

// GetTableLayouts returns every stored table layout. A corrupt stored value is
// logged and treated as empty.
func GetTableLayouts() (models.AllTableLayouts, error) {
	layoutsJSON, err := GetSetting(models.TableLayoutsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get table layouts setting: %w", err)
	}
	layouts := make(models.AllTableLayouts)
	if layoutsJSON == "" {
		return layouts, nil
	}
	if err := json.Unmarshal([]byte(layoutsJSON), &layouts); err != nil {
		logger.Error("GetTableLayouts: Error unmarshalling layouts JSON: %v. Stored value: %s", err, layoutsJSON)
		return make(models.AllTableLayouts), nil
	}
	return layouts, nil
}

// SetTableLayouts replaces all stored layouts.
func SetTableLayouts(layouts models.AllTableLayouts) error {
	if layouts == nil {
		layouts = make(models.AllTableLayouts)
	}
	layoutsJSON, err := json.Marshal(layouts)
	if err != nil {
		return fmt.Errorf("failed to marshal table layouts to JSON: %w", err)
	}
	if err := SetSetting(models.TableLayoutsKey, string(layoutsJSON)); err != nil {
		return fmt.Errorf("failed to save table layouts setting: %w", err)
	}
	return nil
}

// GetTableLayout returns the layout for one table, or nil if none is stored.
func GetTableLayout(table string) (*models.TableLayoutConfig, error) {
	layouts, err := GetTableLayouts()
	if err != nil {
		return nil, err
	}
	layout, ok := layouts[table]
	if !ok {
		return nil, nil
	}
	return &layout, nil
}

// SetColumnLayout updates one column of one table, keeping everything else.
func SetColumnLayout(table, column string, cfg models.ColumnConfig) error {
	layouts, err := GetTableLayouts()
	if err != nil {
		return err
	}
	layout := layouts[table]
	if layout.Columns == nil {
		layout.Columns = make(map[string]models.ColumnConfig)
	}
	layout.Columns[column] = cfg
	layouts[table] = layout
	return SetTableLayouts(layouts)
}

// SetTablePageSize stores the initial page size for a table; 0 restores the default.
func SetTablePageSize(table string, pageSize int) error {
	layouts, err := GetTableLayouts()
	if err != nil {
		return err
	}
	layout := layouts[table]
	layout.PageSize = pageSize
	layouts[table] = layout
	return SetTableLayouts(layouts)
}

// ResetTableLayouts resets all table layouts to default (empty JSON).
func ResetTableLayouts() error {
	return SetSetting(models.TableLayoutsKey, "{}")
}
