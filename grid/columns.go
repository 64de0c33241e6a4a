package grid

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"dbconsole/models"
)

// DefaultColumnWidth is the width assigned to a column with no stored layout.
const DefaultColumnWidth = 150

var labelSeparators = strings.NewReplacer("_", " ", "-", " ", ".", " ")

// BuildColumns derives one column definition per header entry, in header order.
// An empty header yields zero columns and the caller renders its placeholder state.
func BuildColumns(header []string) []models.Column {
	return buildColumns(header, DefaultColumnWidth)
}

func buildColumns(header []string, width int) []models.Column {
	if width <= 0 {
		width = DefaultColumnWidth
	}
	// A Caser keeps state between calls, so each build gets its own.
	caser := cases.Title(language.English, cases.NoLower)
	columns := make([]models.Column, 0, len(header))
	for _, key := range header {
		columns = append(columns, models.Column{
			Key:   key,
			Label: displayLabel(caser, key),
			Width: width,
		})
	}
	return columns
}

// displayLabel turns "avg_query_time" into "Avg Query Time". Keys made only of
// separators fall back to the raw key.
func displayLabel(caser cases.Caser, key string) string {
	words := strings.Fields(labelSeparators.Replace(key))
	if len(words) == 0 {
		return key
	}
	return caser.String(strings.Join(words, " "))
}

// ApplyLayout overlays a stored table layout onto built columns. It never drops,
// adds or reorders columns; unknown layout keys are ignored.
func ApplyLayout(columns []models.Column, layout *models.TableLayoutConfig) []models.Column {
	out := make([]models.Column, len(columns))
	copy(out, columns)
	if layout == nil || len(layout.Columns) == 0 {
		return out
	}
	for i := range out {
		cfg, ok := layout.Columns[out[i].Key]
		if !ok {
			continue
		}
		if cfg.Width > 0 {
			out[i].Width = cfg.Width
		}
		out[i].Hidden = cfg.Hidden
	}
	return out
}
