package models

import (
	"database/sql/driver"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSON wraps gorm.io/datatypes.JSON so the snapshot payload columns map to a
// native JSON type on every supported database driver.
type JSON struct {
	datatypes.JSON
}

// JSONObject returns an empty JSON object value
func JSONObject() JSON {
	return JSON{datatypes.JSON([]byte("{}"))}
}

// JSONArray returns an empty JSON array value
func JSONArray() JSON {
	return JSON{datatypes.JSON([]byte("[]"))}
}

// Value promotes the embedded JSON's Value method
func (j JSON) Value() (driver.Value, error) {
	return j.JSON.Value()
}

// Scan promotes the embedded JSON's Scan method
func (j *JSON) Scan(value interface{}) error {
	return j.JSON.Scan(value)
}

// GormDBDataType selects the column type per driver. MSSQL has no 'json'
// type, and postgres gets jsonb as the original schema used.
func (JSON) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}
