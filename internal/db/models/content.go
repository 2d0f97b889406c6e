// Package models contains database model definitions.
package models

// ContentTable is the name of the table holding content records.
const ContentTable = "content"

// ContentNameSize is the column width of name and location.
const ContentNameSize = 120

// Content is a row of the content table.
type Content struct {
	ID       uint64  `gorm:"primaryKey;autoIncrement"`
	Name     string  `gorm:"size:120;uniqueIndex;not null"`
	Location *string `gorm:"size:120"`
}

// TableName gives gorm the explicit table name.
func (Content) TableName() string {
	return ContentTable
}
