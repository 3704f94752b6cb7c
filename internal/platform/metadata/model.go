package metadata

import "gorm.io/gorm"

// Metadata 是键值对形式的元数据表
type Metadata struct {
	gorm.Model

	Key   string `gorm:"uniqueIndex;not null;type:varchar(255)"`
	Value string `gorm:"type:varchar(1024)"`
}
