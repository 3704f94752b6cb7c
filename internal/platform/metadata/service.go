package metadata

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetValue 读取一个键，不存在时返回空字符串
func GetValue(db *gorm.DB, key string) (string, error) {
	var meta Metadata
	err := db.Where("key = ?", key).First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return meta.Value, nil
}

// SetValue 插入或更新一个键
func SetValue(db *gorm.DB, key, value string) error {
	meta := Metadata{Key: key, Value: value}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&meta).Error
}

// CatalogInfo 描述最近一次导出的目录
type CatalogInfo struct {
	BuiltAt time.Time `json:"built_at"`
	Count   int       `json:"count"`
	Source  string    `json:"source"`
}

// SetCatalogInfo 在同一个事务中写入导出信息
func SetCatalogInfo(db *gorm.DB, info CatalogInfo) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := SetValue(tx, CatalogBuiltAtKey, info.BuiltAt.UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("更新元数据 %s 失败: %w", CatalogBuiltAtKey, err)
		}
		if err := SetValue(tx, CatalogSpellCountKey, strconv.Itoa(info.Count)); err != nil {
			return fmt.Errorf("更新元数据 %s 失败: %w", CatalogSpellCountKey, err)
		}
		if err := SetValue(tx, CatalogSourceKey, info.Source); err != nil {
			return fmt.Errorf("更新元数据 %s 失败: %w", CatalogSourceKey, err)
		}
		return nil
	})
}

// GetCatalogInfo 读取导出信息。从未导出时返回零值和 false。
func GetCatalogInfo(db *gorm.DB) (CatalogInfo, bool, error) {
	var info CatalogInfo

	builtAt, err := GetValue(db, CatalogBuiltAtKey)
	if err != nil || builtAt == "" {
		return info, false, err
	}
	if info.BuiltAt, err = time.Parse(time.RFC3339, builtAt); err != nil {
		return info, false, fmt.Errorf("无法解析元数据 '%s' 的值: %w", CatalogBuiltAtKey, err)
	}

	count, err := GetValue(db, CatalogSpellCountKey)
	if err != nil {
		return info, false, err
	}
	if info.Count, err = strconv.Atoi(count); err != nil {
		return info, false, fmt.Errorf("无法解析元数据 '%s' 的值: %w", CatalogSpellCountKey, err)
	}

	if info.Source, err = GetValue(db, CatalogSourceKey); err != nil {
		return info, false, err
	}
	return info, true, nil
}
