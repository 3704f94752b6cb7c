package spell

import (
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Spell 定义了导出数据库中法术的数据结构
type Spell struct {
	// gorm.Model 包含 ID, CreatedAt, UpdatedAt, DeletedAt
	gorm.Model

	// SpellID 是法术在游戏中的唯一字符串ID, 例如 "BOMB"
	SpellID string `gorm:"uniqueIndex;not null"`

	Name           string
	EnName         string
	Icon           string
	Pinyin         string
	PinyinInitials string
	Aliases        string
	AliasPinyin    string
	AliasInitials  string
	Type           int

	// MaxUses 为 NULL 表示无限次数
	MaxUses *int
}

func toRow(id string, def Definition) Spell {
	return Spell{
		SpellID:        id,
		Name:           def.Name,
		EnName:         def.EnName,
		Icon:           def.Icon,
		Pinyin:         def.Pinyin,
		PinyinInitials: def.PinyinInitials,
		Aliases:        def.Aliases,
		AliasPinyin:    def.AliasPinyin,
		AliasInitials:  def.AliasInitials,
		Type:           int(def.Type),
		MaxUses:        def.MaxUses,
	}
}

func (s Spell) definition() Definition {
	return Definition{
		Icon:           s.Icon,
		Name:           s.Name,
		EnName:         s.EnName,
		Pinyin:         s.Pinyin,
		PinyinInitials: s.PinyinInitials,
		Aliases:        s.Aliases,
		AliasPinyin:    s.AliasPinyin,
		AliasInitials:  s.AliasInitials,
		Type:           ActionType(s.Type),
		MaxUses:        s.MaxUses,
	}
}

// MigrateDB 负责自动迁移法术表结构
func MigrateDB(db *gorm.DB) error {
	if err := db.AutoMigrate(&Spell{}); err != nil {
		return fmt.Errorf("无法迁移spell表: %w", err)
	}
	return nil
}

// SaveCatalog 在一个事务中写入整个目录，已存在的ID会被更新，目录中不存在的行会被删除
func SaveCatalog(db *gorm.DB, catalog Catalog) error {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]Spell, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, toRow(id, catalog[id]))
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if len(ids) == 0 {
			return tx.Unscoped().Where("1 = 1").Delete(&Spell{}).Error
		}
		if err := tx.Unscoped().Where("spell_id NOT IN ?", ids).Delete(&Spell{}).Error; err != nil {
			return fmt.Errorf("无法清理过期法术: %w", err)
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "spell_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "en_name", "icon", "pinyin", "pinyin_initials",
				"aliases", "alias_pinyin", "alias_initials", "type", "max_uses", "updated_at",
			}),
		}).CreateInBatches(rows, 200).Error
		if err != nil {
			return fmt.Errorf("无法写入法术数据: %w", err)
		}
		return nil
	})
}

// LoadCatalog 从导出数据库读取目录
func LoadCatalog(db *gorm.DB) (Catalog, error) {
	var rows []Spell
	if err := db.Order("spell_id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("无法从SQLite加载法术数据: %w", err)
	}
	catalog := make(Catalog, len(rows))
	for _, r := range rows {
		catalog[r.SpellID] = r.definition()
	}
	return catalog, nil
}
