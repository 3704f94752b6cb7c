package metadata

// metadata 表中的键，由 wandctl builddb 在导出目录时写入
const (
	// CatalogBuiltAtKey 是最近一次导出的时间 (RFC3339)
	CatalogBuiltAtKey = "catalog_built_at"

	// CatalogSpellCountKey 是导出的法术数量
	CatalogSpellCountKey = "catalog_spell_count"

	// CatalogSourceKey 是构建所用的数据目录
	CatalogSourceKey = "catalog_source"
)
