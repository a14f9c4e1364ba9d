package models

// Product is one sellable item. Stock is never stored here: it is always the
// sum of amounts over the product's stock transactions.
type Product struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Pid        string `gorm:"column:pid;size:32;not null;uniqueIndex"`
	SectionPid string `gorm:"column:section_pid;size:32;not null;index;uniqueIndex:idx_products_section_name,priority:1"`
	Name       string `gorm:"column:name;size:32;not null;uniqueIndex:idx_products_section_name,priority:2"`
	About      string `gorm:"column:about;size:64;not null"`
	PriceCents int    `gorm:"column:price_cents;not null"`
	IsActive   bool   `gorm:"column:is_active;not null;default:true"`

	Section *Section `gorm:"foreignKey:SectionPid;references:Pid"`
}
