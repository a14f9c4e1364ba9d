package models

// Section groups products inside one retailer's catalog. Inactive sections
// hide their products from sale but not from supply imports.
type Section struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Pid         string `gorm:"column:pid;size:32;not null;uniqueIndex"`
	RetailerPid string `gorm:"column:retailer_pid;size:32;not null;index"`
	Name        string `gorm:"column:name;size:32;not null"`
	IsActive    bool   `gorm:"column:is_active;not null;default:true"`

	Products []Product `gorm:"foreignKey:SectionPid;references:Pid;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
