package models

import (
	"time"
)

// Dataset — одно событие загрузки CSV/XLSX файла.
type Dataset struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	UploadedAt time.Time   `gorm:"not null;index" json:"uploaded_at"`
	Equipment  []Equipment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Equipment — одна строка оборудования из загруженного файла.
// UploadedAt дублирует метку времени датасета и заполняется
// только при маппинге, никогда из пользовательского ввода.
type Equipment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DatasetID   uint      `gorm:"not null;index" json:"dataset_id"`
	Name        string    `gorm:"not null" json:"name"`
	Type        string    `gorm:"not null;index" json:"type"`
	Flowrate    float64   `gorm:"not null" json:"flowrate"`
	Pressure    float64   `gorm:"not null" json:"pressure"`
	Temperature float64   `gorm:"not null" json:"temperature"`
	UploadedAt  time.Time `gorm:"not null" json:"uploaded_at"`
}

// Summary — производная статистика по датасету, не хранится в БД.
// Для датасета без записей сводки не существует (nil, не ноль).
type Summary struct {
	ID             uint           `json:"id"`
	UploadedAt     time.Time      `json:"uploaded_at"`
	TotalEquipment int64          `json:"total_equipment"`
	AvgFlowrate    float64        `json:"avg_flowrate"`
	AvgPressure    float64        `json:"avg_pressure"`
	AvgTemperature float64        `json:"avg_temperature"`
	TypeDistrib    map[string]int `json:"type_distribution"`
}
