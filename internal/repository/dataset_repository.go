package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"equipdash/internal/models"

	"gorm.io/gorm"
)

type DatasetRepository interface {
	// IngestDataset создает датасет, пишет записи и применяет ретеншн
	// одной транзакцией. Возвращает id нового датасета.
	IngestDataset(ctx context.Context, uploadedAt time.Time, records []models.Equipment, keep int) (uint, error)
	Latest(ctx context.Context) (*models.Dataset, error)
	Get(ctx context.Context, id uint) (*models.Dataset, error)
	List(ctx context.Context) ([]models.Dataset, error)
	Summarize(ctx context.Context, dataset *models.Dataset) (*models.Summary, error)
	CountDatasets(ctx context.Context) (int64, error)
}

type datasetRepository struct {
	db *gorm.DB
}

func NewDatasetRepository(db *gorm.DB) DatasetRepository {
	return &datasetRepository{db: db}
}

func (r *datasetRepository) IngestDataset(ctx context.Context, uploadedAt time.Time, records []models.Equipment, keep int) (uint, error) {
	if keep < 1 {
		keep = 1
	}

	var datasetID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dataset := models.Dataset{UploadedAt: uploadedAt}
		if err := tx.Create(&dataset).Error; err != nil {
			return err
		}
		datasetID = dataset.ID

		for i := range records {
			records[i].DatasetID = dataset.ID
			records[i].UploadedAt = dataset.UploadedAt
		}
		if len(records) > 0 {
			if err := tx.CreateInBatches(records, 100).Error; err != nil {
				return err
			}
		}

		return applyRetention(tx, keep)
	})
	if err != nil {
		return 0, err
	}
	return datasetID, nil
}

// applyRetention оставляет keep самых свежих датасетов.
// При равных метках времени новее тот, у кого больше id.
func applyRetention(tx *gorm.DB, keep int) error {
	var keepIDs []uint
	err := tx.Model(&models.Dataset{}).
		Order("uploaded_at DESC, id DESC").
		Limit(keep).
		Pluck("id", &keepIDs).
		Error
	if err != nil {
		return err
	}
	if len(keepIDs) == 0 {
		return nil
	}

	if err := tx.Where("dataset_id NOT IN ?", keepIDs).Delete(&models.Equipment{}).Error; err != nil {
		return err
	}
	return tx.Where("id NOT IN ?", keepIDs).Delete(&models.Dataset{}).Error
}

func (r *datasetRepository) Latest(ctx context.Context) (*models.Dataset, error) {
	var dataset models.Dataset
	err := r.db.WithContext(ctx).
		Order("uploaded_at DESC, id DESC").
		First(&dataset).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dataset, nil
}

func (r *datasetRepository) Get(ctx context.Context, id uint) (*models.Dataset, error) {
	var dataset models.Dataset
	err := r.db.WithContext(ctx).First(&dataset, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dataset, nil
}

func (r *datasetRepository) List(ctx context.Context) ([]models.Dataset, error) {
	var datasets []models.Dataset
	err := r.db.WithContext(ctx).
		Order("uploaded_at DESC, id DESC").
		Find(&datasets).
		Error
	return datasets, err
}

// Summarize считает агрегаты на стороне БД. Все чтения идут одной
// транзакцией, чтобы конкурентный ретеншн не удалил записи между ними.
// Для датасета без записей возвращает (nil, nil) — сводки не существует.
func (r *datasetRepository) Summarize(ctx context.Context, dataset *models.Dataset) (*models.Summary, error) {
	if dataset == nil {
		return nil, nil
	}

	var summary *models.Summary
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total int64
		err := tx.Model(&models.Equipment{}).
			Where("dataset_id = ?", dataset.ID).
			Count(&total).
			Error
		if err != nil {
			return err
		}
		if total == 0 {
			return nil
		}

		s := models.Summary{
			ID:             dataset.ID,
			UploadedAt:     dataset.UploadedAt,
			TotalEquipment: total,
			TypeDistrib:    make(map[string]int),
		}

		var avgFlowrate, avgPressure, avgTemperature sql.NullFloat64
		row := tx.Model(&models.Equipment{}).
			Select("AVG(flowrate), AVG(pressure), AVG(temperature)").
			Where("dataset_id = ?", dataset.ID).
			Row()
		if err := row.Scan(&avgFlowrate, &avgPressure, &avgTemperature); err != nil {
			return err
		}
		if !avgFlowrate.Valid || !avgPressure.Valid || !avgTemperature.Valid {
			// Записи исчезли между запросами — сводки нет
			return nil
		}
		s.AvgFlowrate = avgFlowrate.Float64
		s.AvgPressure = avgPressure.Float64
		s.AvgTemperature = avgTemperature.Float64

		rows, err := tx.Model(&models.Equipment{}).
			Select("type, COUNT(*)").
			Where("dataset_id = ?", dataset.ID).
			Group("type").
			Rows()
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				typeName string
				count    int
			)
			if err := rows.Scan(&typeName, &count); err != nil {
				return err
			}
			s.TypeDistrib[typeName] = count
		}
		if err := rows.Err(); err != nil {
			return err
		}

		summary = &s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *datasetRepository) CountDatasets(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Dataset{}).
		Count(&count).
		Error
	return count, err
}
