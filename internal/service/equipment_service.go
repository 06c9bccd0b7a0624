package service

import (
	"context"
	"io"
	"log"
	"time"

	"equipdash/internal/ingest"
	"equipdash/internal/models"
	"equipdash/internal/repository"
)

const cacheKeyLatestSummary = "summary:latest"

type EquipmentService interface {
	// Ingest выполняет загрузку по принципу все-или-ничего и
	// возвращает id нового датасета.
	Ingest(ctx context.Context, filename string, file io.Reader) (uint, error)
	LatestSummary(ctx context.Context) (*models.Summary, error)
	DatasetSummary(ctx context.Context, id uint) (*models.Summary, error)
	History(ctx context.Context) ([]models.Summary, error)
}

type equipmentService struct {
	repo         repository.DatasetRepository
	cache        repository.CacheRepository // nil — кэш отключен
	historyLimit int
	cacheTTL     time.Duration
}

func NewEquipmentService(repo repository.DatasetRepository, cache repository.CacheRepository, historyLimit int, cacheTTL time.Duration) EquipmentService {
	if historyLimit < 1 {
		historyLimit = 5
	}
	return &equipmentService{
		repo:         repo,
		cache:        cache,
		historyLimit: historyLimit,
		cacheTTL:     cacheTTL,
	}
}

func (s *equipmentService) Ingest(ctx context.Context, filename string, file io.Reader) (uint, error) {
	rows, err := ingest.Parse(filename, file)
	if err != nil {
		return 0, err
	}

	uploadedAt := time.Now().UTC()

	// Маппим до обращения к БД: ошибка конверсии не оставляет следов.
	records, err := ingest.MapRows(rows, 0, uploadedAt)
	if err != nil {
		return 0, err
	}

	datasetID, err := s.repo.IngestDataset(ctx, uploadedAt, records, s.historyLimit)
	if err != nil {
		return 0, err
	}

	s.invalidateLatest(ctx)

	log.Printf("Dataset %d ingested: %d records (%s)", datasetID, len(records), filename)
	return datasetID, nil
}

func (s *equipmentService) LatestSummary(ctx context.Context) (*models.Summary, error) {
	if s.cache != nil {
		var cached models.Summary
		hit, err := s.cache.GetJSON(ctx, cacheKeyLatestSummary, &cached)
		if err != nil {
			log.Printf("Summary cache read failed: %v", err)
		} else if hit {
			return &cached, nil
		}
	}

	dataset, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := s.repo.Summarize(ctx, dataset)
	if err != nil {
		return nil, err
	}

	if summary != nil && s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKeyLatestSummary, summary, s.cacheTTL); err != nil {
			log.Printf("Summary cache write failed: %v", err)
		}
	}

	return summary, nil
}

func (s *equipmentService) DatasetSummary(ctx context.Context, id uint) (*models.Summary, error) {
	dataset, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.Summarize(ctx, dataset)
}

func (s *equipmentService) History(ctx context.Context) ([]models.Summary, error) {
	datasets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	// Датасеты без записей в историю не попадают.
	history := make([]models.Summary, 0, len(datasets))
	for i := range datasets {
		summary, err := s.repo.Summarize(ctx, &datasets[i])
		if err != nil {
			return nil, err
		}
		if summary != nil {
			history = append(history, *summary)
		}
	}

	return history, nil
}

func (s *equipmentService) invalidateLatest(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKeyLatestSummary); err != nil {
		log.Printf("Summary cache invalidation failed: %v", err)
	}
}
