package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/topic-distribution-admin/internal/dto"
	"github.com/noah-isme/topic-distribution-admin/internal/models"
	"github.com/noah-isme/topic-distribution-admin/pkg/logger"
)

type studentLister interface {
	List(ctx context.Context) ([]models.Student, error)
}

// DashboardService computes the main page numbers from the reference
// collections.
type DashboardService struct {
	topics   topicLister
	students studentLister
	teachers teacherLister
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(topics topicLister, students studentLister, teachers teacherLister, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{topics: topics, students: students, teachers: teachers, logger: logger}
}

// Stats counts topics, available topics, students and teachers. A failing
// collection counts as zero and the result is marked partial.
func (s *DashboardService) Stats(ctx context.Context) (dto.DashboardStats, bool) {
	var stats dto.DashboardStats
	partial := false
	log := logger.ForContext(ctx, s.logger)

	if topics, err := s.topics.List(ctx); err == nil {
		stats.TotalTopics = len(topics)
		for _, t := range topics {
			if t.Status == models.TopicAvailable {
				stats.AvailableTopics++
			}
		}
	} else {
		partial = true
		log.Warn("dashboard topics unavailable", zap.Error(err))
	}

	if students, err := s.students.List(ctx); err == nil {
		stats.Students = len(students)
	} else {
		partial = true
		log.Warn("dashboard students unavailable", zap.Error(err))
	}

	if teachers, err := s.teachers.List(ctx); err == nil {
		stats.Teachers = len(teachers)
	} else {
		partial = true
		log.Warn("dashboard teachers unavailable", zap.Error(err))
	}

	return stats, partial
}
