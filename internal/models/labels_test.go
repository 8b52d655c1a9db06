package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistributionStatusOpposite(t *testing.T) {
	assert.Equal(t, DistributionClosed, DistributionActive.Opposite())
	assert.Equal(t, DistributionActive, DistributionClosed.Opposite())
	assert.Equal(t, DistributionActive, DistributionActive.Opposite().Opposite())
}

func TestDistributionTypeLabelFallsBackToCode(t *testing.T) {
	assert.Equal(t, "Бакалаврская ВКР", DistributionTypeLabel(WorkBachelor))
	assert.Equal(t, "phd", DistributionTypeLabel(WorkType("phd")))
}

func TestTopicLabels(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"known type", TopicTypeLabel(WorkMaster), "ВКР магистра"},
		{"unknown type", TopicTypeLabel(WorkType("phd")), "Другая работа"},
		{"known source", TopicSourceLabel(SourceEmployer), "Работодатель"},
		{"unknown source", TopicSourceLabel(TopicSource("x")), "Другой источник"},
		{"known status", TopicStatusLabel(TopicReserved), "Зарезервирована"},
		{"unknown status", TopicStatusLabel(TopicStatus("archived")), "archived"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestTopicLabelRoundTrip(t *testing.T) {
	for _, label := range TopicTypeLabels {
		code, ok := TopicTypeFromLabel(label)
		assert.True(t, ok)
		assert.Equal(t, label, TopicTypeLabel(code))
	}
	for _, label := range TopicSourceLabels {
		code, ok := TopicSourceFromLabel(label)
		assert.True(t, ok)
		assert.Equal(t, label, TopicSourceLabel(code))
	}
}
