package scoring

import (
	"fmt"
	"sort"
	"strings"

	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/models"
)

const (
	InstrumentKnowledge = "knowledge"

	StrongTopicThreshold = 70
	WeakTopicThreshold   = 50
)

// ScoreKnowledge scores the stream knowledge quiz overall and per topic.
func ScoreKnowledge(items []models.KnowledgeItem) (*models.KnowledgeScore, error) {
	if len(items) == 0 {
		return nil, apperrors.NewMalformedInputError(InstrumentKnowledge, "no knowledge answers", 0)
	}

	correct := 0
	topicCorrect := map[string]int{}
	topicTotal := map[string]int{}
	for _, item := range items {
		topic := strings.TrimSpace(item.Topic)
		if topic == "" {
			return nil, apperrors.NewMalformedInputError(InstrumentKnowledge,
				fmt.Sprintf("question %s has no topic", item.QuestionID), item)
		}
		topicTotal[topic]++
		if item.Correct {
			correct++
			topicCorrect[topic]++
		}
	}

	accuracy := make(map[string]int, len(topicTotal))
	topics := make([]string, 0, len(topicTotal))
	for topic, total := range topicTotal {
		accuracy[topic] = Percent(topicCorrect[topic], total)
		topics = append(topics, topic)
	}
	sort.Slice(topics, func(i, j int) bool {
		if accuracy[topics[i]] != accuracy[topics[j]] {
			return accuracy[topics[i]] > accuracy[topics[j]]
		}
		return topics[i] < topics[j]
	})

	strong := []string{}
	weak := []string{}
	for _, topic := range topics {
		switch {
		case accuracy[topic] >= StrongTopicThreshold:
			strong = append(strong, topic)
		case accuracy[topic] < WeakTopicThreshold:
			weak = append(weak, topic)
		}
	}

	return &models.KnowledgeScore{
		Score:          Percent(correct, len(items)),
		CorrectCount:   correct,
		TotalQuestions: len(items),
		TopicAccuracy:  accuracy,
		StrongTopics:   strong,
		WeakTopics:     weak,
	}, nil
}
