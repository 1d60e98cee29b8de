package session

import (
	"context"
	"fmt"

	"github.com/quest-of-seoul/go-docent/pkg/docent"
)

// defaultQuizPoints is the award for a correct answer when the quiz
// itself does not carry a point value.
const defaultQuizPoints = 60

// QuizResult summarizes one quiz run.
type QuizResult struct {
	QuestID      string
	Total        int
	Correct      int
	PointsEarned int
}

// RunQuiz fetches the quest's quiz questions, asks answer for each one,
// and scores the run. answer receives the quiz and returns the chosen
// option index. On completion the earned points are credited and the
// quest is marked completed.
func (s *Session) RunQuiz(ctx context.Context, questID string, answer func(docent.Quiz) int) (*QuizResult, error) {
	if s.isClosed() {
		return nil, ErrSessionClosed
	}

	detail, err := s.client.QuestDetail(ctx, questID)
	if err != nil {
		return nil, fmt.Errorf("fetch quest %s: %w", questID, err)
	}

	result := &QuizResult{
		QuestID: questID,
		Total:   len(detail.Quizzes),
	}
	for _, quiz := range detail.Quizzes {
		if answer(quiz) != quiz.CorrectAnswer {
			continue
		}
		result.Correct++
		if quiz.Points > 0 {
			result.PointsEarned += quiz.Points
		} else {
			result.PointsEarned += defaultQuizPoints
		}
	}

	if result.PointsEarned > 0 {
		if err := s.client.AddPoints(ctx, s.userID, result.PointsEarned, "quiz: "+questID); err != nil {
			return result, fmt.Errorf("credit points: %w", err)
		}
	}
	if err := s.client.UpdateQuestProgress(ctx, docent.QuestProgress{
		UserID:  s.userID,
		QuestID: questID,
		Status:  "completed",
	}); err != nil {
		return result, fmt.Errorf("update quest progress: %w", err)
	}

	return result, nil
}
