package service

import (
	"context"
	"fmt"

	"progression/internal/models"
	"progression/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type trainingService struct {
	statsRepo    repository.PlayerStatsRepository
	activityRepo repository.ActivityRepository
	ledger       LedgerService
	quests       QuestService
	achievements AchievementService

	questions []models.TrainingQuestion
}

func NewTrainingService(statsRepo repository.PlayerStatsRepository, activityRepo repository.ActivityRepository,
	ledger LedgerService, quests QuestService, achievements AchievementService) TrainingService {
	return &trainingService{
		statsRepo:    statsRepo,
		activityRepo: activityRepo,
		ledger:       ledger,
		quests:       quests,
		achievements: achievements,
		questions:    models.DefaultTrainingQuestions(),
	}
}

// GetQuestions returns the training catalog. Reward amounts and feedback
// stay server-side until an answer is submitted.
func (s *trainingService) GetQuestions() []models.TrainingQuestion {
	out := make([]models.TrainingQuestion, len(s.questions))
	copy(out, s.questions)
	return out
}

func (s *trainingService) findQuestion(questionID string) *models.TrainingQuestion {
	for i := range s.questions {
		if s.questions[i].ID == questionID {
			return &s.questions[i]
		}
	}
	return nil
}

// SubmitAnswer grades one answer: every choice earns XP, the best choice
// earns the most, and the training counter and quests advance either way.
func (s *trainingService) SubmitAnswer(ctx context.Context, userID uuid.UUID, questionID, choiceID string) (*models.TrainingResult, error) {
	question := s.findQuestion(questionID)
	if question == nil {
		return nil, models.NewNotFoundError("training question", questionID)
	}
	choice := question.Choice(choiceID)
	if choice == nil {
		return nil, models.NewValidationError("unknown choice for question " + questionID + ": " + choiceID)
	}

	// A first submission may come from a player with no profile yet.
	if _, err := s.statsRepo.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	result := &models.TrainingResult{
		QuestionID: questionID,
		ChoiceID:   choiceID,
		IsBest:     choice.IsBest,
		Feedback:   choice.Feedback,
	}
	if best := question.BestChoice(); best != nil {
		result.BestChoiceID = best.ID
	}

	reason := fmt.Sprintf("Training: defeated %s", question.BossName)
	award, err := s.ledger.Award(ctx, userID, choice.XPReward, nil, reason, models.SourceTraining, questionID)
	if err != nil {
		return nil, err
	}
	result.Award = award

	if err := s.statsRepo.IncrementCounter(ctx, userID, models.CounterTraining, 1); err != nil {
		return nil, err
	}

	if _, err := s.quests.RecordAction(ctx, userID, models.ActionTrainingCompleted, 1); err != nil {
		return nil, err
	}
	if _, err := s.achievements.CheckAchievements(ctx, userID); err != nil {
		return nil, err
	}

	activity := &models.Activity{
		UserID:   userID,
		Kind:     models.ActivityTraining,
		Message:  fmt.Sprintf("Faced %s in training", question.BossName),
		XPGained: choice.XPReward,
	}
	if err := s.activityRepo.Insert(ctx, activity); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to record training activity")
	}

	return result, nil
}
