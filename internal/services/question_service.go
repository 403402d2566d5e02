package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"interview-media-backend/internal/agents"
	"interview-media-backend/internal/apperr"
	"interview-media-backend/internal/models"
	"interview-media-backend/internal/store"
)

type QuestionService struct {
	store     store.Store
	registry  *agents.Registry
	allowStub bool
}

func NewQuestionService(st store.Store, registry *agents.Registry, allowStub bool) *QuestionService {
	return &QuestionService{store: st, registry: registry, allowStub: allowStub}
}

const defaultQuestionCount = 5

// Generate produces interview questions from the caller's documents via the
// question-generator agent and appends them after any existing questions.
func (s *QuestionService) Generate(ctx context.Context, account uuid.UUID, req *models.GenerateQuestionsRequest) ([]models.Question, error) {
	interviewID, err := uuid.Parse(req.InterviewID)
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput, "invalid interview id")
	}
	iv, err := s.store.GetInterview(interviewID)
	if err != nil {
		return nil, interviewErr(err)
	}
	if iv.AccountID != account {
		return nil, apperr.New(apperr.Forbidden, "interview belongs to another account")
	}

	count := req.QuestionCount
	if count <= 0 {
		count = defaultQuestionCount
	}
	jobCategory := req.JobCategory
	if jobCategory == "" {
		jobCategory = iv.JobCategory
	}

	var introduceText, portfolioText string
	for _, idStr := range req.DocumentIDs {
		docID, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		doc, err := s.store.GetDocument(docID)
		if err != nil || doc.AccountID != account || doc.ExtractedText == nil {
			continue
		}
		switch doc.DocumentType {
		case models.DocumentIntroduce:
			introduceText = *doc.ExtractedText
		case models.DocumentPortfolio:
			portfolioText = *doc.ExtractedText
		}
	}

	var texts []string
	if s.registry.QuestionGen == nil {
		if !s.allowStub {
			return nil, apperr.New(apperr.AnalysisUnavailable, "question generation is not available yet")
		}
		log.Printf("Warning: question generator not bound, using stub questions")
		texts = stubQuestions(jobCategory, count)
	} else {
		texts, err = s.registry.QuestionGen.GenerateQuestions(ctx, agents.GenerateQuestionsInput{
			IntroduceText: introduceText,
			PortfolioText: portfolioText,
			JobCategory:   jobCategory,
			QuestionCount: count,
		})
		if err != nil {
			return nil, apperr.Wrap(apperr.AnalysisFailed, "question generation failed", err)
		}
	}

	existing, err := s.store.CountQuestions(interviewID)
	if err != nil {
		return nil, err
	}

	questions := make([]models.Question, 0, len(texts))
	for i, text := range texts {
		questions = append(questions, models.Question{
			ID:           uuid.New(),
			InterviewID:  interviewID,
			QuestionText: text,
			OrderNum:     existing + i + 1,
			TimeLimit:    models.DefaultTimeLimit,
		})
	}
	if err := s.store.CreateQuestions(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// AddCustom appends a caller-written question. Order numbers are assigned as
// count+1 and never renumbered, so deleting a middle question leaves a gap.
func (s *QuestionService) AddCustom(account uuid.UUID, req *models.CustomQuestionRequest) (*models.Question, error) {
	interviewID, err := uuid.Parse(req.InterviewID)
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput, "invalid interview id")
	}
	iv, err := s.store.GetInterview(interviewID)
	if err != nil {
		return nil, interviewErr(err)
	}
	if iv.AccountID != account {
		return nil, apperr.New(apperr.Forbidden, "interview belongs to another account")
	}

	count, err := s.store.CountQuestions(interviewID)
	if err != nil {
		return nil, err
	}

	timeLimit := req.TimeLimit
	if timeLimit <= 0 {
		timeLimit = models.DefaultTimeLimit
	}

	question := models.Question{
		ID:           uuid.New(),
		InterviewID:  interviewID,
		QuestionText: req.QuestionText,
		OrderNum:     count + 1,
		TimeLimit:    timeLimit,
	}
	if err := s.store.CreateQuestions([]models.Question{question}); err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *QuestionService) List(account, interviewID uuid.UUID) ([]models.Question, error) {
	iv, err := s.store.GetInterview(interviewID)
	if err != nil {
		return nil, interviewErr(err)
	}
	if iv.AccountID != account {
		return nil, apperr.New(apperr.Forbidden, "interview belongs to another account")
	}
	return s.store.ListQuestions(interviewID)
}

func (s *QuestionService) Delete(account, questionID uuid.UUID) error {
	question, err := s.store.GetQuestion(questionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.New(apperr.NotFound, "question not found")
		}
		return err
	}
	iv, err := s.store.GetInterview(question.InterviewID)
	if err != nil {
		return interviewErr(err)
	}
	if iv.AccountID != account {
		return apperr.New(apperr.Forbidden, "interview belongs to another account")
	}
	return s.store.DeleteQuestion(questionID)
}

func stubQuestions(jobCategory string, count int) []string {
	questions := make([]string, 0, count)
	for i := 0; i < count; i++ {
		questions = append(questions, fmt.Sprintf(
			"[stub] %s question %d: tell me about a relevant experience.", jobCategory, i+1))
	}
	return questions
}
