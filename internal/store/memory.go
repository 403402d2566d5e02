package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"interview-media-backend/internal/models"
)

// Memory is the in-memory store used when no DATABASE_URL is configured and
// throughout the tests. Deletes walk the cascade graph explicitly
// (feedback -> videos -> questions -> interview) under one lock, so callers
// observe the same all-or-nothing behavior the postgres foreign keys give.
type Memory struct {
	mu         sync.RWMutex
	accounts   map[uuid.UUID]models.Account
	interviews map[uuid.UUID]models.Interview
	questions  map[uuid.UUID]models.Question
	videos     map[uuid.UUID]models.Video
	feedbacks  map[uuid.UUID]models.Feedback // keyed by feedback id
	documents  map[uuid.UUID]models.Document
}

func NewMemory() *Memory {
	return &Memory{
		accounts:   make(map[uuid.UUID]models.Account),
		interviews: make(map[uuid.UUID]models.Interview),
		questions:  make(map[uuid.UUID]models.Question),
		videos:     make(map[uuid.UUID]models.Video),
		feedbacks:  make(map[uuid.UUID]models.Feedback),
		documents:  make(map[uuid.UUID]models.Document),
	}
}

func (m *Memory) EnsureAccount(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		m.accounts[id] = models.Account{ID: id, CreatedAt: time.Now()}
	}
	return nil
}

func (m *Memory) CreateInterview(iv *models.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	iv.CreatedAt = now
	iv.UpdatedAt = now
	m.interviews[iv.ID] = *iv
	return nil
}

func (m *Memory) GetInterview(id uuid.UUID) (*models.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	iv, ok := m.interviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &iv, nil
}

func (m *Memory) GetInterviewWithQuestions(id uuid.UUID) (*models.Interview, error) {
	iv, err := m.GetInterview(id)
	if err != nil {
		return nil, err
	}
	questions, err := m.ListQuestions(id)
	if err != nil {
		return nil, err
	}
	iv.Questions = questions
	return iv, nil
}

func (m *Memory) ListInterviews(accountID uuid.UUID, status string, page, limit int) ([]models.Interview, models.Pagination, error) {
	page, limit = normalizePaging(page, limit)

	m.mu.RLock()
	matched := []models.Interview{}
	for _, iv := range m.interviews {
		if iv.AccountID != accountID {
			continue
		}
		if status != "" && iv.Status != status {
			continue
		}
		for _, q := range m.questions {
			if q.InterviewID == iv.ID {
				iv.QuestionCount++
			}
		}
		matched = append(matched, iv)
	}
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return matched[start:end], buildPagination(total, page, limit), nil
}

func (m *Memory) UpdateInterviewStatus(id uuid.UUID, status string, completedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	iv, ok := m.interviews[id]
	if !ok {
		return ErrNotFound
	}
	iv.Status = status
	iv.CompletedAt = completedAt
	iv.UpdatedAt = time.Now()
	m.interviews[id] = iv
	return nil
}

func (m *Memory) DeleteInterview(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.interviews[id]; !ok {
		return ErrNotFound
	}
	for vid, v := range m.videos {
		if v.InterviewID != id {
			continue
		}
		m.deleteFeedbackForVideoLocked(vid)
		delete(m.videos, vid)
	}
	for qid, q := range m.questions {
		if q.InterviewID == id {
			delete(m.questions, qid)
		}
	}
	delete(m.interviews, id)
	return nil
}

func (m *Memory) CreateQuestions(qs []models.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for i := range qs {
		qs[i].CreatedAt = now
		m.questions[qs[i].ID] = qs[i]
	}
	return nil
}

func (m *Memory) GetQuestion(id uuid.UUID) (*models.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.questions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &q, nil
}

func (m *Memory) ListQuestions(interviewID uuid.UUID) ([]models.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	questions := []models.Question{}
	for _, q := range m.questions {
		if q.InterviewID == interviewID {
			questions = append(questions, q)
		}
	}
	sort.Slice(questions, func(i, j int) bool {
		return questions[i].OrderNum < questions[j].OrderNum
	})
	return questions, nil
}

func (m *Memory) CountQuestions(interviewID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, q := range m.questions {
		if q.InterviewID == interviewID {
			count++
		}
	}
	return count, nil
}

func (m *Memory) DeleteQuestion(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[id]; !ok {
		return ErrNotFound
	}
	for vid, v := range m.videos {
		if v.QuestionID != id {
			continue
		}
		m.deleteFeedbackForVideoLocked(vid)
		delete(m.videos, vid)
	}
	delete(m.questions, id)
	return nil
}

func (m *Memory) CreateVideo(v *models.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.UploadedAt = time.Now()
	m.videos[v.ID] = *v
	return nil
}

func (m *Memory) GetVideo(id uuid.UUID) (*models.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.videos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (m *Memory) UpdateVideoAudioPath(id uuid.UUID, audioPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.videos[id]
	if !ok {
		return ErrNotFound
	}
	v.AudioPath = &audioPath
	m.videos[id] = v
	return nil
}

func (m *Memory) ListVideosByInterview(interviewID uuid.UUID) ([]models.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	videos := []models.Video{}
	for _, v := range m.videos {
		if v.InterviewID == interviewID {
			videos = append(videos, v)
		}
	}
	sort.Slice(videos, func(i, j int) bool {
		return videos[i].UploadedAt.Before(videos[j].UploadedAt)
	})
	return videos, nil
}

func (m *Memory) UpsertFeedback(f *models.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.feedbacks {
		if existing.VideoID == f.VideoID {
			f.ID = id
			f.CreatedAt = existing.CreatedAt
			m.feedbacks[id] = *f
			return nil
		}
	}
	f.CreatedAt = time.Now()
	m.feedbacks[f.ID] = *f
	return nil
}

func (m *Memory) GetFeedbackByVideo(videoID uuid.UUID) (*models.Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.feedbacks {
		if f.VideoID == videoID {
			return &f, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListFeedbackByInterview(interviewID uuid.UUID) ([]models.Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	feedbacks := []models.Feedback{}
	for _, f := range m.feedbacks {
		v, ok := m.videos[f.VideoID]
		if !ok || v.InterviewID != interviewID {
			continue
		}
		if q, ok := m.questions[v.QuestionID]; ok {
			f.QuestionID = q.ID
			f.QuestionText = q.QuestionText
		}
		feedbacks = append(feedbacks, f)
	}
	sort.Slice(feedbacks, func(i, j int) bool {
		qi := m.questions[m.videos[feedbacks[i].VideoID].QuestionID]
		qj := m.questions[m.videos[feedbacks[j].VideoID].QuestionID]
		return qi.OrderNum < qj.OrderNum
	})
	return feedbacks, nil
}

func (m *Memory) CreateDocument(d *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.UploadedAt = time.Now()
	m.documents[d.ID] = *d
	return nil
}

func (m *Memory) GetDocument(id uuid.UUID) (*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.documents[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (m *Memory) GetDocumentByType(accountID uuid.UUID, docType string) (*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.documents {
		if d.AccountID == accountID && d.DocumentType == docType {
			return &d, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListDocuments(accountID uuid.UUID) ([]models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	documents := []models.Document{}
	for _, d := range m.documents {
		if d.AccountID == accountID {
			documents = append(documents, d)
		}
	}
	sort.Slice(documents, func(i, j int) bool {
		return documents[i].UploadedAt.After(documents[j].UploadedAt)
	})
	return documents, nil
}

func (m *Memory) UpdateDocumentText(id uuid.UUID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.documents[id]
	if !ok {
		return ErrNotFound
	}
	d.ExtractedText = &text
	m.documents[id] = d
	return nil
}

func (m *Memory) DeleteDocument(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[id]; !ok {
		return ErrNotFound
	}
	delete(m.documents, id)
	return nil
}

func (m *Memory) deleteFeedbackForVideoLocked(videoID uuid.UUID) {
	for fid, f := range m.feedbacks {
		if f.VideoID == videoID {
			delete(m.feedbacks, fid)
		}
	}
}
