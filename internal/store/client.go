package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"interview-media-backend/internal/models"
)

// Client is the postgres-backed store. Delete cascades ride on the schema's
// ON DELETE CASCADE foreign keys.
type Client struct {
	db *sql.DB
}

func NewClient(connectionString string) (*Client, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) EnsureAccount(id uuid.UUID) error {
	_, err := c.db.Exec(`
		INSERT INTO accounts (id) VALUES ($1)
		ON CONFLICT (id) DO NOTHING
	`, id)
	return err
}

func (c *Client) CreateInterview(iv *models.Interview) error {
	return c.db.QueryRow(`
		INSERT INTO interviews (id, account_id, title, company, job_category, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, iv.ID, iv.AccountID, iv.Title, iv.Company, iv.JobCategory, iv.Status).
		Scan(&iv.CreatedAt, &iv.UpdatedAt)
}

func (c *Client) GetInterview(id uuid.UUID) (*models.Interview, error) {
	var iv models.Interview
	var completedAt sql.NullTime
	err := c.db.QueryRow(`
		SELECT id, account_id, title, company, job_category, status,
		       created_at, updated_at, completed_at
		FROM interviews
		WHERE id = $1
	`, id).Scan(
		&iv.ID, &iv.AccountID, &iv.Title, &iv.Company, &iv.JobCategory,
		&iv.Status, &iv.CreatedAt, &iv.UpdatedAt, &completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	if completedAt.Valid {
		iv.CompletedAt = &completedAt.Time
	}
	return &iv, nil
}

func (c *Client) GetInterviewWithQuestions(id uuid.UUID) (*models.Interview, error) {
	iv, err := c.GetInterview(id)
	if err != nil {
		return nil, err
	}
	questions, err := c.ListQuestions(id)
	if err != nil {
		return nil, err
	}
	iv.Questions = questions
	return iv, nil
}

func (c *Client) ListInterviews(accountID uuid.UUID, status string, page, limit int) ([]models.Interview, models.Pagination, error) {
	page, limit = normalizePaging(page, limit)
	offset := (page - 1) * limit

	query := `
		SELECT i.id, i.account_id, i.title, i.company, i.job_category, i.status,
		       i.created_at, i.updated_at, i.completed_at,
		       COUNT(q.id) AS question_count
		FROM interviews i
		LEFT JOIN questions q ON q.interview_id = i.id
		WHERE i.account_id = $1
	`
	args := []any{accountID}
	if status != "" {
		query += " AND i.status = $2"
		args = append(args, status)
	}
	query += fmt.Sprintf(`
		GROUP BY i.id
		ORDER BY i.created_at DESC
		LIMIT %d OFFSET %d`, limit, offset)

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	interviews := []models.Interview{}
	for rows.Next() {
		var iv models.Interview
		var completedAt sql.NullTime
		if err := rows.Scan(
			&iv.ID, &iv.AccountID, &iv.Title, &iv.Company, &iv.JobCategory,
			&iv.Status, &iv.CreatedAt, &iv.UpdatedAt, &completedAt,
			&iv.QuestionCount,
		); err != nil {
			return nil, models.Pagination{}, fmt.Errorf("failed to scan interview: %w", err)
		}
		if completedAt.Valid {
			iv.CompletedAt = &completedAt.Time
		}
		interviews = append(interviews, iv)
	}

	countQuery := "SELECT COUNT(*) FROM interviews WHERE account_id = $1"
	countArgs := []any{accountID}
	if status != "" {
		countQuery += " AND status = $2"
		countArgs = append(countArgs, status)
	}
	var total int
	if err := c.db.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to count interviews: %w", err)
	}

	return interviews, buildPagination(total, page, limit), nil
}

func (c *Client) UpdateInterviewStatus(id uuid.UUID, status string, completedAt *time.Time) error {
	res, err := c.db.Exec(`
		UPDATE interviews
		SET status = $1, completed_at = $2, updated_at = NOW()
		WHERE id = $3
	`, status, completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update interview status: %w", err)
	}
	return checkAffected(res)
}

func (c *Client) DeleteInterview(id uuid.UUID) error {
	res, err := c.db.Exec(`DELETE FROM interviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete interview: %w", err)
	}
	return checkAffected(res)
}

func (c *Client) CreateQuestions(qs []models.Question) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for i := range qs {
		q := &qs[i]
		err := tx.QueryRow(`
			INSERT INTO questions (id, interview_id, question_text, answer_guide, order_num, time_limit)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at
		`, q.ID, q.InterviewID, q.QuestionText, q.AnswerGuide, q.OrderNum, q.TimeLimit).
			Scan(&q.CreatedAt)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to create question: %w", err)
		}
	}
	return tx.Commit()
}

func (c *Client) GetQuestion(id uuid.UUID) (*models.Question, error) {
	var q models.Question
	var guide sql.NullString
	err := c.db.QueryRow(`
		SELECT id, interview_id, question_text, answer_guide, order_num, time_limit, created_at
		FROM questions
		WHERE id = $1
	`, id).Scan(&q.ID, &q.InterviewID, &q.QuestionText, &guide, &q.OrderNum, &q.TimeLimit, &q.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if guide.Valid {
		q.AnswerGuide = &guide.String
	}
	return &q, nil
}

func (c *Client) ListQuestions(interviewID uuid.UUID) ([]models.Question, error) {
	rows, err := c.db.Query(`
		SELECT id, interview_id, question_text, answer_guide, order_num, time_limit, created_at
		FROM questions
		WHERE interview_id = $1
		ORDER BY order_num ASC
	`, interviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var q models.Question
		var guide sql.NullString
		if err := rows.Scan(&q.ID, &q.InterviewID, &q.QuestionText, &guide, &q.OrderNum, &q.TimeLimit, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		if guide.Valid {
			q.AnswerGuide = &guide.String
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (c *Client) CountQuestions(interviewID uuid.UUID) (int, error) {
	var count int
	err := c.db.QueryRow(
		"SELECT COUNT(*) FROM questions WHERE interview_id = $1", interviewID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

func (c *Client) DeleteQuestion(id uuid.UUID) error {
	res, err := c.db.Exec(`DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return checkAffected(res)
}

func (c *Client) CreateVideo(v *models.Video) error {
	return c.db.QueryRow(`
		INSERT INTO videos (id, interview_id, question_id, video_path, audio_path, duration)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING uploaded_at
	`, v.ID, v.InterviewID, v.QuestionID, v.VideoPath, v.AudioPath, v.Duration).
		Scan(&v.UploadedAt)
}

func (c *Client) GetVideo(id uuid.UUID) (*models.Video, error) {
	var v models.Video
	var audio sql.NullString
	err := c.db.QueryRow(`
		SELECT id, interview_id, question_id, video_path, audio_path, duration, uploaded_at
		FROM videos
		WHERE id = $1
	`, id).Scan(&v.ID, &v.InterviewID, &v.QuestionID, &v.VideoPath, &audio, &v.Duration, &v.UploadedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	if audio.Valid {
		v.AudioPath = &audio.String
	}
	return &v, nil
}

func (c *Client) UpdateVideoAudioPath(id uuid.UUID, audioPath string) error {
	res, err := c.db.Exec(`
		UPDATE videos SET audio_path = $1 WHERE id = $2
	`, audioPath, id)
	if err != nil {
		return fmt.Errorf("failed to update video audio path: %w", err)
	}
	return checkAffected(res)
}

func (c *Client) ListVideosByInterview(interviewID uuid.UUID) ([]models.Video, error) {
	rows, err := c.db.Query(`
		SELECT id, interview_id, question_id, video_path, audio_path, duration, uploaded_at
		FROM videos
		WHERE interview_id = $1
		ORDER BY uploaded_at ASC
	`, interviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		var v models.Video
		var audio sql.NullString
		if err := rows.Scan(&v.ID, &v.InterviewID, &v.QuestionID, &v.VideoPath, &audio, &v.Duration, &v.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		if audio.Valid {
			v.AudioPath = &audio.String
		}
		videos = append(videos, v)
	}
	return videos, nil
}

// UpsertFeedback inserts or, when a feedback row already exists for the
// video, overwrites it in place. The video_id uniqueness constraint keeps
// the at-most-one-feedback-per-video invariant.
func (c *Client) UpsertFeedback(f *models.Feedback) error {
	return c.db.QueryRow(`
		INSERT INTO feedbacks (id, video_id, expression_score, eye_contact_score,
		                       voice_score, content_score, overall_score,
		                       good_points, bad_points, improvement)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (video_id) DO UPDATE SET
			expression_score = EXCLUDED.expression_score,
			eye_contact_score = EXCLUDED.eye_contact_score,
			voice_score = EXCLUDED.voice_score,
			content_score = EXCLUDED.content_score,
			overall_score = EXCLUDED.overall_score,
			good_points = EXCLUDED.good_points,
			bad_points = EXCLUDED.bad_points,
			improvement = EXCLUDED.improvement
		RETURNING id, created_at
	`, f.ID, f.VideoID, f.ExpressionScore, f.EyeContactScore, f.VoiceScore,
		f.ContentScore, f.OverallScore, f.GoodPoints, f.BadPoints, f.Improvement).
		Scan(&f.ID, &f.CreatedAt)
}

func (c *Client) GetFeedbackByVideo(videoID uuid.UUID) (*models.Feedback, error) {
	var f models.Feedback
	err := c.db.QueryRow(`
		SELECT id, video_id, expression_score, eye_contact_score, voice_score,
		       content_score, overall_score, good_points, bad_points, improvement, created_at
		FROM feedbacks
		WHERE video_id = $1
	`, videoID).Scan(
		&f.ID, &f.VideoID, &f.ExpressionScore, &f.EyeContactScore, &f.VoiceScore,
		&f.ContentScore, &f.OverallScore, &f.GoodPoints, &f.BadPoints, &f.Improvement,
		&f.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return &f, nil
}

func (c *Client) ListFeedbackByInterview(interviewID uuid.UUID) ([]models.Feedback, error) {
	rows, err := c.db.Query(`
		SELECT f.id, f.video_id, f.expression_score, f.eye_contact_score, f.voice_score,
		       f.content_score, f.overall_score, f.good_points, f.bad_points, f.improvement,
		       f.created_at, q.id, q.question_text
		FROM feedbacks f
		JOIN videos v ON v.id = f.video_id
		JOIN questions q ON q.id = v.question_id
		WHERE v.interview_id = $1
		ORDER BY q.order_num ASC
	`, interviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	feedbacks := []models.Feedback{}
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(
			&f.ID, &f.VideoID, &f.ExpressionScore, &f.EyeContactScore, &f.VoiceScore,
			&f.ContentScore, &f.OverallScore, &f.GoodPoints, &f.BadPoints, &f.Improvement,
			&f.CreatedAt, &f.QuestionID, &f.QuestionText,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		feedbacks = append(feedbacks, f)
	}
	return feedbacks, nil
}

func (c *Client) CreateDocument(d *models.Document) error {
	return c.db.QueryRow(`
		INSERT INTO documents (id, account_id, document_type, file_name, file_path, file_size)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING uploaded_at
	`, d.ID, d.AccountID, d.DocumentType, d.FileName, d.FilePath, d.FileSize).
		Scan(&d.UploadedAt)
}

func (c *Client) GetDocument(id uuid.UUID) (*models.Document, error) {
	return c.scanDocument(c.db.QueryRow(`
		SELECT id, account_id, document_type, file_name, file_path, file_size, extracted_text, uploaded_at
		FROM documents
		WHERE id = $1
	`, id))
}

func (c *Client) GetDocumentByType(accountID uuid.UUID, docType string) (*models.Document, error) {
	return c.scanDocument(c.db.QueryRow(`
		SELECT id, account_id, document_type, file_name, file_path, file_size, extracted_text, uploaded_at
		FROM documents
		WHERE account_id = $1 AND document_type = $2
	`, accountID, docType))
}

func (c *Client) scanDocument(row *sql.Row) (*models.Document, error) {
	var d models.Document
	var text sql.NullString
	err := row.Scan(&d.ID, &d.AccountID, &d.DocumentType, &d.FileName, &d.FilePath,
		&d.FileSize, &text, &d.UploadedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if text.Valid {
		d.ExtractedText = &text.String
	}
	return &d, nil
}

func (c *Client) ListDocuments(accountID uuid.UUID) ([]models.Document, error) {
	rows, err := c.db.Query(`
		SELECT id, account_id, document_type, file_name, file_path, file_size, extracted_text, uploaded_at
		FROM documents
		WHERE account_id = $1
		ORDER BY uploaded_at DESC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	documents := []models.Document{}
	for rows.Next() {
		var d models.Document
		var text sql.NullString
		if err := rows.Scan(&d.ID, &d.AccountID, &d.DocumentType, &d.FileName, &d.FilePath,
			&d.FileSize, &text, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if text.Valid {
			d.ExtractedText = &text.String
		}
		documents = append(documents, d)
	}
	return documents, nil
}

func (c *Client) UpdateDocumentText(id uuid.UUID, text string) error {
	res, err := c.db.Exec(`
		UPDATE documents SET extracted_text = $1 WHERE id = $2
	`, text, id)
	if err != nil {
		return fmt.Errorf("failed to update document text: %w", err)
	}
	return checkAffected(res)
}

func (c *Client) DeleteDocument(id uuid.UUID) error {
	res, err := c.db.Exec(`DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
