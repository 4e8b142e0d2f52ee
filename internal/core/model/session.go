package model

import "time"

// Session is one recorded conversation, rendered as a column
type Session struct {
	ID            string     `json:"filename" toml:"filename"`
	Theme         string     `json:"theme" toml:"theme"`
	CreatedTime   *Timestamp `json:"created_time,omitempty" toml:"created_time,omitempty"`
	FirstQuestion string     `json:"first_question,omitempty" toml:"first_question,omitempty"`
	QACount       int        `json:"qa_count" toml:"qa_count"`
}

// StartTime returns the session creation instant, or false when it is absent
func (s Session) StartTime() (time.Time, bool) {
	return resolve(s.CreatedTime)
}

// ConversationTurn is one question/answer exchange within a session
type ConversationTurn struct {
	Question        string     `json:"question" toml:"question"`
	Answer          string     `json:"answer" toml:"answer"`
	QuestionSummary string     `json:"question_summary,omitempty" toml:"question_summary,omitempty"`
	AnswerSummary   string     `json:"answer_summary,omitempty" toml:"answer_summary,omitempty"`
	Timestamp       *Timestamp `json:"timestamp,omitempty" toml:"timestamp,omitempty"`
}

// Time returns the turn instant, or false when it is absent
func (t ConversationTurn) Time() (time.Time, bool) {
	return resolve(t.Timestamp)
}

// SessionContent is the per-session payload of the data source
type SessionContent struct {
	QAPairs []ConversationTurn `json:"qa_pairs" toml:"qa_pairs"`
}

// Stats are aggregate counters displayed in the header
type Stats struct {
	TotalSessions       int     `json:"total_sessions" toml:"total_sessions"`
	TotalQAPairs        int     `json:"total_qa_pairs" toml:"total_qa_pairs"`
	QuestionSummaries   int     `json:"question_summaries" toml:"question_summaries"`
	AnswerSummaries     int     `json:"answer_summaries" toml:"answer_summaries"`
	AverageQAPerSession float64 `json:"average_qa_per_session" toml:"average_qa_per_session"`
	StorageFileSize     int64   `json:"storage_file_size" toml:"storage_file_size"`
}

// TimelineEntry is one row of the data source's flat timeline
type TimelineEntry struct {
	Filename    string     `json:"filename" toml:"filename"`
	Theme       string     `json:"theme" toml:"theme"`
	CreatedTime *Timestamp `json:"created_time,omitempty" toml:"created_time,omitempty"`
	QACount     int        `json:"qa_count" toml:"qa_count"`
}
