package model

import "time"

// StoredMeta is the metadata block of a session in the storage file
type StoredMeta struct {
	Filename string    `json:"filename"`
	Theme    string    `json:"theme"`
	CTime    Timestamp `json:"ctime"`
	FileSize int64     `json:"file_size"`
	QACount  int       `json:"qa_count"`
}

// StoredSession is one entry of the storage file: a session with all its turns
type StoredSession struct {
	Meta    StoredMeta         `json:"meta"`
	QAPairs []ConversationTurn `json:"qa_pairs"`
}

// StartTime is the first turn's timestamp, or the file creation time when the first turn has none
func (s StoredSession) StartTime() (time.Time, bool) {
	if len(s.QAPairs) > 0 {
		if t, ok := s.QAPairs[0].Time(); ok {
			return t, true
		}
	}
	return resolve(&s.Meta.CTime)
}

// Summary projects a stored session onto the session list shape
func (s StoredSession) Summary() Session {
	session := Session{
		ID:      s.Meta.Filename,
		Theme:   s.Meta.Theme,
		QACount: len(s.QAPairs),
	}
	if start, ok := s.StartTime(); ok {
		session.CreatedTime = NewTimestamp(start)
	}
	if len(s.QAPairs) > 0 {
		session.FirstQuestion = s.QAPairs[0].Question
	}
	return session
}
