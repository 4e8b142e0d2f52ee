package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/penwyp/go-talkshow/internal/core/model"
	"github.com/penwyp/go-talkshow/internal/util"
)

// ErrNoTurns is returned for an export without a single answered question
var ErrNoTurns = errors.New("no question/answer pairs found")

var (
	// YYYY-MM-DD_HH-mmZ-description.md
	themePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}_\d{2}-\d{2}Z-(.+)\.md$`)
	// _**User**_ or _**Assistant (2024-01-01 10:00Z)**_
	speakerPattern = regexp.MustCompile(`^_\*\*(User|Assistant)(?: \(([^)]*)\))?\*\*_`)
	promptPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]+@[a-zA-Z0-9_-]+:`)
	stampPattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`)
)

// header layouts of speaker lines; a trailing Z means UTC
var headerLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

type speaker int

const (
	speakerOther speaker = iota
	speakerUser
	speakerAssistant
)

// Parser turns markdown chat history exports into stored sessions
type Parser struct {
	concurrency int
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File    string
	Session *model.StoredSession
	Error   error
}

// NewParser creates a parser reading up to concurrency files at once
func NewParser(concurrency int) *Parser {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Parser{concurrency: concurrency}
}

// ThemeFromFilename extracts the description of an export name, or returns the name unchanged
func ThemeFromFilename(filename string) string {
	if m := themePattern.FindStringSubmatch(filename); m != nil {
		return m[1]
	}
	return filename
}

// ParseFile parses one export; without timestamped answers the file modification time is the creation time
func (p *Parser) ParseFile(path string) (*model.StoredSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return ParseContent(filepath.Base(path), string(data), info.ModTime())
}

// ParseContent parses the text of one export named filename
func ParseContent(filename, content string, modTime time.Time) (*model.StoredSession, error) {
	turns := extractTurns(content)
	if len(turns) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoTurns)
	}

	created := modTime
	for _, turn := range turns {
		if at, ok := turn.Time(); ok {
			created = at
			break
		}
	}

	return &model.StoredSession{
		Meta: model.StoredMeta{
			Filename: filename,
			Theme:    ThemeFromFilename(filename),
			CTime:    model.Timestamp(created),
			FileSize: int64(len(content)),
			QACount:  len(turns),
		},
		QAPairs: turns,
	}, nil
}

// ParseFiles parses multiple files concurrently and returns a channel of ParseResult.
func (p *Parser) ParseFiles(files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	var wg sync.WaitGroup

	util.LogDebugf("Start concurrent parsing of %d files, concurrency: %d", len(files), p.concurrency)

	semaphore := make(chan struct{}, p.concurrency)
	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			session, err := p.ParseFile(f)
			if err != nil {
				util.LogDebugf("File parsing failed: %s - %v", f, err)
			}
			results <- ParseResult{File: f, Session: session, Error: err}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
		util.LogDebugf("Concurrent parsing finished, total duration: %v", time.Since(start))
	}()

	return results
}

// SortByCreation orders sessions by creation time, then file name
func SortByCreation(sessions []model.StoredSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		ti, tj := sessions[i].Meta.CTime.Time(), sessions[j].Meta.CTime.Time()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return sessions[i].Meta.Filename < sessions[j].Meta.Filename
	})
}

// splitSections cuts the export at --- separator lines outside fenced blocks
func splitSections(content string) []string {
	var (
		sections []string
		current  strings.Builder
		fenced   bool
	)
	flush := func() {
		if text := strings.TrimSpace(current.String()); text != "" {
			sections = append(sections, text)
		}
		current.Reset()
	}

	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			fenced = !fenced
		}
		if trimmed == "---" && !fenced {
			flush()
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	flush()
	return sections
}

// speakerLine reports the speaker of a header line and the time it carries
func speakerLine(line string) (speaker, string, bool) {
	m := speakerPattern.FindStringSubmatch(line)
	if m == nil {
		return speakerOther, "", false
	}
	if m[1] == "User" {
		return speakerUser, m[2], true
	}
	return speakerAssistant, m[2], true
}

func isSpeakerHeader(line string) bool {
	m := speakerPattern.FindString(line)
	return m != "" && len(m) == len(line)
}

func sectionSpeaker(section string) speaker {
	for _, line := range strings.Split(section, "\n") {
		if who, _, ok := speakerLine(strings.TrimSpace(line)); ok {
			return who
		}
	}
	return speakerOther
}

func extractTurns(content string) []model.ConversationTurn {
	var (
		turns    []model.ConversationTurn
		question string
		answers  []string
	)
	flush := func() {
		if question != "" && len(answers) > 0 {
			if turn, ok := buildTurn(question, answers); ok {
				turns = append(turns, turn)
			}
		}
		answers = nil
	}

	for _, section := range splitSections(content) {
		switch sectionSpeaker(section) {
		case speakerUser:
			flush()
			question = userText(section)
		case speakerAssistant:
			answers = append(answers, section)
		default:
			// continuation of the answer, unless it is a bare tool block
			if question != "" && len(answers) > 0 && !strings.HasPrefix(section, "```") {
				answers = append(answers, section)
			}
		}
	}
	flush()
	return turns
}

func buildTurn(question string, answers []string) (model.ConversationTurn, bool) {
	answer := assistantText(strings.Join(answers, "\n---\n"))
	if answer == "" {
		return model.ConversationTurn{}, false
	}

	turn := model.ConversationTurn{Question: question, Answer: answer}
	if at, ok := answerTime(answers); ok {
		turn.Timestamp = model.NewTimestamp(at)
	}
	return turn, true
}

// userText keeps the non-empty lines after the user header
func userText(section string) string {
	var lines []string
	found := false
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if who, _, ok := speakerLine(line); ok && who == speakerUser && isSpeakerHeader(line) {
			found = true
			continue
		}
		if found && line != "" {
			lines = append(lines, line)
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// assistantText drops headers, fenced command blocks, separators and command artifacts
func assistantText(section string) string {
	var lines []string
	fenced := false
	for _, line := range strings.Split(section, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case isSpeakerHeader(trimmed):
			continue
		case strings.HasPrefix(trimmed, "```"):
			fenced = !fenced
			continue
		case fenced, trimmed == "---":
			continue
		case len(lines) == 0 && trimmed == "":
			continue
		case promptPattern.MatchString(trimmed), stampPattern.MatchString(trimmed):
			continue
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// answerTime returns the first time found on an assistant header
func answerTime(sections []string) (time.Time, bool) {
	for _, section := range sections {
		for _, line := range strings.Split(section, "\n") {
			who, stamp, ok := speakerLine(strings.TrimSpace(line))
			if !ok || who != speakerAssistant || stamp == "" {
				continue
			}
			if at, err := parseHeaderTime(stamp); err == nil {
				return at, true
			}
		}
	}
	return time.Time{}, false
}

func parseHeaderTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if strings.HasSuffix(value, "Z") {
		for _, layout := range headerLayouts {
			if at, err := time.ParseInLocation(layout, strings.TrimSuffix(value, "Z"), time.UTC); err == nil {
				return at, nil
			}
		}
	}
	return model.ParseTimestamp(value)
}
