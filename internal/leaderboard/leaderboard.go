// Package leaderboard keeps per-user best scores and submission history for
// each test set, and renders the ranked markdown table published with them.
package leaderboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/BojarLab/GlycoGauntlet/pkg/schema"
)

var (
	ErrInvalidUser    = errors.New("leaderboard: user name is required")
	ErrInvalidScore   = errors.New("leaderboard: score must be a finite number")
	ErrInvalidTestSet = errors.New("leaderboard: test set name must be alphanumeric")
	ErrCorrupt        = errors.New("leaderboard: scores file does not match schema")
)

var testSetPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type Submission struct {
	Score        float64 `json:"score"`
	Timestamp    string  `json:"timestamp"`
	SubmissionID string  `json:"submission_id,omitempty"`
	Digest       string  `json:"digest,omitempty"`
}

type UserScores struct {
	BestScore   float64      `json:"best_score"`
	Submissions []Submission `json:"submissions"`
}

// Scores maps user name to that user's record.
type Scores map[string]*UserScores

// Standing is one ranked row of the rendered table.
type Standing struct {
	Rank        int
	User        string
	BestScore   float64
	Submissions int
}

// Board stores one scores file per test set under Dir. Now and NewID are
// replaceable for tests.
type Board struct {
	Dir   string
	Now   func() time.Time
	NewID func() string
}

// New returns a Board rooted at dir that stamps entries in UTC.
func New(dir string) *Board {
	return &Board{
		Dir:   dir,
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
}

func (b *Board) ScoresPath(testSet string) string {
	return filepath.Join(b.Dir, testSet+"_scores.json")
}

func (b *Board) MarkdownPath(testSet string) string {
	return filepath.Join(b.Dir, testSet+".md")
}

// Load reads the scores of testSet. A missing file yields an empty board.
func (b *Board) Load(testSet string) (Scores, error) {
	if !testSetPattern.MatchString(testSet) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTestSet, testSet)
	}
	path := b.ScoresPath(testSet)
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Scores{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read scores %s: %w", path, err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse scores %s: %w", path, err)
	}
	errs, err := schema.ValidateBuiltin(schema.Leaderboard, doc)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w %s: %s", ErrCorrupt, path, strings.Join(errs, "; "))
	}
	scores := Scores{}
	if err := json.Unmarshal(raw, &scores); err != nil {
		return nil, fmt.Errorf("parse scores %s: %w", path, err)
	}
	return scores, nil
}

// Update records a submission for user on testSet, raises the user's best
// score when beaten, and rewrites both the scores file and the markdown table.
// digest may be empty.
func (b *Board) Update(user string, score float64, testSet, digest string) (Submission, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return Submission{}, ErrInvalidUser
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return Submission{}, fmt.Errorf("%w: %v", ErrInvalidScore, score)
	}
	scores, err := b.Load(testSet)
	if err != nil {
		return Submission{}, err
	}

	now := b.Now()
	sub := Submission{
		Score:        score,
		Timestamp:    now.Format(time.RFC3339Nano),
		SubmissionID: b.NewID(),
		Digest:       digest,
	}
	rec, ok := scores[user]
	if !ok {
		rec = &UserScores{BestScore: score}
		scores[user] = rec
	} else if score > rec.BestScore {
		rec.BestScore = score
	}
	rec.Submissions = append(rec.Submissions, sub)

	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return Submission{}, fmt.Errorf("create leaderboard dir: %w", err)
	}
	raw, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return Submission{}, err
	}
	if err := os.WriteFile(b.ScoresPath(testSet), raw, 0o644); err != nil {
		return Submission{}, fmt.Errorf("write scores: %w", err)
	}
	md := BuildMarkdown(testSet, Rank(scores), now)
	if err := os.WriteFile(b.MarkdownPath(testSet), []byte(md), 0o644); err != nil {
		return Submission{}, fmt.Errorf("write leaderboard markdown: %w", err)
	}
	return sub, nil
}

// Rank orders users by best score, highest first, breaking ties by name.
func Rank(scores Scores) []Standing {
	out := make([]Standing, 0, len(scores))
	for user, rec := range scores {
		out = append(out, Standing{User: user, BestScore: rec.BestScore, Submissions: len(rec.Submissions)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BestScore != out[j].BestScore {
			return out[i].BestScore > out[j].BestScore
		}
		return out[i].User < out[j].User
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func BuildMarkdown(testSet string, standings []Standing, updated time.Time) string {
	var b strings.Builder
	title := cases.Title(language.English).String(strings.ReplaceAll(testSet, "_", " "))
	b.WriteString(fmt.Sprintf("# %s Test Leaderboard\n\n", title))
	b.WriteString(fmt.Sprintf("Last updated: %s\n\n", updated.UTC().Format("2006-01-02 15:04:05 UTC")))
	b.WriteString("| Rank | Username | Best F1 Score | Submissions |\n")
	b.WriteString("|------|----------|---------------|-------------|\n")
	for _, s := range standings {
		b.WriteString(fmt.Sprintf("| %d | %s | %.4f | %d |\n", s.Rank, strings.ReplaceAll(s.User, "|", "\\|"), s.BestScore, s.Submissions))
	}
	return b.String()
}
