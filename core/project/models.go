package project

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/rubrica/core"
)

type Status string

// Statuses
const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusEvaluated Status = "evaluated"
)

var AllStatuses = []Status{StatusDraft, StatusSubmitted, StatusEvaluated}

// transitions lists the states reachable from each state. Evaluated is terminal.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusEvaluated},
}

func (s Status) Valid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }

// CanTransition reports whether a project may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, st := range transitions[from] {
		if st == to {
			return true
		}
	}
	return false
}

type Milestone struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// DefaultMilestones is the template attached to freshly submitted projects.
func DefaultMilestones() []Milestone {
	return []Milestone{
		{Title: "Proposal", Done: true},
		{Title: "Design", Done: true},
		{Title: "Development", Done: true},
		{Title: "Testing", Done: false},
	}
}

type Category string

// Rubric categories
const (
	Innovation    Category = "innovation"
	Technical     Category = "technical"
	Presentation  Category = "presentation"
	Documentation Category = "documentation"
	Teamwork      Category = "teamwork"
)

// Categories in display order.
var Categories = []Category{Innovation, Technical, Presentation, Documentation, Teamwork}

// ceilings sum to 100.
var ceilings = map[Category]int{
	Innovation:    20,
	Technical:     25,
	Presentation:  20,
	Documentation: 20,
	Teamwork:      15,
}

// Ceiling is the maximum score of category c.
func Ceiling(c Category) int { return ceilings[c] }

type Rubric struct {
	Innovation    int `json:"innovation"`
	Technical     int `json:"technical"`
	Presentation  int `json:"presentation"`
	Documentation int `json:"documentation"`
	Teamwork      int `json:"teamwork"`
}

func (r Rubric) Get(c Category) int {
	switch c {
	case Innovation:
		return r.Innovation
	case Technical:
		return r.Technical
	case Presentation:
		return r.Presentation
	case Documentation:
		return r.Documentation
	case Teamwork:
		return r.Teamwork
	}
	return 0
}

func (r *Rubric) Set(c Category, v int) {
	switch c {
	case Innovation:
		r.Innovation = v
	case Technical:
		r.Technical = v
	case Presentation:
		r.Presentation = v
	case Documentation:
		r.Documentation = v
	case Teamwork:
		r.Teamwork = v
	}
}

// Score clamps every category of r into [0, ceiling] and sums the result.
func Score(r Rubric) (Rubric, int) {
	var clamped Rubric
	var marks int
	for _, c := range Categories {
		v := r.Get(c)
		if v < 0 {
			v = 0
		}
		if ceiling := Ceiling(c); v > ceiling {
			v = ceiling
		}
		clamped.Set(c, v)
		marks += v
	}
	return clamped, marks
}

// Total sums the categories as they are, without clamping.
func (r Rubric) Total() int {
	var total int
	for _, c := range Categories {
		total += r.Get(c)
	}
	return total
}

type Evaluation struct {
	Marks       int       `json:"marks"`
	Feedback    string    `json:"feedback"`
	Rubric      Rubric    `json:"rubric"`
	EvaluatedBy string    `json:"evaluatedBy"`
	EvaluatedAt time.Time `json:"evaluatedAt"`
}

type Project struct {
	ID          string      `json:"id"`
	StudentID   string      `json:"studentId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Tech        string      `json:"tech"`
	Status      Status      `json:"status"`
	SubmittedAt *time.Time  `json:"submittedAt"`
	FileName    *string     `json:"fileName"`
	Milestones  []Milestone `json:"milestones"`
	Evaluation  *Evaluation `json:"evaluation"`
}

// Clone returns a deep copy of p.
func (p Project) Clone() Project {
	c := p
	if p.SubmittedAt != nil {
		t := *p.SubmittedAt
		c.SubmittedAt = &t
	}
	if p.FileName != nil {
		f := *p.FileName
		c.FileName = &f
	}
	if p.Milestones != nil {
		c.Milestones = make([]Milestone, len(p.Milestones))
		copy(c.Milestones, p.Milestones)
	}
	if p.Evaluation != nil {
		ev := *p.Evaluation
		c.Evaluation = &ev
	}
	return c
}

// CheckInvariants verifies that status, submission time and evaluation agree.
func (p Project) CheckInvariants() error {
	if !p.Status.Valid() {
		return errors.Errorf("project %s: unknown status %q", p.ID, p.Status)
	}
	if (p.Evaluation != nil) != (p.Status == StatusEvaluated) {
		return errors.Errorf("project %s: evaluation must be set exactly when status is %s", p.ID, StatusEvaluated)
	}
	if (p.SubmittedAt != nil) != (p.Status != StatusDraft) {
		return errors.Errorf("project %s: submittedAt must be set exactly when status is not %s", p.ID, StatusDraft)
	}
	if ev := p.Evaluation; ev != nil {
		if core.CleanString(ev.Feedback) == "" {
			return errors.Errorf("project %s: evaluation feedback is required", p.ID)
		}
		clamped, marks := Score(ev.Rubric)
		if clamped != ev.Rubric {
			return errors.Errorf("project %s: rubric %+v exceeds the category ceilings", p.ID, ev.Rubric)
		}
		if marks != ev.Marks {
			return errors.Errorf("project %s: marks %d do not match the rubric total %d", p.ID, ev.Marks, marks)
		}
	}
	return nil
}

// normalizeTimes stores timestamps in UTC at millisecond precision, the precision every
// backend keeps.
func (p *Project) normalizeTimes() {
	if p.SubmittedAt != nil {
		t := p.SubmittedAt.UTC().Truncate(time.Millisecond)
		p.SubmittedAt = &t
	}
	if p.Evaluation != nil {
		p.Evaluation.EvaluatedAt = p.Evaluation.EvaluatedAt.UTC().Truncate(time.Millisecond)
	}
}

// MarkEvaluated attaches ev and moves p to StatusEvaluated.
func (p *Project) MarkEvaluated(ev Evaluation) error {
	if !CanTransition(p.Status, StatusEvaluated) {
		return &core.InvalidStateTransition{From: p.Status.String(), To: StatusEvaluated.String()}
	}
	p.Status = StatusEvaluated
	p.Evaluation = &ev
	return nil
}

// Tags splits the comma separated tech stack.
func (p Project) Tags() []string {
	var tags []string
	for _, t := range strings.Split(p.Tech, ",") {
		if t = core.CleanString(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Submission contains information needed to submit a new Project.
type Submission struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	Tech        string `json:"tech" validate:"notblank"`
	FileName    string `json:"fileName"`
}

func (s *Submission) Validate() error {
	s.Title = core.CleanString(s.Title)
	s.Description = core.CleanString(s.Description)
	s.Tech = core.CleanString(s.Tech)
	s.FileName = core.CleanString(s.FileName)
	return core.ValidateStruct(s)
}
