package planning

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
	"github.com/Qu4nh/AI-Life-Coach/internal/llm"
)

// PlannedTask is one model-proposed task before persistence.
type PlannedTask struct {
	Date           string `json:"date"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	EnergyRequired int    `json:"energy_required"`
}

// Roadmap is the structured result of the initial generation call. When the
// onboarding conversation contains no recognizable goal the model sets
// IsNonsense and fills Message instead of the plan fields.
type Roadmap struct {
	IsNonsense  bool          `json:"is_nonsense"`
	Message     string        `json:"message"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	TargetDate  *string       `json:"target_date"`
	Tasks       []PlannedTask `json:"tasks"`
}

// ReplanResult is the structured result of a re-plan call.
type ReplanResult struct {
	Tasks     []PlannedTask `json:"tasks"`
	CoachNote string        `json:"coach_note"`
}

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Extractor runs generation calls and normalizes their structured output.
type Extractor struct {
	client      llm.Client
	temperature float32
}

func NewExtractor(client llm.Client, temperature float32) *Extractor {
	return &Extractor{client: client, temperature: temperature}
}

// ExtractRoadmap asks the model for an initial roadmap over the given prompt
// and returns the normalized result. Model failures surface as the llm
// sentinel errors; malformed output surfaces as *llm.ParseError.
func (e *Extractor) ExtractRoadmap(ctx context.Context, prompt string, today time.Time) (*Roadmap, error) {
	resp, err := e.client.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: roadmapSystemInstruction,
		UserPrompt:   prompt,
		Temperature:  &e.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("roadmap generation: %w", err)
	}

	roadmap, err := llm.ExtractJSON[Roadmap](resp.Text, validateRoadmap)
	if err != nil {
		return nil, err
	}

	if roadmap.IsNonsense {
		return &roadmap, nil
	}
	if td := roadmap.TargetDate; td != nil && !isoDatePattern.MatchString(*td) {
		roadmap.TargetDate = nil
	}
	roadmap.Tasks = normalizeTasks(roadmap.Tasks, today)
	return &roadmap, nil
}

// ExtractReplan asks the model to rebuild the pending portion of a plan.
func (e *Extractor) ExtractReplan(ctx context.Context, prompt string, today time.Time) (*ReplanResult, error) {
	resp, err := e.client.Generate(ctx, llm.GenerateRequest{
		UserPrompt:  prompt,
		Temperature: &e.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("replan generation: %w", err)
	}

	result, err := llm.ExtractJSON[ReplanResult](resp.Text, validateReplan)
	if err != nil {
		return nil, err
	}
	result.Tasks = normalizeTasks(result.Tasks, today)
	return &result, nil
}

func validateRoadmap(r Roadmap) error {
	if r.IsNonsense {
		if strings.TrimSpace(r.Message) == "" {
			return errors.New("nonsense verdict without message")
		}
		return nil
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("roadmap missing title")
	}
	if len(r.Tasks) == 0 {
		return errors.New("roadmap has no tasks")
	}
	return validateTasks(r.Tasks)
}

func validateReplan(r ReplanResult) error {
	if len(r.Tasks) == 0 {
		return errors.New("replan has no tasks")
	}
	return validateTasks(r.Tasks)
}

func validateTasks(tasks []PlannedTask) error {
	for i, t := range tasks {
		if strings.TrimSpace(t.Title) == "" {
			return fmt.Errorf("task %d missing title", i)
		}
	}
	return nil
}

// normalizeTasks clamps energies into the 1-5 band and replaces missing or
// malformed dates with today. Calendar-invalid strings that match the shape
// (e.g. 2025-02-31) also fall back to today.
func normalizeTasks(tasks []PlannedTask, today time.Time) []PlannedTask {
	todayStr := today.Format("2006-01-02")
	out := make([]PlannedTask, len(tasks))
	for i, t := range tasks {
		t.Title = strings.TrimSpace(t.Title)
		t.EnergyRequired = entities.ClampEnergy(t.EnergyRequired)
		if !isValidISODate(t.Date) {
			t.Date = todayStr
		}
		out[i] = t
	}
	return out
}

func isValidISODate(s string) bool {
	if !isoDatePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
