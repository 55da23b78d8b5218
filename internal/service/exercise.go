package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avaldes/memoria/internal/domain"
	"github.com/avaldes/memoria/internal/matcher"
	"github.com/avaldes/memoria/internal/platform/logger"
	"github.com/avaldes/memoria/internal/pool"
	"github.com/avaldes/memoria/internal/store"
)

// Phase is the lifecycle phase of an exercise attempt. Phases only move
// forward: memorize, prepare, test, results.
type Phase string

const (
	// PhaseMemorize walks the item sequence one card at a time.
	PhaseMemorize Phase = "memorize"

	// PhasePrepare is the countdown between memorizing and the test.
	PhasePrepare Phase = "prepare"

	// PhaseTest collects one answer per item.
	PhaseTest Phase = "test"

	// PhaseResults presents the scored answers; it is terminal.
	PhaseResults Phase = "results"
)

// SetupParams configures a new exercise attempt. Digits and WithLabels
// apply to the numbers module only.
type SetupParams struct {
	Count      int
	Digits     int
	WithLabels bool
}

// Prompt is one test question: what the user sees and what is expected.
type Prompt struct {
	Position int    `json:"position"`
	Text     string `json:"text"`
	Numeric  bool   `json:"numeric"`
	Expected string `json:"-"`
}

// AnswerResult is the per-item outcome of a scored test.
type AnswerResult struct {
	Position   int    `json:"position"`
	Prompt     string `json:"prompt"`
	UserAnswer string `json:"user_answer"`
	Expected   string `json:"expected"`
	Correct    bool   `json:"correct"`
}

// Attempt is the in-memory state of one exercise run. It lives for the
// duration of one navigation and is persisted only at the defined
// checkpoints (save, test submission); abandoning an attempt between
// checkpoints loses only the unsaved interaction.
type Attempt struct {
	ID       uuid.UUID
	Module   domain.Module
	Phase    Phase
	Exercise *domain.Exercise

	// Cursor is the memorize-phase position within the item sequence.
	Cursor int

	startedAt    time.Time
	prepareUntil time.Time
	prompts      []Prompt
	results      []AnswerResult
	score        *domain.Result
}

// snapshot returns a deep copy safe to hand outside the service lock.
func (a *Attempt) snapshot() *Attempt {
	out := *a
	out.Exercise = a.Exercise.Clone()
	out.prompts = append([]Prompt(nil), a.prompts...)
	out.results = append([]AnswerResult(nil), a.results...)
	if a.score != nil {
		score := *a.score
		out.score = &score
	}
	return &out
}

// ExerciseService drives the exercise lifecycle for the three modules.
// Attempts are process-local; the store only sees completed checkpoints.
// A single mutex serializes all attempt-state access: requests on the
// same handle may arrive concurrently, and callers only ever receive
// snapshot copies.
type ExerciseService struct {
	exercises store.ExerciseStore
	settings  *SettingsService
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	rng      *rand.Rand
	attempts map[uuid.UUID]*Attempt
}

// NewExerciseService creates an ExerciseService. A nil rng gets a
// time-seeded source and a nil now defaults to time.Now; tests inject
// deterministic ones.
func NewExerciseService(
	exercises store.ExerciseStore,
	settings *SettingsService,
	log *slog.Logger,
	rng *rand.Rand,
	now func() time.Time,
) *ExerciseService {
	if log == nil {
		log = slog.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &ExerciseService{
		exercises: exercises,
		settings:  settings,
		logger:    log.With(slog.String("component", "exercise_service")),
		now:       now,
		rng:       rng,
		attempts:  make(map[uuid.UUID]*Attempt),
	}
}

// TodayExercise returns today's persisted exercise for the module, or
// store.ErrExerciseNotFound when the day is still open.
func (s *ExerciseService) TodayExercise(ctx context.Context, module domain.Module) (*domain.Exercise, error) {
	if !module.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidModule, module)
	}
	return s.exercises.GetByModuleAndDate(ctx, module, domain.Today(s.now()))
}

// History returns the module's persisted exercises, newest first.
func (s *ExerciseService) History(ctx context.Context, module domain.Module) ([]*domain.Exercise, error) {
	if !module.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidModule, module)
	}
	return s.exercises.ListByModule(ctx, module)
}

// Start sets up a new attempt for the module: it generates the item
// sequence and enters the memorize phase. Returns
// ErrExerciseAlreadyCompleted when today's exercise for the module
// already exists; callers branch to the history instead.
func (s *ExerciseService) Start(ctx context.Context, module domain.Module, params SetupParams) (*Attempt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	date := domain.Today(s.now())
	_, err := s.TodayExercise(ctx, module)
	if err == nil {
		return nil, fmt.Errorf("%w: %s on %s", ErrExerciseAlreadyCompleted, module, date)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.generateItems(module, params)
	if err != nil {
		return nil, err
	}

	exercise, err := domain.NewExercise(module, date, items)
	if err != nil {
		return nil, err
	}

	attempt := &Attempt{
		ID:        uuid.New(),
		Module:    module,
		Phase:     PhaseMemorize,
		Exercise:  exercise,
		startedAt: s.now(),
	}
	s.attempts[attempt.ID] = attempt

	log.Info("exercise attempt started",
		slog.String("attempt_id", attempt.ID.String()),
		slog.String("module", string(module)),
		slog.Int("items", len(items)))
	return attempt.snapshot(), nil
}

// Retest re-enters the prepare phase for an already persisted exercise,
// picked from the history.
func (s *ExerciseService) Retest(ctx context.Context, id int64) (*Attempt, error) {
	exercise, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	countdown := time.Duration(s.settings.TimerDuration(ctx)) * time.Second

	s.mu.Lock()
	defer s.mu.Unlock()

	attempt := &Attempt{
		ID:           uuid.New(),
		Module:       exercise.Module,
		Phase:        PhasePrepare,
		Exercise:     exercise,
		startedAt:    s.now(),
		prepareUntil: s.now().Add(countdown),
	}
	s.attempts[attempt.ID] = attempt
	return attempt.snapshot(), nil
}

// Get returns a snapshot of a live attempt by its handle.
func (s *ExerciseService) Get(id uuid.UUID) (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return attempt.snapshot(), nil
}

// get looks an attempt up; the caller must hold s.mu.
func (s *ExerciseService) get(id uuid.UUID) (*Attempt, error) {
	attempt, ok := s.attempts[id]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	return attempt, nil
}

// Abandon drops a live attempt without persisting anything beyond the
// checkpoints already committed. Abandoning an unknown handle is a no-op.
func (s *ExerciseService) Abandon(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, id)
}

// CurrentItem returns the memorize-phase card under the cursor and
// whether it is the last one.
func (s *ExerciseService) CurrentItem(id uuid.UUID) (item domain.ExerciseItem, position int, last bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.get(id)
	if err != nil {
		return domain.ExerciseItem{}, 0, false, err
	}
	if attempt.Phase != PhaseMemorize {
		return domain.ExerciseItem{}, 0, false, fmt.Errorf("%w: %s", ErrInvalidPhase, attempt.Phase)
	}
	items := attempt.Exercise.Items
	return items[attempt.Cursor], attempt.Cursor + 1, attempt.Cursor == len(items)-1, nil
}

// NextItem advances the memorize walk. The walk is forward-only and stops
// at the last item, where the caller must choose SaveOnly or SaveAndTest.
func (s *ExerciseService) NextItem(id uuid.UUID) (domain.ExerciseItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.get(id)
	if err != nil {
		return domain.ExerciseItem{}, err
	}
	if attempt.Phase != PhaseMemorize {
		return domain.ExerciseItem{}, fmt.Errorf("%w: %s", ErrInvalidPhase, attempt.Phase)
	}
	if attempt.Cursor >= len(attempt.Exercise.Items)-1 {
		return domain.ExerciseItem{}, fmt.Errorf("%w: already at the last item", ErrInvalidPhase)
	}
	attempt.Cursor++
	return attempt.Exercise.Items[attempt.Cursor], nil
}

// SaveOnly closes the memorize phase, persists the exercise with its
// elapsed time and no test, and finishes the attempt.
func (s *ExerciseService) SaveOnly(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := s.saveMemorized(ctx, attempt); err != nil {
		return nil, err
	}
	delete(s.attempts, id)
	return attempt.Exercise.Clone(), nil
}

// SaveAndTest closes the memorize phase, persists the exercise and moves
// the attempt into the prepare countdown.
func (s *ExerciseService) SaveAndTest(ctx context.Context, id uuid.UUID) (*Attempt, error) {
	countdown := time.Duration(s.settings.TimerDuration(ctx)) * time.Second

	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := s.saveMemorized(ctx, attempt); err != nil {
		return nil, err
	}
	attempt.Phase = PhasePrepare
	attempt.prepareUntil = s.now().Add(countdown)
	return attempt.snapshot(), nil
}

// saveMemorized persists the finished walk; the caller must hold s.mu.
func (s *ExerciseService) saveMemorized(ctx context.Context, attempt *Attempt) error {
	if attempt.Phase != PhaseMemorize {
		return fmt.Errorf("%w: %s", ErrInvalidPhase, attempt.Phase)
	}
	if attempt.Cursor != len(attempt.Exercise.Items)-1 {
		return fmt.Errorf("%w: memorize walk not finished", ErrInvalidPhase)
	}

	attempt.Exercise.TotalElapsedSeconds = int(s.now().Sub(attempt.startedAt) / time.Second)
	return s.exercises.Create(ctx, attempt.Exercise)
}

// PrepareRemaining reports the countdown still ahead of the attempt,
// floored at zero. There is no background timer to leak: the deadline is
// evaluated on demand and dies with the attempt.
func (s *ExerciseService) PrepareRemaining(id uuid.UUID) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.get(id)
	if err != nil {
		return 0, err
	}
	if attempt.Phase != PhasePrepare {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPhase, attempt.Phase)
	}
	remaining := attempt.prepareUntil.Sub(s.now())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// BeginTest enters the test phase. Waiting for the countdown to expire
// and skipping it early both converge here.
func (s *ExerciseService) BeginTest(id uuid.UUID) ([]Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if attempt.Phase != PhasePrepare {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPhase, attempt.Phase)
	}
	attempt.Phase = PhaseTest
	attempt.prompts = buildPrompts(attempt.Exercise)
	return append([]Prompt(nil), attempt.prompts...), nil
}

// Prompts returns the test questions for an attempt in the test phase.
func (s *ExerciseService) Prompts(id uuid.UUID) ([]Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if attempt.Phase != PhaseTest {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPhase, attempt.Phase)
	}
	return append([]Prompt(nil), attempt.prompts...), nil
}

// SubmitAnswers scores one answer per item, writes the aggregate onto the
// persisted exercise and moves the attempt to results.
func (s *ExerciseService) SubmitAnswers(ctx context.Context, id uuid.UUID, answers []string) ([]AnswerResult, *domain.Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.get(id)
	if err != nil {
		return nil, nil, err
	}
	if attempt.Phase != PhaseTest {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidPhase, attempt.Phase)
	}
	if len(answers) != len(attempt.prompts) {
		return nil, nil, fmt.Errorf("%w: got %d answers for %d items",
			ErrAnswerCount, len(answers), len(attempt.prompts))
	}

	results := make([]AnswerResult, len(answers))
	correct := 0
	for i, prompt := range attempt.prompts {
		ok := matcher.IsCorrect(answers[i], prompt.Expected, prompt.Numeric)
		if ok {
			correct++
		}
		results[i] = AnswerResult{
			Position:   prompt.Position,
			Prompt:     prompt.Text,
			UserAnswer: answers[i],
			Expected:   prompt.Expected,
			Correct:    ok,
		}
	}

	score := &domain.Result{Correct: correct, Total: len(answers)}
	attempt.Exercise.LastResult = score
	if err := s.exercises.Update(ctx, attempt.Exercise); err != nil {
		attempt.Exercise.LastResult = nil
		return nil, nil, err
	}

	attempt.Phase = PhaseResults
	attempt.results = results
	attempt.score = score

	log.Info("test scored",
		slog.String("attempt_id", attempt.ID.String()),
		slog.String("module", string(attempt.Module)),
		slog.Int("correct", correct),
		slog.Int("total", len(answers)))
	return append([]AnswerResult(nil), results...), &domain.Result{Correct: correct, Total: len(answers)}, nil
}

// Results returns the scored answers of a finished attempt.
func (s *ExerciseService) Results(id uuid.UUID) ([]AnswerResult, *domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.get(id)
	if err != nil {
		return nil, nil, err
	}
	if attempt.Phase != PhaseResults {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidPhase, attempt.Phase)
	}
	score := *attempt.score
	return append([]AnswerResult(nil), attempt.results...), &score, nil
}

// generateItems produces the item sequence for a new attempt; the caller
// must hold s.mu for the rng.
func (s *ExerciseService) generateItems(module domain.Module, params SetupParams) ([]domain.ExerciseItem, error) {
	if params.Count < 1 || params.Count > 100 {
		return nil, fmt.Errorf("%w: item count must be between 1 and 100", domain.ErrValidation)
	}

	switch module {
	case domain.ModuleNumbers:
		return s.generateNumbers(params)
	case domain.ModuleObjects:
		return s.generateWords(pool.Objects, params.Count)
	case domain.ModuleConcepts:
		return s.generateWords(pool.Concepts, params.Count)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidModule, module)
	}
}

// generateNumbers rejection-samples distinct N-digit numbers with a
// nonzero leading digit, optionally pairing each with an object label.
func (s *ExerciseService) generateNumbers(params SetupParams) ([]domain.ExerciseItem, error) {
	if params.Digits < 1 || params.Digits > 10 {
		return nil, fmt.Errorf("%w: digit count must be between 1 and 10", domain.ErrValidation)
	}

	min := int64(1)
	for i := 1; i < params.Digits; i++ {
		min *= 10
	}
	max := min*10 - 1
	distinct := max - min + 1
	if int64(params.Count) > distinct {
		return nil, fmt.Errorf("%w: only %d distinct %d-digit numbers exist",
			domain.ErrValidation, distinct, params.Digits)
	}

	used := make(map[int64]bool, params.Count)
	numbers := make([]int64, 0, params.Count)
	for len(numbers) < params.Count {
		n := min + s.rng.Int63n(distinct)
		if used[n] {
			continue
		}
		used[n] = true
		numbers = append(numbers, n)
	}

	var labels []string
	if params.WithLabels {
		labels = pool.SampleWithoutReplacement(s.rng, pool.Objects, params.Count)
	}

	items := make([]domain.ExerciseItem, params.Count)
	for i, n := range numbers {
		items[i] = domain.ExerciseItem{Number: strconv.FormatInt(n, 10)}
		if labels != nil {
			items[i].Label = labels[i]
		}
	}
	return items, nil
}

func (s *ExerciseService) generateWords(candidates []string, count int) ([]domain.ExerciseItem, error) {
	if count > len(candidates) {
		return nil, fmt.Errorf("%w: pool holds only %d candidates", domain.ErrValidation, len(candidates))
	}

	words := pool.SampleWithoutReplacement(s.rng, candidates, count)

	items := make([]domain.ExerciseItem, len(words))
	for i, w := range words {
		items[i] = domain.ExerciseItem{Label: w}
	}
	return items, nil
}

// buildPrompts derives the test questions from the module: numbers expect
// the digits back (cued by the paired label when one exists, by position
// otherwise); objects and concepts expect the word at each position.
func buildPrompts(exercise *domain.Exercise) []Prompt {
	prompts := make([]Prompt, len(exercise.Items))
	for i, item := range exercise.Items {
		p := Prompt{Position: i + 1}
		switch exercise.Module {
		case domain.ModuleNumbers:
			p.Numeric = true
			p.Expected = item.Number
			if item.Label != "" {
				p.Text = item.Label
			} else {
				p.Text = fmt.Sprintf("Position %d", i+1)
			}
		case domain.ModuleObjects, domain.ModuleConcepts:
			p.Expected = item.Label
			p.Text = fmt.Sprintf("Position %d", i+1)
		}
		prompts[i] = p
	}
	return prompts
}
