package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avaldes/memoria/internal/domain"
	"github.com/avaldes/memoria/internal/platform/logger"
	"github.com/avaldes/memoria/internal/store"
)

// ExerciseStore implements the store.ExerciseStore interface using a
// sqlite database as the storage backend. The (module, date) uniqueness
// invariant is enforced by a unique index; violations surface as
// store.ErrDuplicateExercise from both Create and Update.
type ExerciseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewExerciseStore creates a sqlite implementation of the ExerciseStore
// interface. It accepts a database connection or transaction that should
// be initialized and managed by the caller.
func NewExerciseStore(db store.DBTX, log *slog.Logger) *ExerciseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ExerciseStore{
		db:     db,
		logger: log.With(slog.String("component", "exercise_store")),
	}
}

// Ensure ExerciseStore implements store.ExerciseStore
var _ store.ExerciseStore = (*ExerciseStore)(nil)

// Create implements store.ExerciseStore.Create.
func (s *ExerciseStore) Create(ctx context.Context, exercise *domain.Exercise) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := exercise.Validate(); err != nil {
		log.Warn("exercise validation failed during create",
			slog.String("error", err.Error()),
			slog.String("module", string(exercise.Module)),
			slog.String("date", exercise.Date))
		return err
	}

	items, correct, total, err := encodeExercise(exercise)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO exercises (module, date, items, total_elapsed_seconds, result_correct, result_total)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, query,
		exercise.Module,
		exercise.Date,
		items,
		exercise.TotalElapsedSeconds,
		correct,
		total,
	)
	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("duplicate exercise for module and date",
				slog.String("module", string(exercise.Module)),
				slog.String("date", exercise.Date))
			return fmt.Errorf("%w: %s on %s", store.ErrDuplicateExercise, exercise.Module, exercise.Date)
		}
		log.Error("failed to create exercise",
			slog.String("error", err.Error()),
			slog.String("module", string(exercise.Module)),
			slog.String("date", exercise.Date))
		return fmt.Errorf("%w: create exercise: %w", store.ErrStorageFailure, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: read assigned exercise id: %w", store.ErrStorageFailure, err)
	}
	exercise.ID = id

	log.Info("exercise created",
		slog.Int64("exercise_id", id),
		slog.String("module", string(exercise.Module)),
		slog.String("date", exercise.Date),
		slog.Int("items", len(exercise.Items)))
	return nil
}

// Update implements store.ExerciseStore.Update.
func (s *ExerciseStore) Update(ctx context.Context, exercise *domain.Exercise) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := exercise.Validate(); err != nil {
		log.Warn("exercise validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("exercise_id", exercise.ID))
		return err
	}

	items, correct, total, err := encodeExercise(exercise)
	if err != nil {
		return err
	}

	query := `
		UPDATE exercises
		SET module = ?, date = ?, items = ?, total_elapsed_seconds = ?, result_correct = ?, result_total = ?
		WHERE id = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		exercise.Module,
		exercise.Date,
		items,
		exercise.TotalElapsedSeconds,
		correct,
		total,
		exercise.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s on %s", store.ErrDuplicateExercise, exercise.Module, exercise.Date)
		}
		log.Error("failed to update exercise",
			slog.String("error", err.Error()),
			slog.Int64("exercise_id", exercise.ID))
		return fmt.Errorf("%w: update exercise: %w", store.ErrStorageFailure, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: read update result: %w", store.ErrStorageFailure, err)
	}
	if rows == 0 {
		return store.ErrExerciseNotFound
	}

	log.Debug("exercise updated", slog.Int64("exercise_id", exercise.ID))
	return nil
}

// GetByID implements store.ExerciseStore.GetByID.
func (s *ExerciseStore) GetByID(ctx context.Context, id int64) (*domain.Exercise, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, module, date, items, total_elapsed_seconds, result_correct, result_total
		FROM exercises
		WHERE id = ?
	`, id)
	return scanExercise(row)
}

// GetByModuleAndDate implements store.ExerciseStore.GetByModuleAndDate.
func (s *ExerciseStore) GetByModuleAndDate(ctx context.Context, module domain.Module, date string) (*domain.Exercise, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, module, date, items, total_elapsed_seconds, result_correct, result_total
		FROM exercises
		WHERE module = ? AND date = ?
	`, module, date)
	return scanExercise(row)
}

// ListByModule implements store.ExerciseStore.ListByModule.
func (s *ExerciseStore) ListByModule(ctx context.Context, module domain.Module) ([]*domain.Exercise, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, module, date, items, total_elapsed_seconds, result_correct, result_total
		FROM exercises
		WHERE module = ?
		ORDER BY date DESC
	`, module)
	if err != nil {
		log.Error("failed to list exercises",
			slog.String("error", err.Error()),
			slog.String("module", string(module)))
		return nil, fmt.Errorf("%w: list exercises: %w", store.ErrStorageFailure, err)
	}
	defer func() { _ = rows.Close() }()

	exercises := []*domain.Exercise{}
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate exercises: %w", store.ErrStorageFailure, err)
	}
	return exercises, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanExercise.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (*domain.Exercise, error) {
	var (
		ex      domain.Exercise
		items   []byte
		correct sql.NullInt64
		total   sql.NullInt64
	)
	err := row.Scan(&ex.ID, &ex.Module, &ex.Date, &items, &ex.TotalElapsedSeconds, &correct, &total)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrExerciseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan exercise: %w", store.ErrStorageFailure, err)
	}

	if err := json.Unmarshal(items, &ex.Items); err != nil {
		return nil, fmt.Errorf("%w: decode exercise items: %w", store.ErrStorageFailure, err)
	}
	if correct.Valid && total.Valid {
		ex.LastResult = &domain.Result{
			Correct: int(correct.Int64),
			Total:   int(total.Int64),
		}
	}
	return &ex, nil
}

// encodeExercise marshals the variable-width columns: the item sequence as
// JSON and the optional result as a nullable pair.
func encodeExercise(ex *domain.Exercise) (items []byte, correct, total sql.NullInt64, err error) {
	items, err = json.Marshal(ex.Items)
	if err != nil {
		err = fmt.Errorf("%w: encode exercise items: %w", store.ErrStorageFailure, err)
		return
	}
	if ex.LastResult != nil {
		correct = sql.NullInt64{Int64: int64(ex.LastResult.Correct), Valid: true}
		total = sql.NullInt64{Int64: int64(ex.LastResult.Total), Valid: true}
	}
	return
}
