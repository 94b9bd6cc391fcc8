package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"carehub/internal/medication/models"
	"carehub/internal/platform/database"
	id "carehub/pkg/domain"
	"carehub/pkg/platform/sentinel"
)

const medicationColumns = `id, user_id, name, dosage, frequency, reminders, created_at`

// PostgresStore persists medications in PostgreSQL.
type PostgresStore struct {
	db database.Querier
}

// NewPostgres constructs a PostgreSQL-backed medication store.
func NewPostgres(db database.Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Medication, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+medicationColumns+` FROM medications
		 WHERE user_id = $1
		 ORDER BY created_at, id`,
		uuid.UUID(userID),
	)
	if err != nil {
		return nil, oops.In("medication_store").With("operation", "list").With("user_id", userID.String()).Wrapf(err, "list medications")
	}
	defer rows.Close()

	meds := make([]*models.Medication, 0)
	for rows.Next() {
		med, err := scanMedication(rows)
		if err != nil {
			return nil, oops.In("medication_store").With("operation", "list").Wrapf(err, "scan medication")
		}
		meds = append(meds, med)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.In("medication_store").With("operation", "list").Wrapf(err, "iterate medications")
	}
	return meds, nil
}

func (s *PostgresStore) Create(ctx context.Context, med *models.Medication) error {
	if med == nil {
		return fmt.Errorf("medication is required")
	}
	createdAt := med.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO medications (`+medicationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(med.ID), uuid.UUID(med.UserID), med.Name, med.Dosage, med.Frequency,
		reminders(med.Reminders), createdAt,
	)
	if err != nil {
		switch {
		case database.IsForeignKeyViolation(err):
			return fmt.Errorf("owner not found: %w", sentinel.ErrNotFound)
		case database.IsUniqueViolation(err):
			return fmt.Errorf("medication id already exists: %w", sentinel.ErrConflict)
		}
		return oops.In("medication_store").With("operation", "create").Wrapf(err, "insert medication")
	}
	return nil
}

// Update replaces name, dosage, frequency and reminders of a medication the
// user owns and returns the stored row.
func (s *PostgresStore) Update(ctx context.Context, med *models.Medication) (*models.Medication, error) {
	if med == nil {
		return nil, fmt.Errorf("medication is required")
	}
	row := s.db.QueryRow(ctx,
		`UPDATE medications
		 SET name = $3, dosage = $4, frequency = $5, reminders = $6
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+medicationColumns,
		uuid.UUID(med.ID), uuid.UUID(med.UserID), med.Name, med.Dosage, med.Frequency, reminders(med.Reminders),
	)
	updated, err := scanMedication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("medication not found: %w", sentinel.ErrNotFound)
		}
		return nil, oops.In("medication_store").With("operation", "update").With("medication_id", med.ID.String()).Wrapf(err, "update medication")
	}
	return updated, nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID id.UserID, medID id.MedicationID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM medications WHERE id = $1 AND user_id = $2`,
		uuid.UUID(medID), uuid.UUID(userID),
	)
	if err != nil {
		return oops.In("medication_store").With("operation", "delete").With("medication_id", medID.String()).Wrapf(err, "delete medication")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("medication not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

// reminders never writes NULL into the NOT NULL array column.
func reminders(r []string) []string {
	if r == nil {
		return []string{}
	}
	return r
}

func scanMedication(row pgx.Row) (*models.Medication, error) {
	var (
		medID, userID uuid.UUID
		m             models.Medication
	)
	if err := row.Scan(&medID, &userID, &m.Name, &m.Dosage, &m.Frequency, &m.Reminders, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.ID = id.MedicationID(medID)
	m.UserID = id.UserID(userID)
	m.Reminders = reminders(m.Reminders)
	return &m, nil
}
