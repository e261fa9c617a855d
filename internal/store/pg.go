package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openelect/ballot-pipeline/internal/domain"
	"github.com/openelect/ballot-pipeline/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to defaults:
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	// database/sql treats MaxIdleConns above MaxOpenConns as MaxOpenConns anyway
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// GetStation retrieves a polling station by ID
func (s *pgStore) GetStation(ctx context.Context, stationID uint64) (*schema.PollingStation, error) {
	var station schema.PollingStation
	err := s.db.WithContext(ctx).Where("id = ?", stationID).First(&station).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get station: %w", err)
	}
	return &station, nil
}

// IsActiveCounter reports whether the user holds an active counter assignment
// for the station and the user account itself is active
func (s *pgStore) IsActiveCounter(ctx context.Context, stationID, userID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.StationAssignment{}).
		Joins("JOIN users ON users.id = station_assignments.user_id").
		Where("station_assignments.station_id = ?", stationID).
		Where("station_assignments.user_id = ?", userID).
		Where("station_assignments.role = ?", schema.AssignmentRoleCounter).
		Where("station_assignments.active = ?", true).
		Where("users.active = ?", true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check counter assignment: %w", err)
	}

	return count > 0, nil
}

// CreateBallotEntry persists one ballot entry with reference validation.
// The dedup-key unique index absorbs duplicate deliveries: an ON CONFLICT
// DO NOTHING insert that touches zero rows means the entry already exists.
func (s *pgStore) CreateBallotEntry(ctx context.Context, input CreateBallotEntryInput) (bool, error) {
	var created bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// References may have vanished between intake validation and processing.
		// Missing references are permanent failures, surfaced as sentinel errors.
		var stationCount int64
		if err := tx.Model(&schema.PollingStation{}).Where("id = ?", input.StationID).Count(&stationCount).Error; err != nil {
			return fmt.Errorf("failed to check station: %w", err)
		}
		if stationCount == 0 {
			return domain.ErrStationNotFound
		}

		if input.ListID != nil {
			var listCount int64
			if err := tx.Model(&schema.List{}).Where("id = ?", *input.ListID).Count(&listCount).Error; err != nil {
				return fmt.Errorf("failed to check list: %w", err)
			}
			if listCount == 0 {
				return domain.ErrListNotFound
			}
		}

		if input.CandidateID != nil {
			q := tx.Model(&schema.Candidate{}).Where("id = ?", *input.CandidateID)
			if input.ListID != nil {
				q = q.Where("list_id = ?", *input.ListID)
			}
			var candidateCount int64
			if err := q.Count(&candidateCount).Error; err != nil {
				return fmt.Errorf("failed to check candidate: %w", err)
			}
			if candidateCount == 0 {
				return domain.ErrCandidateNotFound
			}
		}

		entry := schema.BallotEntry{
			EntryUID:           newEntryUID(),
			DedupKey:           input.DedupKey,
			StationID:          input.StationID,
			BallotType:         input.BallotType,
			ListID:             input.ListID,
			CandidateID:        input.CandidateID,
			CancellationReason: input.CancellationReason,
			Metadata:           input.Metadata,
			EnteredByID:        input.EnteredByID,
			SubmitterIP:        input.SubmitterIP,
			EnteredAt:          input.EnteredAt,
		}

		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedup_key"}},
			DoNothing: true,
		}).Create(&entry)
		if result.Error != nil {
			return fmt.Errorf("failed to create ballot entry: %w", result.Error)
		}

		created = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	return created, nil
}

// ListBallotEntries returns one reverse-chronological page of a station's
// entries joined with list/candidate/submitter display fields
func (s *pgStore) ListBallotEntries(ctx context.Context, stationID uint64, page, perPage int) ([]*BallotEntryRow, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}

	var total int64
	err := s.db.WithContext(ctx).
		Model(&schema.BallotEntry{}).
		Where("station_id = ?", stationID).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count ballot entries: %w", err)
	}

	var rows []*BallotEntryRow
	err = s.db.WithContext(ctx).
		Model(&schema.BallotEntry{}).
		Select(`ballot_entries.entry_uid,
			ballot_entries.station_id,
			ballot_entries.ballot_type,
			ballot_entries.list_id,
			lists.name AS list_name,
			ballot_entries.candidate_id,
			candidates.name AS candidate_name,
			ballot_entries.cancellation_reason,
			ballot_entries.entered_by_id,
			users.name AS entered_by_name,
			ballot_entries.entered_at`).
		Joins("LEFT JOIN lists ON lists.id = ballot_entries.list_id").
		Joins("LEFT JOIN candidates ON candidates.id = ballot_entries.candidate_id").
		Joins("JOIN users ON users.id = ballot_entries.entered_by_id").
		Where("ballot_entries.station_id = ?", stationID).
		Order("ballot_entries.entered_at DESC, ballot_entries.id DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ballot entries: %w", err)
	}

	return rows, total, nil
}

// GetEntriesForAggregation returns all of a station's entries for a full rebuild
func (s *pgStore) GetEntriesForAggregation(ctx context.Context, stationID uint64) ([]*schema.BallotEntry, error) {
	var entries []*schema.BallotEntry
	err := s.db.WithContext(ctx).
		Where("station_id = ?", stationID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for aggregation: %w", err)
	}

	return entries, nil
}

// CreateBallotEntryLog appends one audit event
func (s *pgStore) CreateBallotEntryLog(ctx context.Context, log *schema.BallotEntryLog) error {
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create ballot entry log: %w", err)
	}
	return nil
}

// ReplaceStationResults overwrites the station's summary and aggregates in a
// single transaction so readers never see a half-rebuilt state
func (s *pgStore) ReplaceStationResults(ctx context.Context, summary *schema.StationSummary, aggregates []*schema.StationAggregate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "station_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_entries",
				"valid_list_votes",
				"valid_preferential_votes",
				"white_papers",
				"cancelled_papers",
				"computed_at",
				"updated_at",
			}),
		}).Create(summary).Error
		if err != nil {
			return fmt.Errorf("failed to upsert station summary: %w", err)
		}

		err = tx.Where("station_id = ?", summary.StationID).
			Delete(&schema.StationAggregate{}).Error
		if err != nil {
			return fmt.Errorf("failed to clear station aggregates: %w", err)
		}

		if len(aggregates) > 0 {
			if err := tx.Create(&aggregates).Error; err != nil {
				return fmt.Errorf("failed to insert station aggregates: %w", err)
			}
		}

		return nil
	})
}

// GetStationSummary retrieves the station's summary row
func (s *pgStore) GetStationSummary(ctx context.Context, stationID uint64) (*schema.StationSummary, error) {
	var summary schema.StationSummary
	err := s.db.WithContext(ctx).Where("station_id = ?", stationID).First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get station summary: %w", err)
	}

	return &summary, nil
}

// GetStationAggregates retrieves the station's aggregates ordered by vote
// count descending; ties break on list then candidate (nulls first) so the
// output is deterministic across rebuilds
func (s *pgStore) GetStationAggregates(ctx context.Context, stationID uint64) ([]*schema.StationAggregate, error) {
	var aggregates []*schema.StationAggregate
	err := s.db.WithContext(ctx).
		Where("station_id = ?", stationID).
		Order("vote_count DESC, list_id ASC, candidate_id ASC NULLS FIRST").
		Find(&aggregates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get station aggregates: %w", err)
	}

	return aggregates, nil
}

// CreateDeadLetterTask parks a permanently failed task for inspection
func (s *pgStore) CreateDeadLetterTask(ctx context.Context, task *schema.DeadLetterTask) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "task_id"}},
		DoNothing: true,
	}).Create(task).Error
	if err != nil {
		return fmt.Errorf("failed to create dead letter task: %w", err)
	}
	return nil
}

// ListDeadLetterTasks returns parked tasks, newest first
func (s *pgStore) ListDeadLetterTasks(ctx context.Context, limit, offset int) ([]*schema.DeadLetterTask, error) {
	if limit < 1 {
		limit = 50
	}

	var tasks []*schema.DeadLetterTask
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list dead letter tasks: %w", err)
	}

	return tasks, nil
}
