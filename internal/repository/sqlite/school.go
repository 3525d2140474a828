package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"schoolyard/internal/apperror"
	"schoolyard/internal/model"
	"schoolyard/internal/repository"
)

const schoolColumns = `id, name, level, principal_id, principal_name,
	member_ids, members, join_requests, classes,
	total_tags, total_cleans, school_points, rename_cost,
	version, created_at, updated_at`

var _ repository.SchoolRepository = (*SchoolStore)(nil)

// SchoolStore is the schools collection.
type SchoolStore struct {
	db *DB
}

// Schools returns the schools collection backed by this database.
func (db *DB) Schools() *SchoolStore {
	return &SchoolStore{db: db}
}

// Put fully replaces the stored school document. Fields absent from the
// input take their documented defaults. There is no concurrency check: the
// last writer wins and the caller is the authority for derived invariants.
func (s *SchoolStore) Put(ctx context.Context, school *model.School) error {
	return s.putSchool(ctx, s.db.conn, school)
}

// PutAll applies Put to each document in one transaction, so a batch
// replace is all-or-nothing.
func (s *SchoolStore) PutAll(ctx context.Context, schools []model.School) error {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: batch replacing schools: %w", err)
	}
	defer tx.Rollback()

	for i := range schools {
		if err := s.putSchool(ctx, tx, &schools[i]); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: batch replacing schools: %w", err)
	}
	return nil
}

// execer lets putSchool run against the pool or an open transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SchoolStore) putSchool(ctx context.Context, ex execer, school *model.School) error {
	if school.ID == "" {
		return apperror.ValidationFailed("id", "school id is required")
	}
	school.ApplyDefaults()

	now := time.Now()
	if school.CreatedAt.IsZero() {
		school.CreatedAt = now
	}
	school.UpdatedAt = now

	memberIDs, err := encodeJSON(school.MemberIDs)
	if err != nil {
		return err
	}
	members, err := encodeJSON(school.Members)
	if err != nil {
		return err
	}
	joinRequests, err := encodeJSON(school.JoinRequests)
	if err != nil {
		return err
	}
	classes, err := encodeJSON(school.Classes)
	if err != nil {
		return err
	}

	// The version column only serves Mutate's compare-and-swap; a wholesale
	// replace bumps it so an in-flight Mutate retries against fresh data.
	_, err = ex.ExecContext(ctx,
		`INSERT INTO schools (id, name, level, principal_id, principal_name,
			member_ids, members, join_requests, classes,
			total_tags, total_cleans, school_points, rename_cost,
			version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			level = excluded.level,
			principal_id = excluded.principal_id,
			principal_name = excluded.principal_name,
			member_ids = excluded.member_ids,
			members = excluded.members,
			join_requests = excluded.join_requests,
			classes = excluded.classes,
			total_tags = excluded.total_tags,
			total_cleans = excluded.total_cleans,
			school_points = excluded.school_points,
			rename_cost = excluded.rename_cost,
			version = schools.version + 1,
			updated_at = excluded.updated_at`,
		school.ID, school.Name, school.Level, school.PrincipalID, school.PrincipalName,
		memberIDs, members, joinRequests, classes,
		school.TotalTags, school.TotalCleans, school.SchoolPoints, school.RenameCost,
		school.CreatedAt, school.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: putting school %s: %w", school.ID, err)
	}
	return nil
}

// Get retrieves a school with its nested lists decoded.
func (s *SchoolStore) Get(ctx context.Context, id string) (*model.School, error) {
	school, _, err := s.getSchoolWithVersion(ctx, id)
	return school, err
}

func (s *SchoolStore) getSchoolWithVersion(ctx context.Context, id string) (*model.School, int64, error) {
	row := s.db.conn.QueryRowContext(ctx,
		`SELECT `+schoolColumns+` FROM schools WHERE id = ?`, id)
	school, version, err := scanSchool(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, 0, apperror.NotFound("school", id)
		}
		return nil, 0, fmt.Errorf("sqlite: getting school %s: %w", id, err)
	}
	return school, version, nil
}

// List returns every school with nested lists decoded.
func (s *SchoolStore) List(ctx context.Context) ([]model.School, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT `+schoolColumns+` FROM schools ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing schools: %w", err)
	}
	defer rows.Close()

	schools := []model.School{}
	for rows.Next() {
		school, _, err := scanSchool(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning school: %w", err)
		}
		schools = append(schools, *school)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: listing schools: %w", err)
	}
	return schools, nil
}

// Delete removes the school. Players referencing it keep their dangling
// schoolId; callers detect and clear it.
func (s *SchoolStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.conn.ExecContext(ctx, `DELETE FROM schools WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting school %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting school %s: %w", id, err)
	}
	if n == 0 {
		return apperror.NotFound("school", id)
	}
	return nil
}

// Mutate runs fn against the current document and writes the result back
// only if no other writer touched the row in between (optimistic version
// check). Retries a few times on contention; succession updates are small,
// so collisions resolve quickly.
func (s *SchoolStore) Mutate(ctx context.Context, id string, fn func(*model.School) (bool, error)) error {
	const maxAttempts = 25

	for attempt := 0; attempt < maxAttempts; attempt++ {
		school, version, err := s.getSchoolWithVersion(ctx, id)
		if err != nil {
			return err
		}

		changed, err := fn(school)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}

		applied, err := s.putSchoolIfVersion(ctx, school, version)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
	}
	return fmt.Errorf("sqlite: mutating school %s: too many concurrent updates", id)
}

func (s *SchoolStore) putSchoolIfVersion(ctx context.Context, school *model.School, version int64) (bool, error) {
	school.ApplyDefaults()
	school.UpdatedAt = time.Now()

	memberIDs, err := encodeJSON(school.MemberIDs)
	if err != nil {
		return false, err
	}
	members, err := encodeJSON(school.Members)
	if err != nil {
		return false, err
	}
	joinRequests, err := encodeJSON(school.JoinRequests)
	if err != nil {
		return false, err
	}
	classes, err := encodeJSON(school.Classes)
	if err != nil {
		return false, err
	}

	res, err := s.db.conn.ExecContext(ctx,
		`UPDATE schools SET
			name = ?, level = ?, principal_id = ?, principal_name = ?,
			member_ids = ?, members = ?, join_requests = ?, classes = ?,
			total_tags = ?, total_cleans = ?, school_points = ?, rename_cost = ?,
			version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		school.Name, school.Level, school.PrincipalID, school.PrincipalName,
		memberIDs, members, joinRequests, classes,
		school.TotalTags, school.TotalCleans, school.SchoolPoints, school.RenameCost,
		school.UpdatedAt,
		school.ID, version,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: conditionally updating school %s: %w", school.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: conditionally updating school %s: %w", school.ID, err)
	}
	return n == 1, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSchool(row scanner) (*model.School, int64, error) {
	var (
		s            model.School
		version      int64
		memberIDs    string
		members      string
		joinRequests string
		classes      string
	)
	err := row.Scan(
		&s.ID, &s.Name, &s.Level, &s.PrincipalID, &s.PrincipalName,
		&memberIDs, &members, &joinRequests, &classes,
		&s.TotalTags, &s.TotalCleans, &s.SchoolPoints, &s.RenameCost,
		&version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, 0, err
	}

	s.MemberIDs = []string{}
	s.Members = []model.SchoolMember{}
	s.JoinRequests = []model.JoinRequest{}
	s.Classes = []model.Class{}
	for _, dec := range []struct {
		raw string
		out any
	}{
		{memberIDs, &s.MemberIDs},
		{members, &s.Members},
		{joinRequests, &s.JoinRequests},
		{classes, &s.Classes},
	} {
		if err := decodeJSON(dec.raw, dec.out); err != nil {
			return nil, 0, err
		}
	}
	return &s, version, nil
}
