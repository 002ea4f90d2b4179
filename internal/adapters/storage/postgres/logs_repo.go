package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/logs"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/stool"
)

type LogsRepo struct {
	db *sql.DB
}

func NewLogsRepo(db *sql.DB) *LogsRepo {
	return &LogsRepo{db: db}
}

const logColumns = `
	id, user_id,
	logged_at, recorded_at,
	bristol_type, volume, color, duration_seconds,
	notes, is_public,
	latitude, longitude, venue_id,
	poop_photo_url, toilet_photo_url`

func (r *LogsRepo) Create(ctx context.Context, l logs.Log) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO poop_logs (`+logColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		l.ID,
		l.UserID,
		l.LoggedAt,
		l.RecordedAt,
		int(l.Consistency),
		string(l.Volume),
		string(l.Color),
		l.DurationSeconds,
		l.Notes,
		l.IsPublic,
		toNullFloat(l.Latitude),
		toNullFloat(l.Longitude),
		toNullString(l.VenueID),
		l.PoopPhotoURL,
		l.ToiletPhotoURL,
	)
	return err
}

func (r *LogsRepo) GetByID(ctx context.Context, id string) (logs.Log, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return logs.Log{}, logs.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+logColumns+` FROM poop_logs WHERE id = $1`, id)
	l, err := scanLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return logs.Log{}, logs.ErrNotFound
		}
		return logs.Log{}, err
	}
	return l, nil
}

// ListByUser toma los Limit más recientes y los devuelve en orden ascendente.
func (r *LogsRepo) ListByUser(ctx context.Context, userID string, filter logs.ListFilter) ([]logs.Log, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return []logs.Log{}, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + logColumns + ` FROM poop_logs WHERE user_id = $1`)

	args := []any{userID}
	argN := 2

	if len(filter.Types) > 0 {
		placeholders := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, int(t))
			argN++
		}
		sb.WriteString(" AND bristol_type IN (" + strings.Join(placeholders, ",") + ")")
	}

	if filter.PublicOnly {
		sb.WriteString(" AND is_public")
	}
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND logged_at >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND logged_at <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}

	sb.WriteString(" ORDER BY logged_at DESC, id DESC")
	if filter.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
		args = append(args, filter.Limit)
	}

	out, err := r.query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}

	// se consultó descendente para que LIMIT tome los más recientes
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *LogsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM poop_logs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return logs.ErrNotFound
	}
	return nil
}

func (r *LogsRepo) ListPublicByUsers(ctx context.Context, userIDs []string, limit int) ([]logs.Log, error) {
	if len(userIDs) == 0 {
		return []logs.Log{}, nil
	}
	if limit <= 0 {
		limit = logs.DefaultListLimit
	}

	return r.query(ctx, `
		SELECT `+logColumns+`
		FROM poop_logs
		WHERE user_id = ANY($1) AND is_public
		ORDER BY logged_at DESC, id ASC
		LIMIT $2
	`, userIDs, limit)
}

func (r *LogsRepo) query(ctx context.Context, q string, args ...any) ([]logs.Log, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]logs.Log, 0)
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(s rowScanner) (logs.Log, error) {
	var l logs.Log
	var bristol int
	var volume, color string
	var lat, lon sql.NullFloat64
	var venueID sql.NullString

	if err := s.Scan(
		&l.ID,
		&l.UserID,
		&l.LoggedAt,
		&l.RecordedAt,
		&bristol,
		&volume,
		&color,
		&l.DurationSeconds,
		&l.Notes,
		&l.IsPublic,
		&lat,
		&lon,
		&venueID,
		&l.PoopPhotoURL,
		&l.ToiletPhotoURL,
	); err != nil {
		return logs.Log{}, err
	}

	l.Consistency = stool.BristolType(bristol)
	l.Volume = stool.Volume(volume)
	l.Color = stool.Color(color)
	l.Latitude = fromNullFloat(lat)
	l.Longitude = fromNullFloat(lon)
	l.VenueID = venueID.String
	l.LoggedAt = l.LoggedAt.UTC()
	l.RecordedAt = l.RecordedAt.UTC()
	return l, nil
}
