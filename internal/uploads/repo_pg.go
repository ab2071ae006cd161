package uploads

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a record.
func (r *PGRepo) Create(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO image_uploads (
    id,
    image_id,
    original_filename,
    size_bytes,
    sha256,
    mime_type,
    request_id,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var requestID sql.NullString
	if rec.RequestID != "" {
		requestID = sql.NullString{String: rec.RequestID, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.ImageID,
		rec.OriginalFilename,
		rec.SizeBytes,
		rec.SHA256,
		rec.MimeType,
		requestID,
		rec.CreatedAt,
	)
	return err
}

// ListRecent returns up to limit records ordered newest first.
func (r *PGRepo) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	const query = `
SELECT id, image_id, original_filename, size_bytes, sha256, mime_type, request_id, created_at
FROM image_uploads
ORDER BY created_at DESC
LIMIT $1`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var requestID sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.ImageID,
			&rec.OriginalFilename,
			&rec.SizeBytes,
			&rec.SHA256,
			&rec.MimeType,
			&requestID,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		if requestID.Valid {
			rec.RequestID = requestID.String
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
