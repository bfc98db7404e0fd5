package postgres

import (
	"context"
	"database/sql"
	"time"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `INSERT INTO notifications (user_id, title, message, attributes, read, created_on)
	          VALUES ($1, $2, $3, $4, false, $5) RETURNING id, created_on`
	return r.db.QueryRowContext(ctx, query, n.UserID, n.Title, n.Message, mustJSON(n.Attributes), time.Now()).
		Scan(&n.ID, &n.CreatedOn)
}

func (r *notificationRepository) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, title, message, attributes, read, created_on
	                                     FROM notifications WHERE user_id = $1
	                                     ORDER BY created_on DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var attrs []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &attrs, &n.Read, &n.CreatedOn); err != nil {
			return nil, 0, err
		}
		if err := fromJSON(attrs, &n.Attributes); err != nil {
			return nil, 0, err
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound("notification %d not found", id)
	}
	return nil
}
