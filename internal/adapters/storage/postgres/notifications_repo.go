package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pet-boarding/internal/domain/notifications"
)

type NotificationsRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationsRepo(pool *pgxpool.Pool) *NotificationsRepo {
	return &NotificationsRepo{pool: pool}
}

func (r *NotificationsRepo) Create(ctx context.Context, n notifications.Notification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (
			id, owner_id,
			caretaker_id, caretaker_name,
			pet_id, pet_name,
			activity, times_completed,
			date, time
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		n.ID,
		n.OwnerID,
		n.CaretakerID,
		n.CaretakerName,
		n.PetID,
		n.PetName,
		n.Activity,
		n.TimesCompleted,
		n.Date,
		n.Time,
	)
	return err
}

func (r *NotificationsRepo) GetByID(ctx context.Context, id string) (notifications.Notification, error) {
	var n notifications.Notification
	err := r.pool.QueryRow(ctx, `
		SELECT
			id, owner_id,
			caretaker_id, caretaker_name,
			pet_id, pet_name,
			activity, times_completed,
			date, time
		FROM notifications
		WHERE id = $1
	`, id).Scan(
		&n.ID,
		&n.OwnerID,
		&n.CaretakerID,
		&n.CaretakerName,
		&n.PetID,
		&n.PetName,
		&n.Activity,
		&n.TimesCompleted,
		&n.Date,
		&n.Time,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notifications.Notification{}, ErrNotFound
		}
		return notifications.Notification{}, err
	}
	return n, nil
}

func (r *NotificationsRepo) ListByOwner(ctx context.Context, ownerID string) ([]notifications.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			id, owner_id,
			caretaker_id, caretaker_name,
			pet_id, pet_name,
			activity, times_completed,
			date, time
		FROM notifications
		WHERE owner_id = $1
		ORDER BY date, time
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notifications.Notification, 0)
	for rows.Next() {
		var n notifications.Notification
		if err := rows.Scan(
			&n.ID,
			&n.OwnerID,
			&n.CaretakerID,
			&n.CaretakerName,
			&n.PetID,
			&n.PetName,
			&n.Activity,
			&n.TimesCompleted,
			&n.Date,
			&n.Time,
		); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationsRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE owner_id = $1`, ownerID)
	return err
}
