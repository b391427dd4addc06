package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/session"
	"github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence/models"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

const (
	sessionFindQuery = `
		SELECT token, user_id, ip, user_agent, expires_at, created_at
		FROM sessions`

	sessionInsertQuery = `
		INSERT INTO sessions (token, user_id, ip, user_agent, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	sessionDeleteQuery = `DELETE FROM sessions WHERE token = $1`

	sessionDeleteByUserQuery = `DELETE FROM sessions WHERE user_id = $1`

	sessionDeleteExpiredQuery = `DELETE FROM sessions WHERE expires_at < now()`
)

type SessionRepository struct{}

func NewSessionRepository() session.Repository {
	return &SessionRepository{}
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	var s models.Session
	if err := tx.QueryRow(ctx, sessionFindQuery+" WHERE token = $1", token).Scan(
		&s.Token,
		&s.UserID,
		&s.IP,
		&s.UserAgent,
		&s.ExpiresAt,
		&s.CreatedAt,
	); err != nil {
		return nil, ErrSessionNotFound
	}
	return ToDomainSession(&s), nil
}

func (r *SessionRepository) Create(ctx context.Context, data *session.Session) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	dbSession := ToDBSession(data)
	if _, err := tx.Exec(
		ctx,
		sessionInsertQuery,
		dbSession.Token,
		dbSession.UserID,
		dbSession.IP,
		dbSession.UserAgent,
		dbSession.ExpiresAt,
		dbSession.CreatedAt,
	); err != nil {
		return errors.Wrap(err, "failed to create session")
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(ctx, sessionDeleteQuery, token); err != nil {
		return errors.Wrap(err, "failed to delete session")
	}
	return nil
}

func (r *SessionRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}

	tag, err := tx.Exec(ctx, sessionDeleteByUserQuery, userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete user sessions")
	}
	return tag.RowsAffected(), nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}

	tag, err := tx.Exec(ctx, sessionDeleteExpiredQuery)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete expired sessions")
	}
	return tag.RowsAffected(), nil
}
