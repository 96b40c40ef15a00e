package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitjournal/internal/telemetry/tracing"
	"github.com/2beens/fitjournal/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("a user with that username already exists")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// CreateUser inserts the user and its profile in a single transaction.
func (r *Repo) CreateUser(ctx context.Context, user User, avatar string) (_ *UserProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
		INSERT INTO app_user (username, email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`,
		user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	profile := Profile{
		UserID: user.ID,
		Avatar: avatar,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO profile (user_id, avatar)
		VALUES ($1, $2)
		RETURNING id
	`,
		profile.UserID, profile.Avatar,
	).Scan(&profile.ID)
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	return &UserProfile{User: user, Profile: profile}, nil
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByUsername")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user := &User{}
	err = r.db.
		QueryRow(ctx, `
			SELECT id, username, email, password_hash, first_name, last_name, created_at
			FROM app_user
			WHERE username = $1
		`, username).
		Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash,
			&user.FirstName, &user.LastName, &user.CreatedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *Repo) GetUserProfile(ctx context.Context, userID int) (_ *UserProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getUserProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user-id", userID))

	up := &UserProfile{}
	err = r.db.
		QueryRow(ctx, `
			SELECT u.id, u.username, u.email, u.first_name, u.last_name, u.created_at,
			       p.id, p.user_id, p.avatar
			FROM app_user u
			JOIN profile p ON p.user_id = u.id
			WHERE u.id = $1
		`, userID).
		Scan(
			&up.User.ID, &up.User.Username, &up.User.Email,
			&up.User.FirstName, &up.User.LastName, &up.User.CreatedAt,
			&up.Profile.ID, &up.Profile.UserID, &up.Profile.Avatar,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return up, nil
}

func (r *Repo) UpdateProfile(ctx context.Context, userID int, update ProfileUpdate) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.updateProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user-id", userID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE app_user
		SET first_name = $1, last_name = $2, email = $3
		WHERE id = $4
	`,
		update.FirstName, update.LastName, update.Email, userID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	if update.Avatar != nil {
		if _, err = tx.Exec(ctx, `UPDATE profile SET avatar = $1 WHERE user_id = $2`, *update.Avatar, userID); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
	}

	return nil
}
