package journal

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

// ErrNotFound covers both missing resources and resources of another user.
var ErrNotFound = errors.New("not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddTopic(ctx context.Context, topic Topic) (_ *Topic, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.journal.addTopic")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx, `
		INSERT INTO topic (text, owner_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`,
		topic.Text, topic.OwnerID,
	).Scan(&topic.ID, &topic.CreatedAt)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, fmt.Errorf("owner %d: %w", topic.OwnerID, ErrNotFound)
		}
		return nil, fmt.Errorf("insert topic: %w", err)
	}

	return &topic, nil
}

func (r *Repo) GetTopic(ctx context.Context, id int) (_ *Topic, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.journal.getTopic")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("topic-id", id))

	topic := &Topic{}
	err = r.db.
		QueryRow(ctx, `
			SELECT id, text, created_at, owner_id
			FROM topic
			WHERE id = $1
		`, id).
		Scan(&topic.ID, &topic.Text, &topic.CreatedAt, &topic.OwnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return topic, nil
}

// TopicsByOwner lists the user's topics, oldest first.
func (r *Repo) TopicsByOwner(ctx context.Context, ownerID int) (_ []Topic, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.journal.topicsByOwner")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT id, text, created_at, owner_id
		FROM topic
		WHERE owner_id = $1
		ORDER BY created_at, id
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := make([]Topic, 0)
	for rows.Next() {
		var topic Topic
		if err := rows.Scan(&topic.ID, &topic.Text, &topic.CreatedAt, &topic.OwnerID); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		topics = append(topics, topic)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return topics, nil
}

func (r *Repo) AddEntry(ctx context.Context, entry Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.journal.addEntry")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("topic-id", entry.TopicID))

	err = r.db.QueryRow(ctx, `
		INSERT INTO entry (topic_id, text)
		VALUES ($1, $2)
		RETURNING id, created_at
	`,
		entry.TopicID, entry.Text,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	return &entry, nil
}

func (r *Repo) GetEntry(ctx context.Context, id int) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.journal.getEntry")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("entry-id", id))

	entry := &Entry{}
	err = r.db.
		QueryRow(ctx, `
			SELECT id, topic_id, text, created_at
			FROM entry
			WHERE id = $1
		`, id).
		Scan(&entry.ID, &entry.TopicID, &entry.Text, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

// EntriesByTopic lists the topic's entries, newest first.
func (r *Repo) EntriesByTopic(ctx context.Context, topicID int) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.journal.entriesByTopic")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("topic-id", topicID))

	rows, err := r.db.Query(ctx, `
		SELECT id, topic_id, text, created_at
		FROM entry
		WHERE topic_id = $1
		ORDER BY created_at DESC, id DESC
	`, topicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.TopicID, &entry.Text, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Repo) UpdateEntry(ctx context.Context, id int, text string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.journal.updateEntry")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("entry-id", id))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE entry SET text = $1 WHERE id = $2;`,
		text, id,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
