package journal

import (
	"context"
	"errors"
	"fmt"
)

type ownershipRepo interface {
	GetTopic(ctx context.Context, id int) (*Topic, error)
	GetEntry(ctx context.Context, id int) (*Entry, error)
}

// Guard checks that topics and entries belong to the requesting user.
// Anything the user may not see is reported as ErrNotFound, so other users'
// resources are indistinguishable from missing ones.
type Guard struct {
	repo ownershipRepo
}

func NewGuard(repo ownershipRepo) *Guard {
	return &Guard{
		repo: repo,
	}
}

func (g *Guard) RequireTopicOwner(ctx context.Context, topicID, userID int) (*Topic, error) {
	topic, err := g.repo.GetTopic(ctx, topicID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get topic %d: %w", topicID, err)
	}

	if topic.OwnerID != userID {
		return nil, ErrNotFound
	}

	return topic, nil
}

// RequireEntryOwner resolves the entry and its topic, checking the topic owner.
func (g *Guard) RequireEntryOwner(ctx context.Context, entryID, userID int) (*Entry, *Topic, error) {
	entry, err := g.repo.GetEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("get entry %d: %w", entryID, err)
	}

	topic, err := g.RequireTopicOwner(ctx, entry.TopicID, userID)
	if err != nil {
		return nil, nil, err
	}

	return entry, topic, nil
}
