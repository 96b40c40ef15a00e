//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/2beens/fitjournal/internal/journal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestJournalOwnership() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	alice := s.registerUser(ctx)
	bob := s.registerUser(ctx)

	status, _ := s.get(ctx, "/topics", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	// owner_id in the body is ignored
	status, body := s.postJSON(ctx, "/topics/new", alice.Token, map[string]any{
		"text":     "Running",
		"owner_id": bob.ID,
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var topic journal.Topic
	require.NoError(t, json.Unmarshal(body, &topic))
	assert.Equal(t, alice.ID, topic.OwnerID)

	topicRoute := fmt.Sprintf("/topics/%d", topic.ID)
	for _, text := range []string{"first run", "second run"} {
		status, body = s.postForm(ctx, topicRoute+"/entries/new", alice.Token, url.Values{"text": {text}})
		require.Equal(t, http.StatusCreated, status, string(body))
	}

	status, body = s.get(ctx, topicRoute, alice.Token)
	require.Equal(t, http.StatusOK, status)
	var topicResp journal.TopicResponse
	require.NoError(t, json.Unmarshal(body, &topicResp))
	require.Len(t, topicResp.Entries, 2)
	assert.Equal(t, "second run", topicResp.Entries[0].Text)

	// bob sees nothing of alice's
	status, _ = s.get(ctx, topicRoute, bob.Token)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = s.postForm(ctx, topicRoute+"/entries/new", bob.Token, url.Values{"text": {"sneaky"}})
	assert.Equal(t, http.StatusNotFound, status)

	entryRoute := fmt.Sprintf("/entries/%d/edit", topicResp.Entries[1].ID)
	status, _ = s.postForm(ctx, entryRoute, bob.Token, url.Values{"text": {"hijacked"}})
	assert.Equal(t, http.StatusNotFound, status)

	status, body = s.get(ctx, "/topics", bob.Token)
	require.Equal(t, http.StatusOK, status)
	var bobTopics journal.TopicsResponse
	require.NoError(t, json.Unmarshal(body, &bobTopics))
	assert.Zero(t, bobTopics.Total)

	status, _ = s.postForm(ctx, entryRoute, alice.Token, url.Values{"text": {"first run, edited"}})
	require.Equal(t, http.StatusOK, status)

	var entryText string
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT text FROM entry WHERE id = $1`, topicResp.Entries[1].ID,
	).Scan(&entryText))
	assert.Equal(t, "first run, edited", entryText)
}
