package journal

import "time"

type Topic struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	OwnerID   int       `json:"owner_id"`
}

type Entry struct {
	ID        int       `json:"id"`
	TopicID   int       `json:"topic_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type topicRequest struct {
	Text string `json:"text" validate:"required,max=200"`
}

type entryRequest struct {
	Text string `json:"text" validate:"required,max=10000"`
}
