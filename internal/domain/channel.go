package domain

import "fmt"

type ChannelID string

// BatchOrder selects how the upstream ranks the next-batch feed.
type BatchOrder string

const (
	OrderSubscribersDesc BatchOrder = "subscribers_desc"
	OrderRecentActivity  BatchOrder = "recent_activity"
	OrderNone            BatchOrder = "none"
)

func (o BatchOrder) Valid() bool {
	switch o {
	case OrderSubscribersDesc, OrderRecentActivity, OrderNone:
		return true
	default:
		return false
	}
}

// CandidateThumb is one candidate thumbnail attached to a channel under
// review; a channel carries up to nine of them.
type CandidateThumb struct {
	ThumbnailID string  `json:"thumbnailId"`
	VideoID     string  `json:"videoId"`
	ImageURL    string  `json:"imageUrl"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Title       string  `json:"title"`
	Engagement  float64 `json:"engagement"`
}

// Channel is one review-queue entry: a channel plus its candidate thumbnails.
// ChannelID is the queue identity key.
type Channel struct {
	ChannelID    ChannelID        `json:"channelId"`
	ChannelTitle string           `json:"channelTitle"`
	Subscribers  int64            `json:"subscribers"`
	Items        []CandidateThumb `json:"items"`
}

// NextBatch is one page of the paginated review feed.
type NextBatch struct {
	Items  []Channel  `json:"items"`
	Offset int        `json:"offset"`
	Limit  int        `json:"limit"`
	Order  BatchOrder `json:"order"`
}

// ChannelRank is the persisted outcome of scoring one channel.
type ChannelRank struct {
	ChannelID ChannelID `json:"channelId"`
	Score     int       `json:"score"`
}

const (
	MinChannelScore = 0
	MaxChannelScore = 5
)

// ValidateScore checks a channel-rank score against the accepted 0..5 range.
func ValidateScore(score int) error {
	if score < MinChannelScore || score > MaxChannelScore {
		return fmt.Errorf("%w: %d", ErrInvalidScore, score)
	}
	return nil
}
