package analysis

import "time"

// Count is a ranked (label, count) pair.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// HourCount is a ranked (hour of day, count) pair.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// SenderCount names the winner of a count-based category.
type SenderCount struct {
	Sender string `json:"sender"`
	Count  int    `json:"count"`
}

// ResponseStats summarizes a list of response delays, in minutes. The pointer fields are nil
// when Count is 0.
type ResponseStats struct {
	Count     int      `json:"count"`
	AvgMin    *float64 `json:"avg_min"`
	MedianMin *float64 `json:"median_min"`
	P90Min    *float64 `json:"p90_min"`
	MinMin    *float64 `json:"min_min"`
	MaxMin    *float64 `json:"max_min"`
}

// ResponseExtremes records the single fastest and slowest response and who sent it.
type ResponseExtremes struct {
	MinMin    *float64 `json:"min_min"`
	MaxMin    *float64 `json:"max_min"`
	MinSender string   `json:"min_sender,omitempty"`
	MaxSender string   `json:"max_sender,omitempty"`
}

// ResponseLeader is the sender with the lowest or highest mean response time.
type ResponseLeader struct {
	Sender string  `json:"sender"`
	AvgMin float64 `json:"avg_min"`
}

// DayCount is the busiest calendar day (YYYY-MM-DD).
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Gap is the longest silence between two consecutive messages.
type Gap struct {
	DurationSeconds float64   `json:"duration_seconds"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
}

// MediaCounts are per-sender attachment totals.
type MediaCounts struct {
	Photos int `json:"photos"`
	Videos int `json:"videos"`
	Audio  int `json:"audio"`
}

// MediaLeaders holds the top sender per attachment kind; nil when nobody sent that kind.
type MediaLeaders struct {
	Photos *SenderCount `json:"photos"`
	Videos *SenderCount `json:"videos"`
	Audio  *SenderCount `json:"audio"`
}

// LinkStats counts shared links.
type LinkStats struct {
	Total     int            `json:"total"`
	PerSender map[string]int `json:"per_sender"`
}

// NightStats describes activity inside the night window.
type NightStats struct {
	Count     int            `json:"count"`
	Pct       float64        `json:"pct"`
	PerSender map[string]int `json:"per_sender"`
	Winner    *SenderCount   `json:"winner"`
}

// LastSeenStats counts the days on which each sender wrote the last message late at night.
type LastSeenStats struct {
	Counts      map[string]int     `json:"counts"`
	PctBySender map[string]float64 `json:"pct_by_sender"`
	Winner      *SenderCount       `json:"winner"`
	Total       int                `json:"total"`
}

// FastReplyWinner is the sender whose messages most often got a quick answer.
type FastReplyWinner struct {
	Sender string  `json:"sender"`
	Pct    float64 `json:"pct"`
}

// FastReplyStats holds, per sender, how many of their messages got a fast reply.
type FastReplyStats struct {
	Winner     *FastReplyWinner   `json:"winner"`
	Ratios     map[string]float64 `json:"ratios"`
	Totals     map[string]int     `json:"totals"`
	FastCounts map[string]int     `json:"fast_counts"`
}

// SentimentSummary aggregates one sender's message scores.
type SentimentSummary struct {
	Avg   float64 `json:"avg"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// MonthScore is the mean sentiment of one YYYY-MM month.
type MonthScore struct {
	Month string  `json:"month"`
	Avg   float64 `json:"avg"`
}

// Streak is the longest run of consecutive messages from one sender.
type Streak struct {
	Sender string `json:"sender,omitempty"`
	Length int    `json:"length"`
}

// DateRange spans the first and last message; both nil for an empty conversation.
type DateRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// Metrics is the full statistics bundle for one conversation. It is built once by Compute and
// must be treated as read-only afterwards.
type Metrics struct {
	TotalMessages int                `json:"total_messages"`
	TextMessages  int                `json:"text_messages"`
	Participants  []string           `json:"participants"`
	MessageCounts map[string]int     `json:"message_counts"`
	MessageShares map[string]float64 `json:"message_shares"`
	TopSender     string             `json:"top_sender,omitempty"`

	ResponseTimeDeltas   map[string][]float64     `json:"response_time_deltas"`
	ResponseTimeStats    map[string]ResponseStats `json:"response_time_stats"`
	ResponseTimeOverall  ResponseStats            `json:"response_time_overall"`
	ResponseTimeExtremes ResponseExtremes         `json:"response_time_extremes"`
	ResponseTimeFastest  *ResponseLeader          `json:"response_time_fastest"`
	ResponseTimeSlowest  *ResponseLeader          `json:"response_time_slowest"`

	TopWords           []Count            `json:"top_words"`
	TopWordsBySender   map[string][]Count `json:"top_words_by_sender"`
	TopPhrases         []Count            `json:"top_phrases"`
	TopPhrasesBySender map[string][]Count `json:"top_phrases_by_sender"`

	TopHours         []HourCount `json:"top_hours"`
	HourlyCounts     []int       `json:"hourly_counts"`
	TopWeekdays      []Count     `json:"top_weekdays"`
	WeekdayCounts    []int       `json:"weekday_counts"`
	MessagesPerMonth []Count     `json:"messages_per_month"`
	MostActiveDay    *DayCount   `json:"most_active_day"`
	LongestGap       *Gap        `json:"longest_gap"`

	TopEmojis         []Count            `json:"top_emojis"`
	TopEmojisBySender map[string][]Count `json:"top_emojis_by_sender"`
	EmojiTotals       map[string]int     `json:"emoji_totals"`
	EmojiHearts       map[string]int     `json:"emoji_hearts"`
	EmojiLeader       *SenderCount       `json:"emoji_leader"`

	MediaCounts  map[string]MediaCounts `json:"media_counts"`
	MediaLeaders MediaLeaders           `json:"media_leaders"`
	LinkStats    LinkStats              `json:"link_stats"`

	NightStats     NightStats     `json:"night_stats"`
	LastSeenStats  LastSeenStats  `json:"last_seen_stats"`
	FastReplyStats FastReplyStats `json:"fast_reply_stats"`

	SentimentPerSender map[string]SentimentSummary `json:"sentiment_per_sender"`
	SentimentByMonth   []MonthScore                `json:"sentiment_by_month"`

	LongestStreak Streak             `json:"longest_streak"`
	DateRange     DateRange          `json:"date_range"`
	Timezone      string             `json:"timezone"`
	AvgLenStats   map[string]float64 `json:"avg_len_stats"`
	StartersStats map[string]int     `json:"starters_stats"`
}
