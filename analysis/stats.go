package analysis

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Locale holds the human-facing labels used by BuildStats.
type Locale struct {
	Name       string
	VibeLabels []string // Humor, Support, Gossip, Love, Drama (in that order)
	Weekdays   []string // Monday first
	Months     []string
	Joiner     string // joins the two strongest vibe labels
}

var LocaleEN = Locale{
	Name:       "en",
	VibeLabels: []string{"Humor", "Support", "Gossip", "Love", "Drama"},
	Weekdays:   []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
	Months: []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	Joiner: " & ",
}

var LocalePL = Locale{
	Name:       "pl",
	VibeLabels: []string{"Humor", "Wsparcie", "Plotki", "Milosc", "Dramy"},
	Weekdays:   []string{"Poniedziałek", "Wtorek", "Środa", "Czwartek", "Piątek", "Sobota", "Niedziela"},
	Months: []string{
		"stycznia", "lutego", "marca", "kwietnia", "maja", "czerwca",
		"lipca", "sierpnia", "wrzesnia", "pazdziernika", "listopada", "grudnia",
	},
	Joiner: " i ",
}

// LocaleByName looks up a built-in locale ("en" or "pl").
func LocaleByName(name string) (Locale, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "en":
		return LocaleEN, true
	case "pl":
		return LocalePL, true
	}
	return Locale{}, false
}

// Stats is the fixed, renderer-facing view of a Metrics bundle. Field names and shapes are a
// contract with the report template.
type Stats struct {
	Users           []string      `json:"users"`
	Total           int           `json:"total"`
	Msgs            []int         `json:"msgs"`
	Hours           []int         `json:"hours"`
	PeakHour        string        `json:"peakHour"`
	NightPct        string        `json:"nightPct"`
	NightWinner     NameCount     `json:"nightWinner"`
	LastSeen        LastSeenView  `json:"lastSeen"`
	FastReplyWinner string        `json:"fastReplyWinner"`
	FastReplyPct    float64       `json:"fastReplyPct"`
	AvgTime         []string      `json:"avgTime"`
	Emojis          []string      `json:"emojis"`
	FavEmojiName    string        `json:"favEmojiName"`
	Media           MediaView     `json:"media"`
	MediaKing       string        `json:"mediaKing"`
	Fastest         FastestView   `json:"fastest"`
	LongestGap      string        `json:"longestGap"`
	TopDate         string        `json:"topDate"`
	VibeLabels      []string      `json:"vibeLabels"`
	VibeData1       []float64     `json:"vibeData1"`
	VibeData2       []float64     `json:"vibeData2"`
	VibeMain        string        `json:"vibeMain"`
	AvgLen          []float64     `json:"avgLen"`
	YapMaster       string        `json:"yapMaster"`
	Starters        []int         `json:"starters"`
	StarterKing     string        `json:"starterKing"`
	TopPhrases      []PhraseCount `json:"topPhrases"`
	Weekdays        []int         `json:"weekdays"`
	FavDay          string        `json:"favDay"`
}

type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type LastSeenView struct {
	Name   string  `json:"name"`
	Pct1   float64 `json:"pct1"`
	Pct2   float64 `json:"pct2"`
	Count1 int     `json:"count1"`
	Count2 int     `json:"count2"`
}

type MediaView struct {
	Photo int `json:"photo"`
	Voice int `json:"voice"`
	Link  int `json:"link"`
}

type FastestView struct {
	User string `json:"user"`
	Time string `json:"time"`
}

type PhraseCount struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// VibeScores is one participant's radar, in Locale.VibeLabels order.
type VibeScores struct {
	Sender string    `json:"sender"`
	Values []float64 `json:"values"`
}

const vibeAxes = 5

// VibeRadar scores each user on the Humor, Support, Gossip, Love and Drama axes.
//
// Humor and Love are per-message emoji and heart-emoji ratios scaled so the highest user gets
// 100. Support is 50 + 15*avg sentiment, Drama is 50 + 20*max(-avg sentiment, 0), and Gossip is
// the user's share of all messages; all are clamped to [0, 100] and rounded to one decimal.
func VibeRadar(m Metrics, users []string) []VibeScores {
	emojiRatio := make(map[string]float64, len(users))
	heartRatio := make(map[string]float64, len(users))
	maxEmoji, maxHeart := 0.0, 0.0
	for _, u := range users {
		msgs := m.MessageCounts[u]
		if msgs == 0 {
			msgs = 1
		}
		emojiRatio[u] = float64(m.EmojiTotals[u]) / float64(msgs)
		heartRatio[u] = float64(m.EmojiHearts[u]) / float64(msgs)
		maxEmoji = math.Max(maxEmoji, emojiRatio[u])
		maxHeart = math.Max(maxHeart, heartRatio[u])
	}

	out := make([]VibeScores, 0, len(users))
	for _, u := range users {
		avg := m.SentimentPerSender[u].Avg
		var humor, love float64
		if maxEmoji > 0 {
			humor = emojiRatio[u] / maxEmoji * 100.0
		}
		if maxHeart > 0 {
			love = heartRatio[u] / maxHeart * 100.0
		}
		support := clamp(0, 100, 50+avg*15)
		drama := clamp(0, 100, 50+math.Max(-avg, 0)*20)
		gossip := clamp(0, 100, m.MessageShares[u])
		out = append(out, VibeScores{
			Sender: u,
			Values: []float64{round1(humor), round1(support), round1(gossip), round1(love), round1(drama)},
		})
	}
	return out
}

// topVibeLabels names the two axes with the highest average across both users.
func topVibeLabels(labels []string, v1, v2 []float64, joiner string) string {
	if len(labels) == 0 {
		return notAvailable
	}
	type axis struct {
		label string
		val   float64
	}
	axes := make([]axis, len(labels))
	for i, l := range labels {
		var val float64
		if i < len(v1) && i < len(v2) {
			val = (v1[i] + v2[i]) / 2
		}
		axes[i] = axis{label: l, val: val}
	}
	slices.SortStableFunc(axes, func(a, b axis) int {
		switch {
		case a.val > b.val:
			return -1
		case a.val < b.val:
			return 1
		}
		return 0
	})
	top := make([]string, 0, 2)
	for _, a := range axes[:min(2, len(axes))] {
		top = append(top, a.label)
	}
	return strings.Join(top, joiner)
}

// BuildStats projects a Metrics bundle onto the renderer schema for the (up to) two most
// active participants. Category winners break ties alphabetically by sender name.
func BuildStats(m Metrics, loc Locale) Stats {
	if len(loc.VibeLabels) != vibeAxes || len(loc.Weekdays) != 7 || len(loc.Months) != 12 {
		loc = LocaleEN
	}

	participants := m.Participants
	if len(participants) == 0 {
		participants = []string{"User"}
	}
	users := slices.Clone(participants[:min(2, len(participants))])

	msgs := make([]int, len(users))
	for i, u := range users {
		msgs[i] = m.MessageCounts[u]
	}

	hours := make([]int, 24)
	copy(hours, m.HourlyCounts)

	s := Stats{
		Users:    users,
		Total:    m.TotalMessages,
		Msgs:     msgs,
		Hours:    hours,
		PeakHour: FormatPeakHour(hours),
		NightPct: fmt.Sprintf("%.0f%%", m.NightStats.Pct),
	}

	s.NightWinner = NameCount{Name: notAvailable}
	if w := m.NightStats.Winner; w != nil {
		s.NightWinner = NameCount{Name: w.Sender, Count: w.Count}
	}

	s.LastSeen = lastSeenView(m.LastSeenStats, users)

	s.FastReplyWinner = users[len(users)-1]
	if w := m.FastReplyStats.Winner; w != nil {
		s.FastReplyWinner = w.Sender
		s.FastReplyPct = round1(w.Pct)
	}

	s.AvgTime = make([]string, len(users))
	for i, u := range users {
		st := m.ResponseTimeStats[u]
		s.AvgTime[i] = FormatMinutesShort(st.AvgMin)
	}

	s.Emojis = make([]string, 0, 3)
	for _, e := range m.TopEmojis[:min(3, len(m.TopEmojis))] {
		s.Emojis = append(s.Emojis, e.Label)
	}
	for len(s.Emojis) < 3 {
		s.Emojis = append(s.Emojis, ".")
	}
	s.FavEmojiName = notAvailable
	if len(m.TopEmojis) > 0 {
		s.FavEmojiName = fmt.Sprintf("%s (%d)", m.TopEmojis[0].Label, m.TopEmojis[0].Count)
	}

	s.Media, s.MediaKing = mediaView(m, participants)

	s.Fastest = FastestView{User: users[0], Time: FormatMinutesShort(nil)}
	if f := m.ResponseTimeFastest; f != nil {
		avg := f.AvgMin
		s.Fastest = FastestView{User: f.Sender, Time: FormatMinutesShort(&avg)}
	}

	s.LongestGap = notAvailable
	if g := m.LongestGap; g != nil {
		s.LongestGap = fmt.Sprintf("%s (%s - %s)", FormatDuration(g.DurationSeconds),
			g.Start.Format("2006-01-02"), g.End.Format("2006-01-02"))
	}

	s.TopDate = notAvailable
	if d := m.MostActiveDay; d != nil {
		s.TopDate = FormatDateLabel(d.Date, loc)
	}

	s.VibeLabels = slices.Clone(loc.VibeLabels)
	radar := VibeRadar(m, users)
	s.VibeData1 = make([]float64, vibeAxes)
	s.VibeData2 = make([]float64, vibeAxes)
	if len(radar) > 0 {
		s.VibeData1 = radar[0].Values
	}
	if len(radar) > 1 {
		s.VibeData2 = radar[1].Values
	}
	s.VibeMain = topVibeLabels(s.VibeLabels, s.VibeData1, s.VibeData2, loc.Joiner)

	s.AvgLen = make([]float64, len(users))
	s.Starters = make([]int, len(users))
	for i, u := range users {
		s.AvgLen[i] = round1(m.AvgLenStats[u])
		s.Starters[i] = m.StartersStats[u]
	}
	s.YapMaster = notAvailable
	if name, _, ok := maxSender(m.AvgLenStats); ok {
		s.YapMaster = name
	}
	s.StarterKing = notAvailable
	if name, _, ok := maxSender(m.StartersStats); ok {
		s.StarterKing = name
	}

	s.TopPhrases = make([]PhraseCount, 3)
	for i := range s.TopPhrases {
		if i < len(m.TopPhrases) {
			s.TopPhrases[i] = PhraseCount{Text: m.TopPhrases[i].Label, Count: m.TopPhrases[i].Count}
		} else {
			s.TopPhrases[i] = PhraseCount{Text: "...", Count: 0}
		}
	}

	s.Weekdays = make([]int, 7)
	copy(s.Weekdays, m.WeekdayCounts)
	s.FavDay = notAvailable
	if best := slices.Max(s.Weekdays); best > 0 {
		s.FavDay = loc.Weekdays[slices.Index(s.Weekdays, best)]
	}
	return s
}

func lastSeenView(ls LastSeenStats, users []string) LastSeenView {
	v := LastSeenView{Name: notAvailable}
	if ls.Winner != nil {
		v.Name = ls.Winner.Sender
	}
	v.Count1 = ls.Counts[users[0]]
	v.Pct1 = ls.PctBySender[users[0]]
	if len(users) > 1 {
		v.Count2 = ls.Counts[users[1]]
		v.Pct2 = ls.PctBySender[users[1]]
	}
	if ls.Total == 0 {
		if len(users) > 1 {
			v.Pct1, v.Pct2 = 50, 50
		} else {
			v.Pct1, v.Pct2 = 100, 100
		}
	}
	v.Pct1 = round1(v.Pct1)
	v.Pct2 = round1(v.Pct2)
	return v
}

// mediaView totals attachments and links; photos and videos share the "photo" bucket.
func mediaView(m Metrics, participants []string) (MediaView, string) {
	var photos, videos, audio int
	for _, mc := range m.MediaCounts {
		photos += mc.Photos
		videos += mc.Videos
		audio += mc.Audio
	}
	links := m.LinkStats.Total
	view := MediaView{Photo: photos + videos, Voice: audio, Link: links}
	if photos+videos+audio+links == 0 {
		return view, notAvailable
	}
	scores := make(map[string]int, len(participants))
	for _, p := range participants {
		mc := m.MediaCounts[p]
		scores[p] = mc.Photos + mc.Videos + mc.Audio + m.LinkStats.PerSender[p]
	}
	king, _, ok := maxSender(scores)
	if !ok {
		return view, notAvailable
	}
	return view, king
}
