package analysis

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// SentimentBatchSize is the number of texts handed to a Scorer per call.
const SentimentBatchSize = 32

// WeekdayNames are the short weekday labels, Monday first.
var WeekdayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var heartEmojis = toSet(
	"❤", "❤️", "\U0001F90D", "\U0001F9E1", "\U0001F499", "\U0001F49A",
	"\U0001F49B", "\U0001F49C", "\U0001F5A4", "\U0001F90E", "\U0001F498", "\U0001F49D",
	"\U0001F496", "\U0001F497", "\U0001F493", "\U0001F49E", "\U0001F49F", "❣️",
)

// Options configures one Compute run. Start from DefaultOptions. Zero or negative values of
// MaxResponseSeconds, NightEndHour, LastSeenHour, FastReplySeconds and StarterGapSeconds mean
// "use the default", so LastSeenHour cannot be set to 0. NightStartHour 0 is kept as given.
type Options struct {
	// Location is the timezone used for all calendar statistics (nil = UTC).
	Location *time.Location

	// Response deltas outside [MinResponseSeconds, MaxResponseSeconds] are ignored.
	MinResponseSeconds float64
	MaxResponseSeconds float64

	// Night window is [NightStartHour, NightEndHour) in local time.
	NightStartHour int
	NightEndHour   int

	// Days whose last message was sent at or after LastSeenHour count toward last-seen stats.
	// Valid values are 1..23; 0 selects the default.
	LastSeenHour int

	FastReplySeconds  float64
	StarterGapSeconds float64

	// Scorer replaces the heuristic sentiment model when set.
	Scorer Scorer
	// Lexicon overrides the heuristic's weight table (nil = default).
	Lexicon *Lexicon

	Logger zerolog.Logger
}

// DefaultOptions returns the standard configuration.
func DefaultOptions() Options {
	return Options{
		Location:           time.UTC,
		MinResponseSeconds: 1,
		MaxResponseSeconds: 12 * 3600,
		NightStartHour:     0,
		NightEndHour:       5,
		LastSeenHour:       23,
		FastReplySeconds:   300,
		StarterGapSeconds:  6 * 3600,
		Logger:             zerolog.Nop(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Location == nil {
		o.Location = d.Location
	}
	if o.MaxResponseSeconds <= 0 {
		o.MaxResponseSeconds = d.MaxResponseSeconds
	}
	if o.NightEndHour <= 0 {
		o.NightEndHour = d.NightEndHour
	}
	if o.LastSeenHour <= 0 {
		o.LastSeenHour = d.LastSeenHour
	}
	if o.FastReplySeconds <= 0 {
		o.FastReplySeconds = d.FastReplySeconds
	}
	if o.StarterGapSeconds <= 0 {
		o.StarterGapSeconds = d.StarterGapSeconds
	}
	if o.Lexicon == nil {
		o.Lexicon = defaultLexicon
	}
	return o
}

// SortMessages returns a copy of messages ordered by timestamp. Equal timestamps keep their
// input order.
func SortMessages(messages []Message) []Message {
	sorted := slices.Clone(messages)
	slices.SortStableFunc(sorted, func(a, b Message) int {
		switch {
		case a.TimestampMs < b.TimestampMs:
			return -1
		case a.TimestampMs > b.TimestampMs:
			return 1
		}
		return 0
	})
	return sorted
}

func localTime(ms int64, loc *time.Location) time.Time {
	return time.UnixMilli(ms).In(loc)
}

func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func monthLabel(t time.Time) string {
	return t.Format("2006-01")
}

func deltaSeconds(prev, cur Message) float64 {
	return float64(cur.TimestampMs-prev.TimestampMs) / 1000.0
}

// isRedacted reports whether content carries an unsent/placeholder marker; such messages are
// left out of word and phrase rankings.
func isRedacted(content string) bool {
	lower := strings.ToLower(content)
	return strings.Contains(lower, "user") || strings.Contains(lower, "unsent")
}

// Compute builds the metrics bundle for one conversation. It never fails: empty input yields
// zero counts, empty maps and nil records. ctx is only passed on to opts.Scorer.
func Compute(ctx context.Context, messages []Message, opts Options) Metrics {
	opts = opts.withDefaults()
	loc := opts.Location
	sorted := SortMessages(messages)

	counts := messageCounts(sorted)
	total := len(sorted)
	shares := make(map[string]float64, len(counts))
	for s, c := range counts {
		shares[s] = float64(c) / float64(total) * 100.0
	}
	participants := rankParticipants(counts)
	textMessages := 0
	for _, m := range sorted {
		if m.Text() != "" {
			textMessages++
		}
	}

	deltas := responseTimeDeltas(sorted, opts.MinResponseSeconds, opts.MaxResponseSeconds)
	responseStats := make(map[string]ResponseStats, len(participants))
	for s, d := range deltas {
		responseStats[s] = summarizeDeltas(d)
	}
	for _, p := range participants {
		if _, ok := responseStats[p]; !ok {
			responseStats[p] = ResponseStats{}
		}
	}
	fastest, slowest := responseTimeLeaders(responseStats)

	topWords, topWordsBySender := wordStats(sorted)
	topPhrases, topPhrasesBySender := popularPhrases(sorted)
	topEmojis, topEmojisBySender, emojiTotals, emojiHearts := emojiStats(sorted)

	var topSender string
	if len(participants) > 0 {
		topSender = participants[0]
	}

	m := Metrics{
		TotalMessages: total,
		TextMessages:  textMessages,
		Participants:  participants,
		MessageCounts: counts,
		MessageShares: shares,
		TopSender:     topSender,

		ResponseTimeDeltas:   deltas,
		ResponseTimeStats:    responseStats,
		ResponseTimeOverall:  overallResponseStats(deltas),
		ResponseTimeExtremes: responseTimeExtremes(deltas),
		ResponseTimeFastest:  fastest,
		ResponseTimeSlowest:  slowest,

		TopWords:           topWords,
		TopWordsBySender:   topWordsBySender,
		TopPhrases:         topPhrases,
		TopPhrasesBySender: topPhrasesBySender,

		TopHours:         topHours(sorted, loc),
		HourlyCounts:     hourlyCounts(sorted, loc),
		TopWeekdays:      topWeekdays(sorted, loc),
		WeekdayCounts:    weekdayCounts(sorted, loc),
		MessagesPerMonth: messagesPerMonth(sorted, loc),
		MostActiveDay:    mostActiveDay(sorted, loc),
		LongestGap:       longestGap(sorted, loc),

		TopEmojis:         topEmojis,
		TopEmojisBySender: topEmojisBySender,
		EmojiTotals:       emojiTotals,
		EmojiHearts:       emojiHearts,
		EmojiLeader:       senderLeader(emojiTotals),

		LinkStats: linkStats(sorted),

		NightStats:     nightStats(sorted, loc, opts.NightStartHour, opts.NightEndHour),
		LastSeenStats:  lastSeenStats(sorted, loc, opts.LastSeenHour),
		FastReplyStats: fastReplyStats(sorted, opts.FastReplySeconds),

		LongestStreak: longestStreak(sorted),
		DateRange:     dateRange(sorted, loc),
		Timezone:      loc.String(),
		AvgLenStats:   averageMessageLength(sorted),
		StartersStats: conversationStarters(sorted, opts.StarterGapSeconds),
	}
	m.MediaCounts = mediaStats(sorted)
	m.MediaLeaders = mediaLeaders(m.MediaCounts)
	m.SentimentPerSender, m.SentimentByMonth = sentimentStats(ctx, sorted, loc, opts)
	return m
}

func messageCounts(messages []Message) map[string]int {
	counts := make(map[string]int)
	for _, m := range messages {
		counts[m.SenderName]++
	}
	return counts
}

// rankParticipants orders senders by message count, then by name.
func rankParticipants(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for s := range counts {
		names = append(names, s)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// responseTimeDeltas attributes the delay between two consecutive messages from different
// senders to the later sender, keeping only delays within [minSeconds, maxSeconds].
func responseTimeDeltas(sorted []Message, minSeconds, maxSeconds float64) map[string][]float64 {
	deltas := make(map[string][]float64)
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.SenderName == cur.SenderName {
			continue
		}
		d := deltaSeconds(prev, cur)
		if d < minSeconds || d > maxSeconds {
			continue
		}
		deltas[cur.SenderName] = append(deltas[cur.SenderName], d)
	}
	return deltas
}

// Percentile returns the p-th percentile of values using linear interpolation between the
// closest ranks (k = (n-1)*p/100). ok is false for an empty slice.
func Percentile(values []float64, p float64) (v float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	if len(values) == 1 {
		return values[0], true
	}
	s := slices.Clone(values)
	slices.Sort(s)
	k := float64(len(s)-1) * (p / 100.0)
	f := math.Floor(k)
	c := math.Ceil(k)
	if f == c {
		return s[int(k)], true
	}
	return s[int(f)] + (s[int(c)]-s[int(f)])*(k-f), true
}

func median(values []float64) float64 {
	s := slices.Clone(values)
	slices.Sort(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

func minutesPtr(seconds float64) *float64 {
	v := seconds / 60.0
	return &v
}

func summarizeDeltas(deltas []float64) ResponseStats {
	if len(deltas) == 0 {
		return ResponseStats{}
	}
	sum := 0.0
	for _, d := range deltas {
		sum += d
	}
	p90, _ := Percentile(deltas, 90)
	return ResponseStats{
		Count:     len(deltas),
		AvgMin:    minutesPtr(sum / float64(len(deltas))),
		MedianMin: minutesPtr(median(deltas)),
		P90Min:    minutesPtr(p90),
		MinMin:    minutesPtr(slices.Min(deltas)),
		MaxMin:    minutesPtr(slices.Max(deltas)),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func overallResponseStats(deltas map[string][]float64) ResponseStats {
	var all []float64
	for _, s := range sortedKeys(deltas) {
		all = append(all, deltas[s]...)
	}
	return summarizeDeltas(all)
}

func responseTimeExtremes(deltas map[string][]float64) ResponseExtremes {
	var (
		out              ResponseExtremes
		minVal, maxVal   float64
		haveMin, haveMax bool
	)
	for _, s := range sortedKeys(deltas) {
		for _, d := range deltas[s] {
			if !haveMin || d < minVal {
				minVal, out.MinSender, haveMin = d, s, true
			}
			if !haveMax || d > maxVal {
				maxVal, out.MaxSender, haveMax = d, s, true
			}
		}
	}
	if haveMin {
		out.MinMin = minutesPtr(minVal)
		out.MaxMin = minutesPtr(maxVal)
	}
	return out
}

func responseTimeLeaders(stats map[string]ResponseStats) (fastest, slowest *ResponseLeader) {
	avgs := make(map[string]float64)
	for s, st := range stats {
		if st.AvgMin != nil {
			avgs[s] = *st.AvgMin
		}
	}
	if s, v, ok := minSender(avgs); ok {
		fastest = &ResponseLeader{Sender: s, AvgMin: v}
	}
	if s, v, ok := maxSender(avgs); ok {
		slowest = &ResponseLeader{Sender: s, AvgMin: v}
	}
	return fastest, slowest
}

func rankedBySender(perSender map[string]*counter[string], n int) map[string][]Count {
	out := make(map[string][]Count, len(perSender))
	for s, c := range perSender {
		out[s] = ranked(c, n)
	}
	return out
}

func senderCounter(perSender map[string]*counter[string], sender string) *counter[string] {
	c, ok := perSender[sender]
	if !ok {
		c = newCounter[string]()
		perSender[sender] = c
	}
	return c
}

func wordStats(sorted []Message) ([]Count, map[string][]Count) {
	global := newCounter[string]()
	perSender := make(map[string]*counter[string])
	for _, m := range sorted {
		text := m.Text()
		if text == "" || isRedacted(text) {
			continue
		}
		tokens := Tokenize(text)
		if len(tokens) == 0 {
			continue
		}
		global.addAll(tokens)
		senderCounter(perSender, m.SenderName).addAll(tokens)
	}
	return ranked(global, 10), rankedBySender(perSender, 5)
}

// popularPhrases ranks the 2- to 5-word phrases that pass IsMeaningfulPhrase.
func popularPhrases(sorted []Message) ([]Count, map[string][]Count) {
	global := newCounter[string]()
	perSender := make(map[string]*counter[string])
	for _, m := range sorted {
		text := m.Text()
		if text == "" || isRedacted(text) {
			continue
		}
		tokens := TokenizeRaw(text)
		if len(tokens) == 0 {
			continue
		}
		var phrases []string
		for n := 2; n <= 5; n++ {
			for _, p := range GenerateNgrams(tokens, n) {
				if IsMeaningfulPhrase(p) {
					phrases = append(phrases, p)
				}
			}
		}
		global.addAll(phrases)
		senderCounter(perSender, m.SenderName).addAll(phrases)
	}
	return ranked(global, 10), rankedBySender(perSender, 5)
}

func topHours(sorted []Message, loc *time.Location) []HourCount {
	c := newCounter[int]()
	for _, m := range sorted {
		c.add(localTime(m.TimestampMs, loc).Hour(), 1)
	}
	hours := c.mostCommon(5)
	out := make([]HourCount, len(hours))
	for i, h := range hours {
		out[i] = HourCount{Hour: h, Count: c.counts[h]}
	}
	return out
}

func hourlyCounts(sorted []Message, loc *time.Location) []int {
	counts := make([]int, 24)
	for _, m := range sorted {
		counts[localTime(m.TimestampMs, loc).Hour()]++
	}
	return counts
}

func weekdayCounts(sorted []Message, loc *time.Location) []int {
	counts := make([]int, 7)
	for _, m := range sorted {
		counts[weekdayIndex(localTime(m.TimestampMs, loc))]++
	}
	return counts
}

func topWeekdays(sorted []Message, loc *time.Location) []Count {
	c := newCounter[int]()
	for _, m := range sorted {
		c.add(weekdayIndex(localTime(m.TimestampMs, loc)), 1)
	}
	days := c.mostCommon(5)
	out := make([]Count, len(days))
	for i, d := range days {
		out[i] = Count{Label: WeekdayNames[d], Count: c.counts[d]}
	}
	return out
}

func messagesPerMonth(sorted []Message, loc *time.Location) []Count {
	c := newCounter[string]()
	for _, m := range sorted {
		c.add(monthLabel(localTime(m.TimestampMs, loc)), 1)
	}
	out := make([]Count, 0, c.len())
	for _, label := range c.order {
		out = append(out, Count{Label: label, Count: c.counts[label]})
	}
	slices.SortFunc(out, func(a, b Count) int { return strings.Compare(a.Label, b.Label) })
	return out
}

// mostActiveDay returns the date with the most messages; ties go to the earliest date.
func mostActiveDay(sorted []Message, loc *time.Location) *DayCount {
	c := newCounter[string]()
	for _, m := range sorted {
		c.add(localTime(m.TimestampMs, loc).Format(time.DateOnly), 1)
	}
	if c.len() == 0 {
		return nil
	}
	day := c.mostCommon(1)[0]
	return &DayCount{Date: day, Count: c.counts[day]}
}

func longestGap(sorted []Message, loc *time.Location) *Gap {
	if len(sorted) < 2 {
		return nil
	}
	best := -1.0
	var start, end int64
	for i := 1; i < len(sorted); i++ {
		if d := deltaSeconds(sorted[i-1], sorted[i]); d > best {
			best = d
			start, end = sorted[i-1].TimestampMs, sorted[i].TimestampMs
		}
	}
	return &Gap{
		DurationSeconds: best,
		Start:           localTime(start, loc),
		End:             localTime(end, loc),
	}
}

func emojiStats(sorted []Message) ([]Count, map[string][]Count, map[string]int, map[string]int) {
	global := newCounter[string]()
	perSender := make(map[string]*counter[string])
	totals := make(map[string]int)
	hearts := make(map[string]int)
	for _, m := range sorted {
		emojis := ExtractEmojis(m.Text())
		if len(emojis) == 0 {
			continue
		}
		global.addAll(emojis)
		senderCounter(perSender, m.SenderName).addAll(emojis)
		totals[m.SenderName] += len(emojis)
		n := 0
		for _, e := range emojis {
			if _, ok := heartEmojis[e]; ok {
				n++
			}
		}
		hearts[m.SenderName] += n
	}
	return ranked(global, 10), rankedBySender(perSender, 5), totals, hearts
}

func senderLeader(totals map[string]int) *SenderCount {
	s, n, ok := maxSender(totals)
	if !ok {
		return nil
	}
	return &SenderCount{Sender: s, Count: n}
}

func mediaStats(sorted []Message) map[string]MediaCounts {
	out := make(map[string]MediaCounts)
	for _, m := range sorted {
		mc := out[m.SenderName]
		mc.Photos += m.PhotoCount
		mc.Videos += m.VideoCount
		mc.Audio += m.AudioCount
		out[m.SenderName] = mc
	}
	return out
}

func mediaLeaders(media map[string]MediaCounts) MediaLeaders {
	leader := func(pick func(MediaCounts) int) *SenderCount {
		totals := make(map[string]int, len(media))
		for s, mc := range media {
			totals[s] = pick(mc)
		}
		s, n, ok := maxSender(totals)
		if !ok || n <= 0 {
			return nil
		}
		return &SenderCount{Sender: s, Count: n}
	}
	return MediaLeaders{
		Photos: leader(func(mc MediaCounts) int { return mc.Photos }),
		Videos: leader(func(mc MediaCounts) int { return mc.Videos }),
		Audio:  leader(func(mc MediaCounts) int { return mc.Audio }),
	}
}

func linkStats(sorted []Message) LinkStats {
	out := LinkStats{PerSender: make(map[string]int)}
	for _, m := range sorted {
		if n := len(ExtractLinks(m.Text())); n > 0 {
			out.PerSender[m.SenderName] += n
			out.Total += n
		}
	}
	return out
}

func nightStats(sorted []Message, loc *time.Location, startHour, endHour int) NightStats {
	out := NightStats{PerSender: make(map[string]int)}
	for _, m := range sorted {
		h := localTime(m.TimestampMs, loc).Hour()
		if h >= startHour && h < endHour {
			out.Count++
			out.PerSender[m.SenderName]++
		}
	}
	if len(sorted) > 0 {
		out.Pct = float64(out.Count) / float64(len(sorted)) * 100.0
	}
	out.Winner = senderLeader(out.PerSender)
	return out
}

// lastSeenStats credits, for every calendar day, the sender of that day's final message when
// it was sent at or after thresholdHour.
func lastSeenStats(sorted []Message, loc *time.Location, thresholdHour int) LastSeenStats {
	lastPerDay := make(map[string]Message)
	for _, m := range sorted {
		lastPerDay[localTime(m.TimestampMs, loc).Format(time.DateOnly)] = m
	}
	out := LastSeenStats{
		Counts:      make(map[string]int),
		PctBySender: make(map[string]float64),
	}
	for _, m := range lastPerDay {
		if localTime(m.TimestampMs, loc).Hour() >= thresholdHour {
			out.Counts[m.SenderName]++
			out.Total++
		}
	}
	for s, n := range out.Counts {
		out.PctBySender[s] = float64(n) / float64(out.Total) * 100.0
	}
	out.Winner = senderLeader(out.Counts)
	return out
}

// fastReplyStats measures, per sender, the share of their messages that were answered by
// someone else within maxSeconds.
func fastReplyStats(sorted []Message, maxSeconds float64) FastReplyStats {
	out := FastReplyStats{
		Ratios:     make(map[string]float64),
		Totals:     make(map[string]int),
		FastCounts: make(map[string]int),
	}
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		out.Totals[prev.SenderName]++
		if prev.SenderName == cur.SenderName {
			continue
		}
		if deltaSeconds(prev, cur) <= maxSeconds {
			out.FastCounts[prev.SenderName]++
		}
	}
	for s, n := range out.Totals {
		out.Ratios[s] = float64(out.FastCounts[s]) / float64(n)
	}
	if s, r, ok := maxSender(out.Ratios); ok {
		out.Winner = &FastReplyWinner{Sender: s, Pct: r * 100.0}
	}
	return out
}

type scoredText struct {
	sender string
	month  string
	text   string
}

func sentimentStats(ctx context.Context, sorted []Message, loc *time.Location, opts Options) (map[string]SentimentSummary, []MonthScore) {
	var items []scoredText
	for _, m := range sorted {
		if t := m.Text(); t != "" {
			items = append(items, scoredText{
				sender: m.SenderName,
				month:  monthLabel(localTime(m.TimestampMs, loc)),
				text:   t,
			})
		}
	}

	perSender := make(map[string]SentimentSummary)
	byMonth := make(map[string][]float64)
	record := func(it scoredText, score float64) {
		s := perSender[it.sender]
		s.Total += score
		s.Count++
		perSender[it.sender] = s
		byMonth[it.month] = append(byMonth[it.month], score)
	}

	if opts.Scorer == nil {
		for _, it := range items {
			record(it, opts.Lexicon.Score(it.text))
		}
	} else {
		for start := 0; start < len(items); start += SentimentBatchSize {
			chunk := items[start:min(start+SentimentBatchSize, len(items))]
			texts := make([]string, len(chunk))
			for i, it := range chunk {
				texts[i] = it.text
			}
			scores := scoreBatch(ctx, opts, texts)
			for i, it := range chunk {
				record(it, scores[i])
			}
		}
	}

	for s, sum := range perSender {
		if sum.Count > 0 {
			sum.Avg = sum.Total / float64(sum.Count)
		}
		perSender[s] = sum
	}

	series := make([]MonthScore, 0, len(byMonth))
	for _, month := range sortedKeys(byMonth) {
		scores := byMonth[month]
		total := 0.0
		for _, v := range scores {
			total += v
		}
		series = append(series, MonthScore{Month: month, Avg: total / float64(len(scores))})
	}
	return perSender, series
}

// scoreBatch runs the configured scorer on one batch and always returns len(texts) finite
// scores. A failing or panicking scorer is replaced by the heuristic for the whole batch.
func scoreBatch(ctx context.Context, opts Options, texts []string) []float64 {
	scores, err := callScorer(ctx, opts.Scorer, texts)
	if err != nil {
		opts.Logger.Warn().Err(err).Int("batch_size", len(texts)).Msg("sentiment scorer failed; falling back to heuristic")
		scores = make([]float64, len(texts))
		for i, t := range texts {
			scores[i] = opts.Lexicon.Score(t)
		}
		return scores
	}
	if len(scores) != len(texts) {
		opts.Logger.Warn().Int("want", len(texts)).Int("got", len(scores)).Msg("sentiment scorer returned wrong batch length")
		fixed := make([]float64, len(texts))
		copy(fixed, scores)
		scores = fixed
	}
	for i, v := range scores {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			scores[i] = 0
		}
	}
	return scores
}

func callScorer(ctx context.Context, scorer Scorer, texts []string) (scores []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scorer panic: %v", r)
		}
	}()
	return scorer.ScoreBatch(ctx, texts)
}

func longestStreak(sorted []Message) Streak {
	var (
		best    Streak
		current string
		run     int
	)
	for i, m := range sorted {
		if i > 0 && m.SenderName == current {
			run++
		} else {
			current = m.SenderName
			run = 1
		}
		if run > best.Length {
			best = Streak{Sender: current, Length: run}
		}
	}
	return best
}

func dateRange(sorted []Message, loc *time.Location) DateRange {
	if len(sorted) == 0 {
		return DateRange{}
	}
	start := localTime(sorted[0].TimestampMs, loc)
	end := localTime(sorted[len(sorted)-1].TimestampMs, loc)
	return DateRange{Start: &start, End: &end}
}

// averageMessageLength is the mean Tokenize length per sender over messages with at least one
// token.
func averageMessageLength(sorted []Message) map[string]float64 {
	words := make(map[string]int)
	msgs := make(map[string]int)
	for _, m := range sorted {
		n := len(Tokenize(m.Text()))
		if n == 0 {
			continue
		}
		words[m.SenderName] += n
		msgs[m.SenderName]++
	}
	out := make(map[string]float64, len(msgs))
	for s, n := range msgs {
		out[s] = float64(words[s]) / float64(n)
	}
	return out
}

// conversationStarters credits the first message overall and every message that follows a
// silence longer than gapSeconds.
func conversationStarters(sorted []Message, gapSeconds float64) map[string]int {
	out := make(map[string]int)
	if len(sorted) == 0 {
		return out
	}
	out[sorted[0].SenderName]++
	for i := 1; i < len(sorted); i++ {
		if deltaSeconds(sorted[i-1], sorted[i]) > gapSeconds {
			out[sorted[i].SenderName]++
		}
	}
	return out
}
