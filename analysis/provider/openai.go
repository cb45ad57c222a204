package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"

	"github.com/theimaginaryfoundation/chat-wrapped/analysis/fileutils"
)

// DefaultSentimentModel is used when NewOpenAIScorer gets an empty model name.
const DefaultSentimentModel = "gpt-4.1-mini"

const maxMessageChars = 600

const sentimentInstructions = `You rate the sentiment of short chat messages.
The input is a JSON array of {"index": n, "text": "..."} objects. Messages may be in English or Polish and may contain slang, emoji or emoticons.
Return one score per input index: -1 is very negative, 0 is neutral, 1 is very positive.
Judge each message on its own. Do not skip any index.`

// SentimentBatch is the structured output the model must return.
type SentimentBatch struct {
	Scores []IndexedScore `json:"scores" jsonschema:"description=One entry per input message"`
}

type IndexedScore struct {
	Index int     `json:"index" jsonschema:"description=Index of the input message"`
	Score float64 `json:"score" jsonschema:"description=Sentiment from -1 (negative) to 1 (positive)"`
}

var sentimentBatchSchema = GenerateSchema[SentimentBatch]()

// OpenAIScorer scores message batches with a Responses API model. It satisfies the
// analysis.Scorer interface.
type OpenAIScorer struct {
	client *openai.Client
	model  string
}

func NewOpenAIScorer(client *openai.Client, model string) *OpenAIScorer {
	if strings.TrimSpace(model) == "" {
		model = DefaultSentimentModel
	}
	return &OpenAIScorer{client: client, model: model}
}

func (s *OpenAIScorer) ScoreBatch(ctx context.Context, texts []string) ([]float64, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("OpenAIScorer: client is nil")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	input, err := buildSentimentInput(texts)
	if err != nil {
		return nil, fmt.Errorf("OpenAIScorer: build input: %w", err)
	}

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "SentimentBatch",
			Schema:      sentimentBatchSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Per-message sentiment scores"),
			Type:        "json_schema",
		},
	}
	params := responses.ResponseNewParams{
		Model:           s.model,
		MaxOutputTokens: openai.Int(int64(64 + 24*len(texts))),
		Instructions:    openai.String(sentimentInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(input, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := CallWithRetry(ctx, s.client, params)
	if err != nil {
		return nil, fmt.Errorf("OpenAIScorer: call: %w", err)
	}

	var out SentimentBatch
	if err := fileutils.DecodeModelJSON(resp.OutputText(), &out); err != nil {
		return nil, fmt.Errorf("OpenAIScorer: decode: %w", err)
	}
	return scoresFromBatch(out, len(texts))
}

func buildSentimentInput(texts []string) (string, error) {
	type item struct {
		Index int    `json:"index"`
		Text  string `json:"text"`
	}
	items := make([]item, len(texts))
	for i, t := range texts {
		items[i] = item{Index: i, Text: fileutils.Truncate(t, maxMessageChars)}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// scoresFromBatch orders the model's scores by index and clamps them to [-1, 1]. A missing
// index or an out-of-range one is an error so the caller can fall back for the whole batch.
func scoresFromBatch(batch SentimentBatch, n int) ([]float64, error) {
	scores := make([]float64, n)
	seen := make([]bool, n)
	for _, s := range batch.Scores {
		if s.Index < 0 || s.Index >= n {
			return nil, fmt.Errorf("scoresFromBatch: index %d out of range [0,%d)", s.Index, n)
		}
		v := s.Score
		if math.IsNaN(v) {
			v = 0
		}
		scores[s.Index] = math.Max(-1, math.Min(1, v))
		seen[s.Index] = true
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("scoresFromBatch: missing score for index %d", i)
		}
	}
	return scores, nil
}

func CallWithRetry(ctx context.Context, client *openai.Client, params responses.ResponseNewParams) (*responses.Response, error) {
	const maxRetries = 3
	rateLimitWaitTimes := []time.Duration{65 * time.Second, 100 * time.Second, 135 * time.Second}
	serverErrorWaitTimes := []time.Duration{5 * time.Second, 30 * time.Second, 60 * time.Second}

	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err := client.Responses.New(ctx, params)
		if err != nil {
			var wait time.Duration
			switch {
			case isRateLimitError(err):
				wait = rateLimitWaitTimes[attempt]
			case isServerError(err):
				wait = serverErrorWaitTimes[attempt]
			default:
				return nil, err
			}
			if attempt == maxRetries-1 {
				return nil, err
			}
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("failed after %d attempts due to OpenAI API issues", maxRetries)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}

func isServerError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "server_error")
}

// GenerateSchema reflects T into a strict structured-output schema.
func GenerateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	schemaObj, err := schemaToMap(schema)
	if err != nil {
		panic(err)
	}
	ensureOpenAICompliance(schemaObj)
	return schemaObj
}

func schemaToMap(schema *jsonschema.Schema) (map[string]interface{}, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

const (
	propertiesKey           = "properties"
	additionalPropertiesKey = "additionalProperties"
	typeKey                 = "type"
	requiredKey             = "required"
	itemsKey                = "items"
)

// ensureOpenAICompliance marks every object closed and every property required, recursively.
func ensureOpenAICompliance(schema map[string]interface{}) {
	if schemaType, ok := schema[typeKey].(string); ok && schemaType == "object" {
		schema[additionalPropertiesKey] = false

		if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
			var requiredFields []string
			for propName := range properties {
				requiredFields = append(requiredFields, propName)
			}
			sort.Strings(requiredFields)
			if len(requiredFields) > 0 {
				schema[requiredKey] = requiredFields
			}
		}
	}

	if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
		for _, prop := range properties {
			if propMap, ok := prop.(map[string]interface{}); ok {
				ensureOpenAICompliance(propMap)
			}
		}
	}

	if items, ok := schema[itemsKey].(map[string]interface{}); ok {
		ensureOpenAICompliance(items)
	}
}
