package analysis

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Lexicon is the tunable weight table behind the heuristic sentiment scorer.
// Keys are normalized tokens (lowercase, diacritic-free).
type Lexicon struct {
	Weights      map[string]float64 `yaml:"weights"`
	Intensifiers map[string]float64 `yaml:"intensifiers"`
	Dampeners    map[string]float64 `yaml:"dampeners"`
	Negations    []string           `yaml:"negations"`

	negations map[string]struct{}
}

// DefaultLexicon returns a fresh copy of the built-in English/Polish lexicon.
func DefaultLexicon() *Lexicon {
	lx := &Lexicon{
		Weights:      maps.Clone(defaultWeights),
		Intensifiers: maps.Clone(defaultIntensifiers),
		Dampeners:    maps.Clone(defaultDampeners),
		Negations:    append([]string(nil), defaultNegations...),
	}
	lx.index()
	return lx
}

// LoadLexicon reads a YAML overlay and applies it on top of the default lexicon. Entries in
// the file replace or extend the defaults; a weight of 0 effectively removes a word.
func LoadLexicon(path string) (*Lexicon, error) {
	if path == "" {
		return nil, errors.New("LoadLexicon: path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadLexicon: read file: %w", err)
	}
	var overlay Lexicon
	if err := yaml.Unmarshal(b, &overlay); err != nil {
		return nil, fmt.Errorf("LoadLexicon: unmarshal: %w", err)
	}

	lx := DefaultLexicon()
	for k, v := range overlay.Weights {
		lx.Weights[NormalizeToken(k)] = v
	}
	for k, v := range overlay.Intensifiers {
		lx.Intensifiers[NormalizeToken(k)] = v
	}
	for k, v := range overlay.Dampeners {
		lx.Dampeners[NormalizeToken(k)] = v
	}
	for _, n := range overlay.Negations {
		lx.Negations = append(lx.Negations, NormalizeToken(n))
	}
	lx.index()
	return lx, nil
}

func (lx *Lexicon) index() {
	lx.negations = toSet(lx.Negations...)
}

func (lx *Lexicon) isNegation(token string) bool {
	if lx.negations == nil {
		return slices.Contains(lx.Negations, token)
	}
	_, ok := lx.negations[token]
	return ok
}

var defaultWeights = map[string]float64{
	"super": 1.4, "ok": 0.8, "dobry": 1.2, "swietny": 1.6, "fajny": 1.1, "kocham": 2.0,
	"lubi": 0.9, "lubie": 0.9, "dzieki": 1.1, "dziekuje": 1.1, "spoko": 1.0, "wow": 1.2,
	"git": 1.1, "cool": 1.2, "nice": 1.1, "great": 1.5, "awesome": 1.7, "love": 1.6,
	"happy": 1.3, "perfect": 1.6, "yes": 0.7, "yup": 0.6, "thx": 0.8, "thanks": 1.0,
	"xd": 0.5, "lol": 0.6,
	"zly": -1.4, "slaby": -1.1, "wkurza": -1.4, "nie": -0.6, "niechce": -1.1,
	"nienawidze": -2.0, "problem": -0.9, "sorry": -0.7, "bad": -1.2, "sad": -1.2,
	"angry": -1.5, "hate": -1.8, "nope": -0.8, "worst": -1.6, "sucks": -1.4, "wtf": -1.3,
	"eh": -0.4, "serio": -0.6, "bezsens": -1.1, "masakra": -1.4,

	"wspanialy": 1.8, "cudowny": 1.7, "fantastyczny": 1.6, "niesamowity": 1.6,
	"rewelacja": 1.7, "rewelacyjny": 1.6, "extra": 1.1, "fajnie": 1.0, "pieknie": 1.2,
	"uroczo": 1.1, "slodko": 1.1, "kochany": 1.4, "uwielbiam": 1.9, "dumna": 1.2,
	"dumny": 1.2, "wspaniale": 1.6, "genialny": 1.7, "genialnie": 1.5, "zajebiscie": 1.8,
	"zajebisty": 1.8, "spokojnie": 0.6,
	"tragedia": -1.7, "dramat": -1.6, "beznadziejny": -1.7, "okropny": -1.6, "fatalny": -1.6,
	"smutno": -1.3, "smutny": -1.3, "przykro": -1.1, "zal": -1.1, "zalosny": -1.2,
	"zalosne": -1.2, "zle": -1.2, "gorzej": -0.9, "slabo": -1.1, "wkurzony": -1.4,
	"wkurwiony": -1.6, "zalamka": -1.4, "nerwowo": -1.1, "nerwowy": -1.1, "stres": -1.0,
	"stresujace": -1.1, "okropnie": -1.5, "niefajny": -1.0,
}

var defaultIntensifiers = map[string]float64{
	"bardzo": 1.3, "mega": 1.4, "super": 1.2, "strasznie": 1.4, "naprawde": 1.2,
	"totalnie": 1.2, "mocno": 1.2, "niesamowicie": 1.4, "cholernie": 1.3,
}

var defaultDampeners = map[string]float64{
	"troche": 0.7, "troszke": 0.7, "lekko": 0.8, "raczej": 0.8,
}

var defaultNegations = []string{
	"nie", "nigdy", "bez", "zadne", "zadnych", "zadna", "zadnego", "nikt", "nic",
}
