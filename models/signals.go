package models

import "time"

type TrendSignal struct {
	Symbol        string  `json:"symbol"`
	SearchTerm    string  `json:"search_term"`
	Interest      float64 `json:"interest"`
	WeekAvg       float64 `json:"week_avg"`
	ChangePercent float64 `json:"change_percent"`
	Direction     string  `json:"direction"`
}

type NewsArticle struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	Symbol      string    `json:"symbol"`
	PublishedAt time.Time `json:"published_at"`
}

// SignalDigest is the structured output of the narrative analysis step.
type SignalDigest struct {
	Voices       []VoiceSignal `json:"voices"`
	Synthesis    Synthesis     `json:"synthesis"`
	CrossSignals []string      `json:"cross_signals"`
}

type VoiceSignal struct {
	Name          string `json:"name"`
	Source        string `json:"source"`
	Date          string `json:"date"`
	Insight       string `json:"insight"`
	Regime        string `json:"regime"`
	Tone          string `json:"tone"`
	WatchOrResult string `json:"watch_or_result"`
}

type Synthesis struct {
	KeyRiskOrConfirmed     string `json:"key_risk_or_confirmed"`
	KeyThemeOrWeakened     string `json:"key_theme_or_weakened"`
	InvalidationOrQuestion string `json:"invalidation_or_question"`
}
