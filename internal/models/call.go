package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// CallType est le type commercial d'un appel.
type CallType string

const (
	CallDiscovery CallType = "discovery"
	CallDemo      CallType = "demo"
	CallClosing   CallType = "closing"
	CallFollowUp  CallType = "follow_up"
)

// CallTypeMultiplier retourne le multiplicateur d'XP d'un type d'appel.
// Les types inconnus valent 1.0.
func CallTypeMultiplier(callType CallType) float64 {
	switch callType {
	case CallDemo:
		return 1.3
	case CallClosing:
		return 1.5
	case CallFollowUp:
		return 0.8
	default:
		return 1.0
	}
}

// CallRecord est un appel téléphonique importé depuis le fournisseur de
// téléphonie, enrichi par l'analyse conversationnelle.
type CallRecord struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	ExternalID string    `json:"external_id" db:"external_id"`
	CallType   CallType  `json:"call_type" db:"call_type"`

	Answered bool  `json:"answered" db:"answered"`
	Duration int64 `json:"duration" db:"duration"` // secondes

	PositiveSegments int `json:"positive_segments" db:"positive_segments"`
	NegativeSegments int `json:"negative_segments" db:"negative_segments"`
	ActionItems      int `json:"action_items" db:"action_items"`
	TopicsCovered    int `json:"topics_covered" db:"topics_covered"`

	StartedAt time.Time `json:"started_at" db:"started_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CallScore est la décomposition du score de jeu d'un appel, sur 100.
type CallScore struct {
	Answered  float64 `json:"answered"`
	Sentiment float64 `json:"sentiment"`
	Duration  float64 `json:"duration"`
	Actions   float64 `json:"actions"`
	Topics    float64 `json:"topics"`
	Total     int     `json:"total"`
}

// Pondération du score d'appel.
const (
	callAnsweredPoints  = 20.0
	callSentimentPoints = 30.0
	callDurationCap     = 20.0
	callActionsCap      = 15.0
	callTopicsCap       = 15.0
)

// ScoreCall calcule le score de jeu d'un appel à partir de ses signaux
// d'analyse. Un appel sans réponse ne marque que sur la composante
// answered (zéro).
func ScoreCall(call *CallRecord) CallScore {
	var score CallScore

	if call.Answered {
		score.Answered = callAnsweredPoints
	}

	totalSegments := call.PositiveSegments + call.NegativeSegments
	if totalSegments > 0 {
		ratio := float64(call.PositiveSegments) / float64(totalSegments)
		score.Sentiment = ratio * callSentimentPoints
	}

	minutes := float64(call.Duration) / 60.0
	score.Duration = math.Min(callDurationCap, minutes*0.5)
	score.Actions = math.Min(callActionsCap, float64(call.ActionItems)*5.0)
	score.Topics = math.Min(callTopicsCap, float64(call.TopicsCovered)*3.0)

	total := score.Answered + score.Sentiment + score.Duration + score.Actions + score.Topics
	score.Total = int(math.Round(total))
	if score.Total > 100 {
		score.Total = 100
	}
	return score
}

// CallXP convertit un score d'appel en XP : le score sur 100 pondéré
// par le type d'appel et le multiplicateur du joueur.
func CallXP(score CallScore, callType CallType, playerMultiplier float64) int64 {
	xp := float64(score.Total) * CallTypeMultiplier(callType) * playerMultiplier
	return int64(math.Floor(xp))
}
