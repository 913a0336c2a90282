package model

// ActionType identifies a category of point-earning user activity.
type ActionType string

const (
	ActionWatchAd  ActionType = "watch_ad"
	ActionReadNews ActionType = "read_news"
	ActionTrivia   ActionType = "trivia"
	ActionGame     ActionType = "game"
	ActionOffer    ActionType = "offer"
	ActionSurvey   ActionType = "survey"
	ActionReferral ActionType = "referral"
)

// ActionTypes lists every known action in a stable order.
var ActionTypes = []ActionType{
	ActionWatchAd,
	ActionReadNews,
	ActionTrivia,
	ActionGame,
	ActionOffer,
	ActionSurvey,
	ActionReferral,
}

// Known reports whether the action type is one of the supported categories.
func (a ActionType) Known() bool {
	for _, t := range ActionTypes {
		if a == t {
			return true
		}
	}
	return false
}
