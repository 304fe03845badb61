// Package gamestate is the round state machine shared by the moderator
// console, the beamer and team devices.
package gamestate

import (
	"fmt"
	"strings"
)

// State is the screen a room is showing.
type State string

const (
	Lobby           State = "LOBBY"
	Intro           State = "INTRO"
	QuestionIntro   State = "QUESTION_INTRO"
	QuestionActive  State = "Q_ACTIVE"
	QuestionLocked  State = "Q_LOCKED"
	QuestionReveal  State = "Q_REVEAL"
	Scoreboard      State = "SCOREBOARD"
	Blitz           State = "BLITZ"
	ScoreboardPause State = "SCOREBOARD_PAUSE"
	Potato          State = "POTATO"
	Awards          State = "AWARDS"
)

// Initial is the state of a new or restarted session.
const Initial = Lobby

var states = []State{
	Lobby, Intro, QuestionIntro, QuestionActive, QuestionLocked, QuestionReveal,
	Scoreboard, Blitz, ScoreboardPause, Potato, Awards,
}

// ActionType enumerates what can drive a transition.
type ActionType string

const (
	StartSession ActionType = "START_SESSION"
	HostNext     ActionType = "HOST_NEXT"
	HostLock     ActionType = "HOST_LOCK"
	HostReveal   ActionType = "HOST_REVEAL"
	Force        ActionType = "FORCE"
)

// Action is a transition request. Next is only read for Force.
type Action struct {
	Type ActionType `json:"type"`
	Next State      `json:"next,omitempty"`
}

func ForceTo(next State) Action {
	return Action{Type: Force, Next: next}
}

type key struct {
	from   State
	action ActionType
}

var transitions = map[key]State{
	{Lobby, HostNext}:            Intro,
	{Intro, HostNext}:            QuestionIntro,
	{QuestionIntro, HostNext}:    QuestionActive,
	{QuestionActive, HostLock}:   QuestionLocked,
	{QuestionActive, HostReveal}: QuestionReveal,
	{QuestionLocked, HostReveal}: QuestionReveal,
	{QuestionReveal, HostNext}:   Scoreboard,
	{Scoreboard, HostNext}:       QuestionIntro,
	{Blitz, HostNext}:            ScoreboardPause,
	{ScoreboardPause, HostNext}:  Potato,
	{Potato, HostNext}:           Awards,
}

// CanApply reports whether action is legal in state without changing anything.
func CanApply(state State, action Action) bool {
	switch action.Type {
	case StartSession:
		return true
	case Force:
		return Valid(action.Next)
	}
	_, ok := transitions[key{state, action.Type}]
	return ok
}

// Apply returns the state after action. Illegal actions leave state unchanged.
func Apply(state State, action Action) State {
	switch action.Type {
	case StartSession:
		return Initial
	case Force:
		if Valid(action.Next) {
			return action.Next
		}
		return state
	}
	if next, ok := transitions[key{state, action.Type}]; ok {
		return next
	}
	return state
}

// IsQuestionOpen reports whether teams may submit answers.
func IsQuestionOpen(state State) bool {
	return state == QuestionActive
}

// IsRevealShowing reports whether the solution is on screen.
func IsRevealShowing(state State) bool {
	return state == QuestionReveal
}

// Valid reports whether s is a known state.
func Valid(s State) bool {
	for _, known := range states {
		if s == known {
			return true
		}
	}
	return false
}

// ParseState parses a state name case-insensitively.
func ParseState(raw string) (State, error) {
	s := State(strings.ToUpper(strings.TrimSpace(raw)))
	if !Valid(s) {
		return "", fmt.Errorf("unknown state %q", raw)
	}
	return s, nil
}

// ParseAction builds an action from its wire name and optional force target.
func ParseAction(raw, next string) (Action, error) {
	switch t := ActionType(strings.ToUpper(strings.TrimSpace(raw))); t {
	case StartSession, HostNext, HostLock, HostReveal:
		return Action{Type: t}, nil
	case Force:
		target, err := ParseState(next)
		if err != nil {
			return Action{}, err
		}
		return ForceTo(target), nil
	}
	return Action{}, fmt.Errorf("unknown action %q", raw)
}
