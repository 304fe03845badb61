package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidReference classifies rejections caused by an unknown room, team, quiz or question.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrIllegalState classifies rejections of actions the room cannot take right now.
	ErrIllegalState = errors.New("illegal state")
	// ErrInvalidInput is returned when a control request is malformed.
	ErrInvalidInput = errors.New("invalid input")
)

var (
	// ErrRoomNotFound is returned when a room has not been created or was reaped.
	ErrRoomNotFound = fmt.Errorf("%w: room not found", ErrInvalidReference)
	// ErrTeamNotFound is returned when a team acts before joining the room.
	ErrTeamNotFound = fmt.Errorf("%w: team not found in room", ErrInvalidReference)
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = fmt.Errorf("%w: quiz not found", ErrInvalidReference)
	// ErrQuestionNotFound indicates a question id is not part of the assigned quiz.
	ErrQuestionNotFound = fmt.Errorf("%w: question not found", ErrInvalidReference)
)

var (
	ErrNoQuizAssigned       = fmt.Errorf("%w: no quiz assigned to room", ErrIllegalState)
	ErrNoQuestionsRemaining = fmt.Errorf("%w: no questions remaining", ErrIllegalState)
	ErrNoOpenQuestion       = fmt.Errorf("%w: no question open for answers", ErrIllegalState)
	ErrNoAnswers            = fmt.Errorf("%w: no answers submitted", ErrIllegalState)
	ErrNotEvaluated         = fmt.Errorf("%w: question not evaluated yet", ErrIllegalState)
	ErrIllegalTransition    = fmt.Errorf("%w: action not allowed on current screen", ErrIllegalState)
)
