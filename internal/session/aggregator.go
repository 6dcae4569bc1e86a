// internal/session/aggregator.go

// Package session implements the per-group answer aggregation contract as
// an explicit finite-state machine: the aggregator collects one answer per
// person and produces the combined recommendation request exactly once,
// when the final person's answer arrives.
package session

import (
	"errors"
	"strings"

	"movienight-backend/internal/models"
)

type State int

const (
	// StateCollecting means the aggregator is waiting for the current
	// person's answer.
	StateCollecting State = iota
	// StateSubmitted means the combined request has been produced; the
	// aggregator accepts no further answers.
	StateSubmitted
)

var (
	ErrAlreadySubmitted = errors.New("session already submitted")
	ErrIncompleteAnswer = errors.New("all four answer fields are required")
)

// Answer is one person's questionnaire input, before it is tagged with a
// sequence number.
type Answer struct {
	FavoriteMovie string
	NewOrClassic  string
	Mood          string
	IslandPerson  string
}

func (a Answer) complete() bool {
	return strings.TrimSpace(a.FavoriteMovie) != "" &&
		strings.TrimSpace(a.NewOrClassic) != "" &&
		strings.TrimSpace(a.Mood) != "" &&
		strings.TrimSpace(a.IslandPerson) != ""
}

// Aggregator walks a group through sequential question steps, one person at
// a time, and assembles the combined request.
type Aggregator struct {
	numberOfPeople int
	duration       int
	currentPerson  int
	answers        []models.PersonAnswer
	state          State
}

// NewAggregator creates a session for the given group size and available
// viewing duration in minutes. A group size below 1 is treated as 1, so the
// very first answer is also the last.
func NewAggregator(numberOfPeople, duration int) *Aggregator {
	if numberOfPeople < 1 {
		numberOfPeople = 1
	}
	return &Aggregator{
		numberOfPeople: numberOfPeople,
		duration:       duration,
		currentPerson:  1,
		state:          StateCollecting,
	}
}

// Advance records the current person's answer. On every advance but the
// last it returns (nil, nil) and moves on to the next person. On the final
// advance it transitions to StateSubmitted and returns the combined
// request, including the just-added answer, exactly once.
func (a *Aggregator) Advance(answer Answer) (*models.RecommendationRequest, error) {
	if a.state == StateSubmitted {
		return nil, ErrAlreadySubmitted
	}
	if !answer.complete() {
		return nil, ErrIncompleteAnswer
	}

	a.answers = append(a.answers, models.PersonAnswer{
		Person:        a.currentPerson,
		FavoriteMovie: answer.FavoriteMovie,
		NewOrClassic:  answer.NewOrClassic,
		Mood:          answer.Mood,
		IslandPerson:  answer.IslandPerson,
	})

	if a.currentPerson < a.numberOfPeople {
		a.currentPerson++
		return nil, nil
	}

	a.state = StateSubmitted
	return &models.RecommendationRequest{
		NumberOfPeople: models.FlexInt(a.numberOfPeople),
		Duration:       models.FlexInt(a.duration),
		AllAnswers:     a.answers,
	}, nil
}

// State reports whether the session is still collecting or has submitted.
func (a *Aggregator) State() State {
	return a.state
}

// CurrentPerson is the 1-based index of the person whose answer is expected
// next. Meaningless once the session is submitted.
func (a *Aggregator) CurrentPerson() int {
	return a.currentPerson
}
