package statemachine

import (
	"fmt"
	"strings"

	"digital-menu-api/models"
)

const (
	ActorSystem = "system"
	ActorOwner  = "owner"
)

// Transition defines a valid job state change and who can perform it
type Transition struct {
	From  models.JobStatus `json:"from"`
	To    models.JobStatus `json:"to"`
	Actor string           `json:"actor"`
}

var validTransitions = []Transition{
	// dispatcher picks the job up
	{From: models.JobPending, To: models.JobRunning, Actor: ActorSystem},
	// every pair succeeded, or at least one failed
	{From: models.JobRunning, To: models.JobCompleted, Actor: ActorSystem},
	{From: models.JobRunning, To: models.JobPartial, Actor: ActorSystem},
	// context canceled or owner request
	{From: models.JobRunning, To: models.JobCanceled, Actor: ActorSystem},
	{From: models.JobRunning, To: models.JobCanceled, Actor: ActorOwner},
	{From: models.JobPending, To: models.JobCanceled, Actor: ActorSystem},
	{From: models.JobPending, To: models.JobCanceled, Actor: ActorOwner},
}

type transitionKey struct {
	From  models.JobStatus
	To    models.JobStatus
	Actor string
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.JobStatus) []models.JobStatus {
	var nexts []models.JobStatus
	seen := map[models.JobStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status models.JobStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// CanTransition checks if a given actor can move a job from one state to another
func CanTransition(from, to models.JobStatus, actor string) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("invalid transition: %s -> %s is not allowed for actor '%s'. Valid transitions from %s are: %s",
		from, to, actor, from, describeValidFrom(from))
}

func describeValidFrom(status models.JobStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(nexts))
	for i, s := range nexts {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// FinalStatus picks the terminal status of a finished run.
func FinalStatus(failed int, canceled bool) models.JobStatus {
	switch {
	case canceled:
		return models.JobCanceled
	case failed > 0:
		return models.JobPartial
	default:
		return models.JobCompleted
	}
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
