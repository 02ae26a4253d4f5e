package model

import "fmt"

// Estado de una orden. Se guarda como string plano en Mongo.
type Status string

const (
	StatusPending          Status = "pending"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
	StatusCuttingCompleted Status = "Cutting Completed"
	StatusSewingStarted    Status = "Sewing Started"
	StatusFinishing        Status = "Finishing"
	StatusQCChecked        Status = "QC Checked"
	StatusPacked           Status = "packed"
	StatusShipped          Status = "shipped"
	StatusCompleted        Status = "completed"
	StatusCancelled        Status = "cancelled"
)

var knownStatuses = map[Status]bool{
	StatusPending:          true,
	StatusApproved:         true,
	StatusRejected:         true,
	StatusCuttingCompleted: true,
	StatusSewingStarted:    true,
	StatusFinishing:        true,
	StatusQCChecked:        true,
	StatusPacked:           true,
	StatusShipped:          true,
	StatusCompleted:        true,
	StatusCancelled:        true,
}

// Estados finales
var finalStates = map[Status]bool{
	StatusRejected:  true,
	StatusCancelled: true,
	StatusCompleted: true,
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !knownStatuses[st] {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

func (s Status) Known() bool {
	return knownStatuses[s]
}

func (s Status) Final() bool {
	return finalStates[s]
}

func (s Status) String() string {
	return string(s)
}

// CanTransition indica si una orden puede pasar de un estado a otro.
// La cadena de producción sale de la tabla de flujo; pending, rechazo,
// cancelación y completed quedan fuera de ella.
func CanTransition(from, to Status) bool {
	if !from.Known() || !to.Known() || from.Final() {
		return false
	}

	switch to {
	case StatusRejected, StatusCancelled:
		return from != StatusShipped
	case StatusApproved:
		return from == StatusPending
	case StatusCompleted:
		return from == StatusShipped
	}

	stage, ok := LookupStage(from)
	return ok && stage.Next == to
}

// NextStatuses devuelve los estados alcanzables desde el estado dado.
func NextStatuses(from Status) []Status {
	var out []Status
	for _, to := range allStatuses {
		if CanTransition(from, to) {
			out = append(out, to)
		}
	}
	return out
}

var allStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusCuttingCompleted,
	StatusSewingStarted,
	StatusFinishing,
	StatusQCChecked,
	StatusPacked,
	StatusShipped,
	StatusCompleted,
	StatusRejected,
	StatusCancelled,
}
