package services

import "ydadvisory/internal/models"

// ContactTransitions lists the allowed moves of an enquiry through the inbox.
var ContactTransitions = map[models.ContactStatus]map[models.ContactStatus]bool{
	models.ContactNew:      {models.ContactRead: true, models.ContactReplied: true, models.ContactArchived: true},
	models.ContactRead:     {models.ContactReplied: true, models.ContactArchived: true},
	models.ContactReplied:  {models.ContactArchived: true},
	models.ContactArchived: {},
}

func canTransition[S comparable](current, to S, table map[S]map[S]bool) bool {
	var zero S
	if current == zero {
		// rows written before status existed may start anywhere
		return true
	}
	nexts, ok := table[current]
	if !ok {
		return false
	}
	return nexts[to]
}
