package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Session{},
		&Case{},
		&Document{},
		&Communication{},
		&TimelineEvent{},
		&DemandLetter{},
		&CourtFiling{},
		&Negotiation{},
		&LawyerReview{},
		&Notification{},
		&AIInteractionLog{},
	}
}
