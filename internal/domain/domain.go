package domain

// AllModels lists every table in migration order.
func AllModels() []any {
	return []any{
		&Vendor{},
		&College{},
		&User{},
		&Trainer{},
		&Requirement{},
		&Match{},
		&Proposal{},
		&Session{},
		&Document{},
		&Contact{},
		&NotificationJob{},
	}
}
