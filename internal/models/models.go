package models

// All lists every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Profile{},
		&Student{},
		&Administrator{},
		&UserRole{},
		&Department{},
		&Company{},
		&Complaint{},
		&AuditLog{},
		&Feedback{},
	}
}
