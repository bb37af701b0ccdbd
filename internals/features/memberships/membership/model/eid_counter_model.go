package model

// EIDCounterModel is the per-(year, role-prefix) sequence source for E-IDs.
// The allocator locks this row (SELECT ... FOR UPDATE) inside the activation
// transaction, which removes the read-max-then-write race of the legacy
// scheme; the unique index on memberships.eid is the backstop.
type EIDCounterModel struct {
	Year       int    `gorm:"primaryKey" json:"year"`
	RolePrefix string `gorm:"size:3;primaryKey" json:"role_prefix"`
	LastSeq    int    `gorm:"not null;default:0" json:"last_seq"`
}

func (EIDCounterModel) TableName() string {
	return "eid_counters"
}
