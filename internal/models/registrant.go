package models

// RegistrantTableName is shared with the SQL migrations in /migrations.
const RegistrantTableName = "register"

// Registrant is one volunteer sign-up. Every field except ID is nullable
// free text and is stored exactly as received.
type Registrant struct {
	ID            uint    `gorm:"primaryKey;autoIncrement"`
	FirstName     *string `gorm:"column:first_name"`
	LastName      *string `gorm:"column:last_name"`
	PhoneNumber   *string `gorm:"column:phone_number"`
	BloodType     *string `gorm:"column:blood_type"`
	Address       *string `gorm:"column:address"`
	AvailableDays *string `gorm:"column:available_days"`
}

func (Registrant) TableName() string {
	return RegistrantTableName
}
