package entity

import "time"

// DoctorListing mirrors one raw source record in Postgres. Payload keeps the
// record exactly as the remote source delivered it.
type DoctorListing struct {
	ID        string    `gorm:"type:varchar(100);primaryKey"`
	Payload   []byte    `gorm:"type:jsonb;not null"`
	Position  int       `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (DoctorListing) TableName() string {
	return "doctor_listings"
}
