package models

// Doctor is a practitioner patients book appointments with.
type Doctor struct {
	BaseModel
	Name             string  `gorm:"size:100;not null" json:"name"`
	Email            string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password         string  `gorm:"size:255;not null" json:"-"`
	SpecializationID *string `gorm:"size:36;index" json:"specializationId,omitempty"`

	Specialization *Specialization `gorm:"foreignKey:SpecializationID" json:"-"`
}

// Specialization is a medical specialty such as Cardiology.
type Specialization struct {
	BaseModel
	Name string `gorm:"size:100;not null" json:"name"`
}
