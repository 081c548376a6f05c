package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

// The sixteen complaint categories. Values are stored and compared verbatim.
const (
	CategoryInfrastructure Category = "Infrastructure"
	CategoryAcademics      Category = "Academics"
	CategoryHostel         Category = "Hostel"
	CategoryLibrary        Category = "Library"
	CategoryCafeteria      Category = "Cafeteria"
	CategorySports         Category = "Sports & Recreation"
	CategoryTransportation Category = "Transportation"
	CategorySecurity       Category = "Security"
	CategoryFees           Category = "Fees & Finance"
	CategoryLaboratory     Category = "Laboratory"
	CategoryWiFi           Category = "WiFi & Internet"
	CategoryCleanliness    Category = "Cleanliness"
	CategoryFaculty        Category = "Faculty & Staff"
	CategoryAdministration Category = "Administration"
	CategoryExams          Category = "Exam & Evaluation"
	CategoryOthers         Category = "Others"
)

var Categories = []Category{
	CategoryInfrastructure, CategoryAcademics, CategoryHostel, CategoryLibrary,
	CategoryCafeteria, CategorySports, CategoryTransportation, CategorySecurity,
	CategoryFees, CategoryLaboratory, CategoryWiFi, CategoryCleanliness,
	CategoryFaculty, CategoryAdministration, CategoryExams, CategoryOthers,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
	StatusWithdrawn  Status = "withdrawn"
)

var Statuses = []Status{StatusPending, StatusInProgress, StatusResolved, StatusRejected, StatusWithdrawn}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var Priorities = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

// Complaint is a single filed complaint. Attachments are kept in their own table and
// are only ever appended to.
type Complaint struct {
	// ID is a UUID assigned on creation.
	ID          string   `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string   `gorm:"type:text;not null" json:"title"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Category    Category `gorm:"type:text;not null;index" json:"category"`
	// SubmitterID references the user who filed the complaint. Never changes.
	SubmitterID string   `gorm:"type:uuid;not null;index" json:"submitterId"`
	Status      Status   `gorm:"type:text;not null;default:pending;index" json:"status"`
	Priority    Priority `gorm:"type:text;not null;default:medium" json:"priority"`

	Attachments []Attachment `gorm:"foreignKey:ComplaintID;constraint:OnDelete:CASCADE" json:"attachments"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate generates the complaint UUID when it has not been set.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// Attachment is a stored file reference. Position in Complaint.Attachments follows ID order.
type Attachment struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	ComplaintID  string `gorm:"type:uuid;not null;index" json:"-"`
	StoredName   string `gorm:"type:text;not null;uniqueIndex" json:"storedName"`
	OriginalName string `gorm:"type:text;not null" json:"originalName"`
}
