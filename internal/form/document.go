package form

// Section names one top-level part of the application document.
// The string value is the JSON key of the section.
type Section string

const (
	SectionPersonal       Section = "personalInfo"
	SectionContact        Section = "contactInfo"
	SectionQualifications Section = "qualifications"
	SectionAvailability   Section = "availability"
	SectionEmergency      Section = "emergencyContact"
)

// Sections lists every section in document order.
var Sections = []Section{
	SectionPersonal,
	SectionContact,
	SectionQualifications,
	SectionAvailability,
	SectionEmergency,
}

// PersonalInfo holds the applicant's basic details.
type PersonalInfo struct {
	FirstName    string `json:"firstName" yaml:"firstName" validate:"required,min=2"`
	LastName     string `json:"lastName" yaml:"lastName" validate:"required,min=2"`
	Email        string `json:"email" yaml:"email" validate:"required,email"`
	Phone        string `json:"phone" yaml:"phone" validate:"required,phone"`
	DateOfBirth  string `json:"dateOfBirth" yaml:"dateOfBirth" validate:"required,adult"`
	Gender       string `json:"gender" yaml:"gender" validate:"required,oneof=male female other"`
	Bio          string `json:"bio" yaml:"bio"`
	ProfileImage string `json:"profileImage" yaml:"profileImage"`
}

// Address is a postal address.
type Address struct {
	Street  string `json:"street" yaml:"street" validate:"required"`
	City    string `json:"city" yaml:"city" validate:"required"`
	State   string `json:"state" yaml:"state" validate:"required"`
	ZipCode string `json:"zipCode" yaml:"zipCode" validate:"required"`
	Country string `json:"country" yaml:"country" validate:"required"`
}

// SocialMedia holds optional profile links.
type SocialMedia struct {
	LinkedIn string `json:"linkedin" yaml:"linkedin"`
	Twitter  string `json:"twitter" yaml:"twitter"`
	Website  string `json:"website" yaml:"website"`
}

// ContactInfo holds secondary contact channels and the postal address.
type ContactInfo struct {
	WorkEmail      string      `json:"workEmail" yaml:"workEmail" validate:"omitempty,email"`
	AlternatePhone string      `json:"alternatePhone" yaml:"alternatePhone" validate:"omitempty,phone"`
	Address        Address     `json:"address" yaml:"address"`
	SocialMedia    SocialMedia `json:"socialMedia" yaml:"socialMedia"`
}

// Qualification is one teaching qualification. ID is assigned on insertion.
type Qualification struct {
	ID             string  `json:"id" yaml:"id"`
	Degree         string  `json:"degree" yaml:"degree"`
	Institution    string  `json:"institution" yaml:"institution"`
	GraduationYear string  `json:"graduationYear" yaml:"graduationYear"`
	Subject        string  `json:"subject" yaml:"subject" validate:"required"`
	Level          string  `json:"level" yaml:"level" validate:"required"`
	Certification  string  `json:"certification" yaml:"certification"`
	Rate           float64 `json:"rate" yaml:"rate" validate:"gt=0"`
	Type           string  `json:"type" yaml:"type" validate:"omitempty,oneof=private group"`
	Experience     int     `json:"experience" yaml:"experience" validate:"gte=0"`
}

// TimeSlot is the availability of one weekday. Times are HH:MM.
type TimeSlot struct {
	Day       string `json:"day" yaml:"day"`
	StartTime string `json:"startTime" yaml:"startTime"`
	EndTime   string `json:"endTime" yaml:"endTime"`
	Available bool   `json:"available" yaml:"available"`
}

// Availability describes when and how the applicant can teach.
type Availability struct {
	PreferredSchedule   string     `json:"preferredSchedule" yaml:"preferredSchedule" validate:"oneof=full-time part-time flexible"`
	TimeSlots           []TimeSlot `json:"timeSlots" yaml:"timeSlots" validate:"len=7"`
	Timezone            string     `json:"timezone" yaml:"timezone" validate:"required"`
	MaxStudentsPerClass int        `json:"maxStudentsPerClass" yaml:"maxStudentsPerClass" validate:"gt=0"`
	TeachingMethods     []string   `json:"teachingMethods" yaml:"teachingMethods"`
}

// EmergencyContact is the person to reach in an emergency.
type EmergencyContact struct {
	Name         string `json:"name" yaml:"name" validate:"required"`
	Relationship string `json:"relationship" yaml:"relationship" validate:"required"`
	Phone        string `json:"phone" yaml:"phone" validate:"required,phone"`
	Email        string `json:"email" yaml:"email" validate:"required,email"`
	Address      string `json:"address" yaml:"address" validate:"required"`
}

// Document is the whole teacher application.
type Document struct {
	PersonalInfo     PersonalInfo     `json:"personalInfo" yaml:"personalInfo"`
	ContactInfo      ContactInfo      `json:"contactInfo" yaml:"contactInfo"`
	Qualifications   []Qualification  `json:"qualifications" yaml:"qualifications" validate:"dive"`
	Availability     Availability     `json:"availability" yaml:"availability"`
	EmergencyContact EmergencyContact `json:"emergencyContact" yaml:"emergencyContact"`
}

// New returns an empty document with availability defaults applied.
func New() *Document {
	slots := make([]TimeSlot, len(Weekdays))
	for i, day := range Weekdays {
		slots[i] = TimeSlot{Day: day}
	}
	return &Document{
		Qualifications: []Qualification{},
		Availability: Availability{
			PreferredSchedule:   ScheduleFullTime,
			TimeSlots:           slots,
			MaxStudentsPerClass: DefaultMaxStudents,
			TeachingMethods:     []string{},
		},
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := *d
	c.Qualifications = append([]Qualification(nil), d.Qualifications...)
	c.Availability.TimeSlots = append([]TimeSlot(nil), d.Availability.TimeSlots...)
	c.Availability.TeachingMethods = append([]string(nil), d.Availability.TeachingMethods...)
	if c.Qualifications == nil {
		c.Qualifications = []Qualification{}
	}
	if c.Availability.TeachingMethods == nil {
		c.Availability.TeachingMethods = []string{}
	}
	return &c
}

// FullName joins first and last name.
func (d *Document) FullName() string {
	switch {
	case d.PersonalInfo.FirstName == "":
		return d.PersonalInfo.LastName
	case d.PersonalInfo.LastName == "":
		return d.PersonalInfo.FirstName
	}
	return d.PersonalInfo.FirstName + " " + d.PersonalInfo.LastName
}

// Slot returns the time slot for day, or nil when day is not a weekday.
func (d *Document) Slot(day string) *TimeSlot {
	for i := range d.Availability.TimeSlots {
		if d.Availability.TimeSlots[i].Day == day {
			return &d.Availability.TimeSlots[i]
		}
	}
	return nil
}

// HasTeachingMethod reports whether method is selected.
func (d *Document) HasTeachingMethod(method string) bool {
	for _, m := range d.Availability.TeachingMethods {
		if m == method {
			return true
		}
	}
	return false
}
