package form

// Closed option sets offered by the wizard.

const (
	ScheduleFullTime = "full-time"
	SchedulePartTime = "part-time"
	ScheduleFlexible = "flexible"

	ClassPrivate = "private"
	ClassGroup   = "group"

	DefaultMaxStudents = 10
)

var (
	Genders = []string{"male", "female", "other"}

	Schedules = []string{ScheduleFullTime, SchedulePartTime, ScheduleFlexible}

	ClassTypes = []string{ClassPrivate, ClassGroup}

	Weekdays = []string{
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	}

	Subjects = []string{
		"Mathematics", "English", "Science", "History", "Geography", "Art",
		"Music", "Physical Education", "Computer Science", "Foreign Languages",
		"Vocal Training", "Piano", "Guitar", "Violin", "Biology", "Chemistry",
		"Physics",
	}

	Levels = []string{
		"Elementary", "Middle School", "High School", "College", "Graduate", "All Levels",
	}

	Degrees = []string{
		"High School Diploma", "Associate Degree", "Bachelor's Degree",
		"Master's Degree", "Doctoral Degree", "Professional Certificate",
		"Teaching Certificate",
	}

	// Timezones are suggestions; any value is accepted.
	Timezones = []string{
		"America/New_York", "America/Chicago", "America/Denver",
		"America/Los_Angeles", "America/Toronto", "Europe/London",
		"Europe/Paris", "Europe/Berlin", "Asia/Tokyo", "Australia/Sydney",
	}

	TeachingMethods = []string{
		"In-Person", "Online", "Hybrid", "One-on-One", "Group Classes",
		"Workshop Style", "Project-Based", "Interactive Learning",
	}

	Countries = []string{
		"United States", "Canada", "United Kingdom", "Australia", "Germany",
		"France", "Spain", "Italy", "Netherlands", "Sweden",
	}

	Relationships = []string{
		"Parent", "Spouse", "Sibling", "Child", "Relative", "Friend", "Partner", "Other",
	}
)

// Contains reports whether value is one of options.
func Contains(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
