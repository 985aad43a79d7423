package census

import "time"

// Classify returns the commission of an affiliate born on birthday for the
// census of year generated at generatedAt. Age is taken on March 1st of the
// cutoff year, which moves to the next year once March is over.
func Classify(birthday time.Time, year int, generatedAt time.Time) string {
	cutoffYear := year
	if generatedAt.Month() > time.March {
		cutoffYear++
	}
	if AgeOn(birthday, time.Date(cutoffYear, time.March, 1, 0, 0, 0, 0, time.UTC)) < adultAge {
		return CommissionMinor
	}
	return CommissionMajor
}

// AgeOn returns the completed years between birthday and day.
func AgeOn(birthday, day time.Time) int {
	age := day.Year() - birthday.Year()
	if day.Month() < birthday.Month() || (day.Month() == birthday.Month() && day.Day() < birthday.Day()) {
		age--
	}
	return age
}
