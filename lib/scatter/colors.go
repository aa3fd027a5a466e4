package scatter

const (
	DayColor   = "rgb(255, 155, 50)"
	NightColor = "rgb(50, 120, 255)"

	dayStart = 6.0
	dayEnd   = 18.0
)

// Color splits commits in day (06:00 to 18:00) and night.
func Color(hourFrac float64) string {
	if hourFrac >= dayStart && hourFrac < dayEnd {
		return DayColor
	}
	return NightColor
}
