package config

// windowsZones maps Exchange/Windows timezone names to IANA zones.
var windowsZones = map[string]string{
	"UTC":                          "UTC",
	"GMT Standard Time":            "Europe/London",
	"W. Europe Standard Time":      "Europe/Berlin",
	"Romance Standard Time":        "Europe/Paris",
	"Central Europe Standard Time": "Europe/Budapest",
	"E. Europe Standard Time":      "Europe/Chisinau",
	"Hawaii Standard Time":         "Pacific/Honolulu",
	"Alaskan Standard Time":        "America/Anchorage",
	"Alaskan Daylight Time":        "America/Anchorage",
	"SA Pacific Standard Time":     "America/Bogota",
	"Pacific Standard Time":        "America/Los_Angeles",
	"Pacific Daylight Time":        "America/Los_Angeles",
	"Mountain Standard Time":       "America/Denver",
	"Mountain Daylight Time":       "America/Denver",
	"US Mountain Standard Time":    "America/Phoenix",
	"Central Standard Time":        "America/Chicago",
	"Central Daylight Time":        "America/Chicago",
	"Eastern Standard Time":        "America/New_York",
	"Eastern Daylight Time":        "America/New_York",
	"Atlantic Standard Time":       "America/Halifax",
	"Tokyo Standard Time":          "Asia/Tokyo",
	"China Standard Time":          "Asia/Shanghai",
	"India Standard Time":          "Asia/Kolkata",
	"AUS Eastern Standard Time":    "Australia/Sydney",
}
