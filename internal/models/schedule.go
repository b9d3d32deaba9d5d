package models

// ScheduleRow is a single event definition read from the schedule spreadsheet.
// Values are kept exactly as they appear in the file.
type ScheduleRow struct {
	Line        int    `csv:"-"` // 1-based line number in the source file
	Calendar    string `csv:"Calendar"`
	EventName   string `csv:"Event Name"`
	Description string `csv:"Description"`
	Location    string `csv:"Location"`
	StartDate   string `csv:"Start Date"`
	StartTime   string `csv:"Start Time"`
	EndTime     string `csv:"End Time"`
	EndDate     string `csv:"End Date"`
	Sun         string `csv:"Sun"`
	Mon         string `csv:"Mon"`
	Tue         string `csv:"Tue"`
	Wed         string `csv:"Wed"`
	Thu         string `csv:"Thu"`
	Fri         string `csv:"Fri"`
	Sat         string `csv:"Sat"`
}

// DayFlags returns the weekday columns in Sunday..Saturday order.
func (r ScheduleRow) DayFlags() [7]string {
	return [7]string{r.Sun, r.Mon, r.Tue, r.Wed, r.Thu, r.Fri, r.Sat}
}
