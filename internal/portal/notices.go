package portal

// Notice is one announcement on the home page.
type Notice struct {
	Title   string
	Date    string
	Excerpt string
}

// NoticeCategory is one tab of the notice board.
type NoticeCategory struct {
	ID      string
	Label   string
	Icon    string
	Notices []Notice
}

// DefaultNoticeTab is shown when no tab is selected.
const DefaultNoticeTab = "general"

var noticeBoard = []NoticeCategory{
	{ID: "general", Label: "General Notices", Icon: "bell", Notices: []Notice{
		{"Campus Maintenance Schedule", "Jan 3, 2026", "Scheduled maintenance will occur this weekend..."},
		{"New Library Hours", "Jan 2, 2026", "Library operating hours have been updated for the new semester..."},
	}},
	{ID: "assessment", Label: "Assessment Notices", Icon: "file-check", Notices: []Notice{
		{"Assignment Submission Deadline Extended", "Jan 3, 2026", "The deadline for Module BM101 has been extended..."},
		{"Exam Timetable Released", "Jan 1, 2026", "The examination timetable for June 2026 is now available..."},
	}},
	{ID: "orientation", Label: "Online Orientation", Icon: "users", Notices: []Notice{
		{"Welcome Session - July 2026 Intake", "Jan 2, 2026", "Join our online orientation session for new students..."},
	}},
	{ID: "library", Label: "Library Notices", Icon: "book-open", Notices: []Notice{
		{"New E-Resources Available", "Dec 30, 2025", "Access new academic journals and databases..."},
	}},
	{ID: "onsite", Label: "On-site Orientation", Icon: "map-pin", Notices: []Notice{
		{"Campus Tour Schedule", "Dec 28, 2025", "Sign up for guided campus tours available weekly..."},
	}},
}

// NoticeCategories returns the notice board tabs in display order.
func NoticeCategories() []NoticeCategory {
	return noticeBoard
}

// NoticesFor returns the category whose ID equals tab exactly. Unknown tabs fall
// back to DefaultNoticeTab.
func NoticesFor(tab string) NoticeCategory {
	for _, c := range noticeBoard {
		if c.ID == tab {
			return c
		}
	}
	return noticeBoard[0]
}
