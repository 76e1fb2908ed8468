package appointments

import "time"

// FeeFreeCancellation reports whether cancelling at now stays outside the
// notice window and so incurs no late fee. The fee is advisory: it informs
// confirmation messaging and reporting, it never changes the lesson price.
func FeeFreeCancellation(start, now time.Time, noticeHours int) bool {
	return start.Sub(now) >= time.Duration(noticeHours)*time.Hour
}
