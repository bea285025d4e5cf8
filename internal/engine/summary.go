package engine

import "fmt"

func summary(displayed, matched, total int) string {
	switch {
	case total == 0:
		return "No hackathons loaded"
	case matched == 0:
		return fmt.Sprintf("No hackathons match (%d total)", total)
	case matched == total:
		return fmt.Sprintf("Showing %d of %d hackathons", displayed, matched)
	default:
		return fmt.Sprintf("Showing %d of %d matching hackathons (%d total)", displayed, matched, total)
	}
}
