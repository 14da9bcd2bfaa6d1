// Command workday-ics exports the class schedule on a saved ISU Workday
// enrollment page to an iCalendar file.
package main

import (
	"github.com/joho/godotenv"
	"github.com/pfrederiksen/workday-ics/internal/cli"
)

func main() {
	// A missing .env is fine; WORKDAY_ICS_* may come from the environment.
	_ = godotenv.Load()

	cli.Execute()
}
