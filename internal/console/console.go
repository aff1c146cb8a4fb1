// Package console is the interactive, line oriented front end for reporting
// and searching disasters from a terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mr1hm/go-disaster-reports/internal/geo"
	"github.com/mr1hm/go-disaster-reports/internal/models"
	"github.com/mr1hm/go-disaster-reports/internal/query"
	"github.com/mr1hm/go-disaster-reports/internal/store"
)

const separator = "----------------------------"

type Submitter interface {
	Submit(ctx context.Context, sub models.Submission) (models.Report, error)
}

type Console struct {
	in        *bufio.Scanner
	out       io.Writer
	store     *store.ReportStore
	submitter Submitter

	// WholeEndDay makes period searches include the entire end date.
	WholeEndDay bool
}

func New(in io.Reader, out io.Writer, st *store.ReportStore, submitter Submitter) *Console {
	return &Console{
		in:        bufio.NewScanner(in),
		out:       out,
		store:     st,
		submitter: submitter,
	}
}

// Run shows the menu until the user exits, the input ends or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.menu()
		line, ok := c.readLine()
		if !ok {
			c.printf("\n")
			return c.in.Err()
		}

		switch strings.TrimSpace(line) {
		case "1":
			c.submit(ctx)
		case "2":
			c.listAll()
		case "3":
			c.byType()
		case "4":
			c.byPeriod()
		case "5":
			c.byLocation()
		case "6":
			c.printf("Exiting...\n")
			return nil
		default:
			c.printf("Invalid option!\n")
		}
	}
}

func (c *Console) menu() {
	c.printf("\n=== Natural Disaster Reports ===\n")
	c.printf("1. Submit a new report\n")
	c.printf("2. List all reports\n")
	c.printf("3. Search reports by type\n")
	c.printf("4. Search reports by period\n")
	c.printf("5. Search reports by location\n")
	c.printf("6. Exit\n")
	c.printf("Choose an option: ")
}

func (c *Console) submit(ctx context.Context) {
	if c.store.Count() >= c.store.Capacity() {
		c.printf("Report limit reached!\n")
		return
	}

	var (
		sub models.Submission
		ok  bool
	)
	c.printf("\n=== Reporter ===\n")
	if sub.FullName, ok = c.prompt("Full name: "); !ok {
		return
	}
	if sub.Document, ok = c.prompt("Document (CPF/RG): "); !ok {
		return
	}
	if sub.Email, ok = c.prompt("E-mail: "); !ok {
		return
	}
	if sub.Phone, ok = c.prompt("Phone: "); !ok {
		return
	}
	if sub.ReporterLocation, ok = c.promptCoordinate("Reporter location (latitude longitude): "); !ok {
		return
	}

	c.printf("\n=== Report ===\n")
	if sub.Type, ok = c.prompt("Disaster type (flood, fire, landslide, earthquake, tsunami, other): "); !ok {
		return
	}
	if sub.Description, ok = c.prompt("Description: "); !ok {
		return
	}
	if sub.Location, ok = c.promptCoordinate("Disaster location (latitude longitude): "); !ok {
		return
	}

	_, err := c.submitter.Submit(ctx, sub)
	var radiusErr *store.OutOfRadiusError
	switch {
	case err == nil:
		c.printf("Report registered successfully!\n")
	case errors.As(err, &radiusErr):
		c.printf("Error: the report location is %.2f km from the central point, outside the %.0f km radius.\n",
			radiusErr.DistanceKm, radiusErr.MaxKm)
	case errors.Is(err, store.ErrCapacityExceeded):
		c.printf("Report limit reached!\n")
	default:
		c.printf("Error: %v\n", err)
	}
}

func (c *Console) listAll() {
	reports := c.store.All()
	c.printf("\n=== Registered Reports ===\n")
	c.printf("Total: %d\n\n", len(reports))

	for i, r := range reports {
		c.printf("Report #%d\n", i+1)
		c.printf("Type: %s\n", r.Type)
		c.printf("Date/Time: %s\n", r.DisplayTime())
		c.printf("Location: %s\n", r.Location)
		c.printf("Description: %s\n", r.Description)
		c.printf("Reporter: %s (%s)\n", r.Reporter.FullName, r.Reporter.Document)
		c.printf("Contact: %s, %s\n", r.Reporter.Email, r.Reporter.Phone)
		c.printf("%s\n", separator)
	}
}

func (c *Console) byType() {
	text, ok := c.prompt("Disaster type to search: ")
	if !ok {
		return
	}
	t := models.ParseDisasterType(text)

	all := c.store.All()
	matches := query.ByType(all, t)
	c.printf("\n=== %s Reports ===\n", t)
	c.printMatches(all, wrap(matches), false, false, "No reports found for this type.")
}

func (c *Console) byPeriod() {
	start, ok := c.prompt("Start date (DD/MM/YYYY): ")
	if !ok {
		return
	}
	if _, err := query.ParseDate(start); err != nil {
		c.printf("Invalid date format!\n")
		return
	}
	end, ok := c.prompt("End date (DD/MM/YYYY): ")
	if !ok {
		return
	}

	r, err := query.ParseDateRange(start, end, c.WholeEndDay)
	if err != nil {
		c.printf("Invalid date format!\n")
		return
	}

	all := c.store.All()
	matches := query.ByTimeRange(all, r.Start, r.End)
	c.printf("\n=== Reports between %s and %s ===\n", r.Start.Format(models.DateLayout), r.End.Format(models.DateLayout))
	c.printMatches(all, wrap(matches), true, false, "No reports found in this period.")
}

func (c *Console) byLocation() {
	ref, ok := c.promptCoordinate("Reference location (latitude longitude): ")
	if !ok {
		return
	}
	text, ok := c.prompt("Maximum distance in km: ")
	if !ok {
		return
	}
	maxKm, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || !(maxKm >= 0) {
		c.printf("Invalid distance!\n")
		return
	}

	all := c.store.All()
	matches := query.ByProximity(all, ref, maxKm)
	c.printf("\n=== Reports near %s (%.1f km) ===\n", ref, maxKm)
	c.printMatches(all, matches, true, true, "No reports found in this area.")
}

// printMatches numbers each match by its position in the store.
func (c *Console) printMatches(all []models.Report, matches []query.Match, withType, withDistance bool, empty string) {
	position := make(map[string]int, len(all))
	for i, r := range all {
		position[r.ID] = i + 1
	}

	for _, m := range matches {
		r := m.Report
		if withDistance {
			c.printf("Report #%d (%.1f km)\n", position[r.ID], m.DistanceKm)
		} else {
			c.printf("Report #%d\n", position[r.ID])
		}
		if withType {
			c.printf("Type: %s\n", r.Type)
		}
		c.printf("Date/Time: %s\n", r.DisplayTime())
		c.printf("Location: %s\n", r.Location)
		c.printf("Description: %s\n", r.Description)
		c.printf("Reporter: %s\n", r.Reporter.FullName)
		c.printf("%s\n", separator)
	}

	if len(matches) == 0 {
		c.printf("%s\n", empty)
		return
	}
	c.printf("Total found: %d\n", len(matches))
}

func wrap(reports []models.Report) []query.Match {
	out := make([]query.Match, len(reports))
	for i, r := range reports {
		out[i] = query.Match{Report: r}
	}
	return out
}

func (c *Console) prompt(label string) (string, bool) {
	c.printf("%s", label)
	line, ok := c.readLine()
	return strings.TrimSpace(line), ok
}

func (c *Console) promptCoordinate(label string) (geo.Coordinate, bool) {
	text, ok := c.prompt(label)
	if !ok {
		return geo.Coordinate{}, false
	}

	fields := strings.Fields(strings.ReplaceAll(text, ",", " "))
	if len(fields) != 2 {
		c.printf("Invalid coordinates!\n")
		return geo.Coordinate{}, false
	}
	lat, err1 := strconv.ParseFloat(fields[0], 64)
	lon, err2 := strconv.ParseFloat(fields[1], 64)
	if err1 != nil || err2 != nil {
		c.printf("Invalid coordinates!\n")
		return geo.Coordinate{}, false
	}

	coord, err := geo.NewCoordinate(lat, lon)
	if err != nil {
		c.printf("Invalid coordinates!\n")
		return geo.Coordinate{}, false
	}
	return coord, true
}

func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
