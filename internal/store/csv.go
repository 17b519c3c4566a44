package store

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/logger"

	"promolotto/internal/calendar"
	"promolotto/internal/models"
)

// Column layouts of the upstream sheet exports. Header rows are detected and
// skipped; malformed rows are logged and skipped, never abort a load.
//
//	tickets:   ticketId, ownerId, numbers, registeredAt, contestId, drawDate, status
//	recharges: rechargeId, ownerId, rechargedAt, amount
//	results:   contestId, drawDate, numbers ("-" or empty marks a skipped draw)
const (
	ticketColumns   = 7
	rechargeColumns = 4
	resultColumns   = 3
)

// ParseTickets reads the ticket CSV export. Rows with an unparseable
// registration timestamp are kept: the validator classifies them UNKNOWN
// instead of the load dropping them silently.
func ParseTickets(r io.Reader) ([]models.Ticket, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var tickets []models.Ticket
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) != ticketColumns {
			logger.Infof("Skipping malformed ticket record: %v", record)
			continue
		}
		if isHeader(record[0], "ticketId") {
			continue
		}

		registeredAt, ok := calendar.ParseTimestamp(strings.TrimSpace(record[3]))
		if !ok && strings.TrimSpace(record[3]) != "" {
			logger.Infof("Unparseable registration timestamp in ticket record: %v", record)
		}
		tickets = append(tickets, models.Ticket{
			TicketID:       strings.TrimSpace(record[0]),
			OwnerID:        strings.TrimSpace(record[1]),
			ChosenNumbers:  parseNumbers(record[2]),
			RegisteredAt:   registeredAt,
			ContestID:      strings.TrimSpace(record[4]),
			DrawDate:       strings.TrimSpace(record[5]),
			UpstreamStatus: strings.TrimSpace(record[6]),
		})
	}
	return tickets, nil
}

// ParseRecharges reads the recharge CSV export. Zero or unparseable amounts
// are kept with amount 0; the matcher excludes them from funding.
func ParseRecharges(r io.Reader) ([]models.Recharge, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var recharges []models.Recharge
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) != rechargeColumns {
			logger.Infof("Skipping malformed recharge record: %v", record)
			continue
		}
		if isHeader(record[0], "rechargeId") {
			continue
		}

		rechargedAt, ok := calendar.ParseTimestamp(strings.TrimSpace(record[2]))
		if !ok {
			logger.Infof("Skipping recharge record with unparseable timestamp: %v", record)
			continue
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if err != nil {
			amount = 0
		}
		raw := make([]string, len(record))
		copy(raw, record)
		recharges = append(recharges, models.Recharge{
			RechargeID:  strings.TrimSpace(record[0]),
			OwnerID:     strings.TrimSpace(record[1]),
			RechargedAt: rechargedAt,
			Amount:      amount,
			RawRow:      raw,
		})
	}
	return recharges, nil
}

// ParseResults reads the draw-result CSV export.
func ParseResults(r io.Reader) ([]models.Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var results []models.Result
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) != resultColumns {
			logger.Infof("Skipping malformed result record: %v", record)
			continue
		}
		if isHeader(record[0], "contestId") {
			continue
		}

		numbersField := strings.TrimSpace(record[2])
		noDraw := numbersField == "" || numbersField == "-"
		var numbers []int
		if !noDraw {
			numbers = parseNumbers(numbersField)
		}
		results = append(results, models.Result{
			ContestID:      strings.TrimSpace(record[0]),
			DrawDate:       strings.TrimSpace(record[1]),
			WinningNumbers: numbers,
			NoDraw:         noDraw,
		})
	}
	return results, nil
}

// LoadTicketsFile parses the ticket export at the given path.
func LoadTicketsFile(path string) ([]models.Ticket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTickets(f)
}

// LoadRechargesFile parses the recharge export at the given path.
func LoadRechargesFile(path string) ([]models.Recharge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseRecharges(f)
}

// LoadResultsFile parses the result export at the given path.
func LoadResultsFile(path string) ([]models.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseResults(f)
}

// parseNumbers reads a space- or semicolon-separated number list, dropping
// tokens outside the 1..80 ball range.
func parseNumbers(field string) []int {
	field = strings.ReplaceAll(field, ";", " ")
	var numbers []int
	for _, token := range strings.Fields(field) {
		n, err := strconv.Atoi(token)
		if err != nil || n < 1 || n > 80 {
			logger.Infof("Dropping invalid number token %q", token)
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}

func isHeader(first, name string) bool {
	return strings.EqualFold(strings.TrimSpace(first), name)
}
