package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ArowuTest/club-portal-backend/internal/models"
)

// ExportHeader is the column layout written by WriteEntriesCSV
var ExportHeader = []string{
	"Draw", "Date", "Shuffle", "Position", "Card", "Winner",
	"Sales", "Payout", "Seed", "Available", "Jackpot", "Profit", "Change",
	"Total Sales", "Total Jackpot", "Total Profit",
}

// RowError describes a CSV row that could not be turned into an entry
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// ReadEntries reads drawing entries from a CSV export of the club spreadsheet.
// Date and Sales columns are required; Payout, Shuffle, Position, Card and Winner are optional.
// Rows that fail to parse are reported and skipped.
func ReadEntries(r io.Reader, gameID string) ([]*models.Entry, []RowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	dateIdx := findColumnIndex(header, []string{"Date", "Draw Date"})
	salesIdx := findColumnIndex(header, []string{"Sales", "Ticket Sales"})
	payoutIdx := findColumnIndex(header, []string{"Payout", "Payouts"})
	shuffleIdx := findColumnIndex(header, []string{"Shuffle"})
	positionIdx := findColumnIndex(header, []string{"Position", "Slot"})
	cardIdx := findColumnIndex(header, []string{"Card", "Card Drawn"})
	winnerIdx := findColumnIndex(header, []string{"Winner"})

	if dateIdx == -1 || salesIdx == -1 {
		return nil, nil, errors.New("date and sales columns are required")
	}

	var entries []*models.Entry
	var rowErrors []RowError
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return entries, rowErrors, fmt.Errorf("failed to read row %d: %w", row, err)
		}
		if isBlank(record) {
			continue
		}

		entry, err := parseEntryRow(record, dateIdx, salesIdx, payoutIdx, shuffleIdx, positionIdx, cardIdx, winnerIdx)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: row, Err: err})
			continue
		}
		entry.GameID = gameID
		entries = append(entries, entry)
	}
	return entries, rowErrors, nil
}

func parseEntryRow(record []string, dateIdx, salesIdx, payoutIdx, shuffleIdx, positionIdx, cardIdx, winnerIdx int) (*models.Entry, error) {
	date, err := ParseDate(field(record, dateIdx))
	if err != nil {
		return nil, err
	}
	sales, err := parseAmount(field(record, salesIdx))
	if err != nil {
		return nil, fmt.Errorf("sales: %w", err)
	}
	entry := &models.Entry{DrawDate: date, TicketSales: sales}

	if v := field(record, payoutIdx); v != "" {
		if entry.Payout, err = parseAmount(v); err != nil {
			return nil, fmt.Errorf("payout: %w", err)
		}
	}
	if v := field(record, shuffleIdx); v != "" {
		if entry.Shuffle, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("shuffle: %w", err)
		}
	}
	if v := field(record, positionIdx); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("position: %w", err)
		}
		entry.Position = &p
	}
	if v := field(record, cardIdx); v != "" {
		card, err := models.ParseCard(v)
		if err != nil {
			return nil, err
		}
		entry.CardDrawn = &card
	}
	entry.Winner = field(record, winnerIdx)
	return entry, nil
}

// WriteEntriesCSV writes the enriched ledger of a game view as CSV
func WriteEntriesCSV(w io.Writer, view *models.GameView) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportHeader); err != nil {
		return err
	}
	for _, e := range view.Entries {
		position, card := "", ""
		if e.Position != nil {
			position = strconv.Itoa(*e.Position)
		}
		if e.CardDrawn != nil {
			card = e.CardDrawn.String()
		}
		record := []string{
			e.DisplayName,
			e.DrawDate.Format("2006-01-02"),
			strconv.Itoa(e.EffectiveShuffle),
			position,
			card,
			e.Winner,
			formatAmount(e.TicketSales),
			formatAmount(e.Payout),
			formatAmount(e.Seed),
			formatAmount(e.AvailableFund),
			formatAmount(e.Jackpot),
			formatAmount(e.Profit),
			FormatPercent(e.PercentChange),
			formatAmount(e.Totals.TotalSales),
			formatAmount(e.Totals.TotalJackpot),
			formatAmount(e.Totals.TotalProfit),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// findColumnIndex finds the index of a column by possible names
func findColumnIndex(header []string, possibleNames []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, name := range possibleNames {
			if strings.ToLower(name) == h {
				return i
			}
		}
	}
	return -1
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseAmount accepts spreadsheet money such as "$1,250.00"
func parseAmount(v string) (float64, error) {
	v = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(v))
	if v == "" {
		return 0, nil
	}
	amount, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", v)
	}
	return amount, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
