package sheets

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/Spok95/telegram-course-bot/internal/metrics"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// API — узкая поверхность Values API, с которой работают адаптеры.
// В тестах подменяется фейком в памяти.
type API interface {
	Get(ctx context.Context, spreadsheetID, readRange string) ([][]string, error)
	Update(ctx context.Context, spreadsheetID, rng string, values [][]any) error
	Append(ctx context.Context, spreadsheetID, rng string, values [][]any) error
}

type Client struct {
	svc *sheetsapi.Service
}

func New(ctx context.Context, credentialsFile string) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc}, nil
}

func (c *Client) Get(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	t0 := time.Now()
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	metrics.ObserveSheetCall("get", time.Since(t0))
	if err != nil {
		return nil, classify(err)
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		r := make([]string, 0, len(row))
		for _, cell := range row {
			r = append(r, fmt.Sprint(cell))
		}
		out = append(out, r)
	}
	return out, nil
}

func (c *Client) Update(ctx context.Context, spreadsheetID, rng string, values [][]any) error {
	t0 := time.Now()
	vr := &sheetsapi.ValueRange{Values: toInterface(values)}
	_, err := c.svc.Spreadsheets.Values.Update(spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	metrics.ObserveSheetCall("update", time.Since(t0))
	if err != nil {
		return classify(err)
	}
	return nil
}

func (c *Client) Append(ctx context.Context, spreadsheetID, rng string, values [][]any) error {
	t0 := time.Now()
	vr := &sheetsapi.ValueRange{Values: toInterface(values)}
	_, err := c.svc.Spreadsheets.Values.Append(spreadsheetID, rng, vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	metrics.ObserveSheetCall("append", time.Since(t0))
	if err != nil {
		return classify(err)
	}
	return nil
}

func toInterface(values [][]any) [][]interface{} {
	out := make([][]interface{}, len(values))
	for i, row := range values {
		out[i] = append([]interface{}(nil), row...)
	}
	return out
}

// classify переводит ошибки Google API в таксономию адаптера.
// Неизвестное считаем транзиентным: пользователю честнее предложить повторить.
func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == 404:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case gerr.Code == 400 && strings.Contains(gerr.Message, "Unable to parse range"):
			// так API отвечает на отсутствующий лист
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		}
	}
	var nerr net.Error
	if errors.As(err, &nerr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// cellRef — A1-адрес ячейки (строки и колонки 1-based).
func cellRef(row, col int) string {
	return colLetter(col) + fmt.Sprint(row)
}

func colLetter(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}
