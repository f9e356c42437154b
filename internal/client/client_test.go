package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/theirongolddev/budgetdash/internal/budget"
	"github.com/theirongolddev/budgetdash/internal/daemon"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/store"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	svc := daemon.New(daemon.Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))},
		budget.NewBuilder(store.New(), model.DefaultSchema()))
	srv := httptest.NewServer(svc.Handler())
	t.Cleanup(srv.Close)
	return New(strings.TrimPrefix(srv.URL, "http://"))
}

func TestSetFieldAndRecord(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	if err := c.Health(ctx); err != nil {
		t.Fatalf("Health: %v", err)
	}

	v, err := c.SetField(ctx, "2025-April", "Car Payment", "320")
	if err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if v.Summary.TotalExpenses != "2520.00" {
		t.Fatalf("total expenses = %s, want 2520.00", v.Summary.TotalExpenses)
	}

	got, err := c.Record(ctx, "2025-April")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !got.Stored || got.Expenses[2].Name != "Car Payment" || got.Expenses[2].Amount != "320.00" {
		t.Fatalf("record = %+v", got)
	}
}

func TestValidationErrorsUnwrap(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.SetField(ctx, "2025-April", "Rent", "-5")
	if !errors.Is(err, model.ErrNegativeAmount) {
		t.Fatalf("err = %v, want ErrNegativeAmount", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnprocessableEntity || apiErr.Field != "Rent" {
		t.Fatalf("api error = %+v", apiErr)
	}

	if _, err := c.SetField(ctx, "2025-April", "Boat", "5"); !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("err = %v, want ErrUnknownField", err)
	}
}

func TestHistoryLineItemsExport(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	items, err := c.SetLineItems(ctx, "2025-May", []daemon.LineItemInput{
		{Category: "Groceries", Projected: "300", Actual: "290"},
	})
	if err != nil {
		t.Fatalf("SetLineItems: %v", err)
	}
	if items[0].Difference != "10.00" {
		t.Fatalf("difference = %s", items[0].Difference)
	}

	rows, err := c.History(ctx)
	if err != nil || len(rows) != 1 || rows[0].Period != "2025-May" {
		t.Fatalf("History = %+v, %v", rows, err)
	}

	var buf bytes.Buffer
	if err := c.Export(ctx, "2025-May", &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Category,Amount\nIncome,5000.00\n") {
		t.Fatalf("export = %q", buf.String())
	}

	st, err := c.Status(ctx)
	if err != nil || st.Periods != 1 {
		t.Fatalf("Status = %+v, %v", st, err)
	}
}

func TestUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	err := New(addr).Health(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
