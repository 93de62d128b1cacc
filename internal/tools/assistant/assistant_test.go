package assistant

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"majordomo/internal/tools"
)

type fakeModel struct {
	reply string
	err   error
	calls []string
}

func (f *fakeModel) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls = append(f.calls, prompt)
	return f.reply, f.err
}

func (f *fakeModel) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	f.calls = append(f.calls, prompt)
	return f.reply, f.err
}

func TestPizzaPricing(t *testing.T) {
	svc := NewOrderService()

	cases := []struct {
		name  string
		pizza Pizza
		want  float64
	}{
		{"plain medium", Pizza{Size: SizeMedium, Crust: CrustRegular}, 12.00},
		{"large thick pepperoni", Pizza{Size: SizeLarge, Crust: CrustThick, Toppings: []string{"pepperoni"}}, 17.00},
		{"stuffed with two toppings", Pizza{Size: SizeSmall, Crust: CrustStuffed, Toppings: []string{"bacon", "olives"}}, 16.00},
		{"quantity multiplies", Pizza{Size: SizeXLarge, Crust: CrustThin, Quantity: 2}, 32.00},
		{"unknown topping ignored", Pizza{Size: SizeMedium, Crust: CrustRegular, Toppings: []string{"anchovies"}}, 12.00},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Price(tc.pizza)
			if err != nil {
				t.Fatalf("Price: %v", err)
			}
			if got != tc.want {
				t.Errorf("Price = %.2f, want %.2f", got, tc.want)
			}
		})
	}

	if _, err := svc.Price(Pizza{Size: "jumbo", Crust: CrustRegular}); err == nil {
		t.Error("expected error for unknown size")
	}
}

func TestValidateDelivery(t *testing.T) {
	good := DeliveryInfo{
		Name: "Ada Lovelace", Phone: "555-123-4567",
		Address: "1 Analytical Way", City: "London", State: "UK", ZipCode: "90210",
	}
	if errs := ValidateDelivery(good); len(errs) != 0 {
		t.Fatalf("valid info rejected: %v", errs)
	}

	bad := DeliveryInfo{Name: "A", Phone: "call me", Address: "x", ZipCode: "1234"}
	errs := ValidateDelivery(bad)
	if len(errs) != 4 {
		t.Fatalf("got %d problems, want 4: %v", len(errs), errs)
	}
}

func TestOrderLifecycle(t *testing.T) {
	svc := NewOrderService()

	order, err := svc.PlaceOrder(
		[]Pizza{{Size: SizeLarge, Crust: CrustRegular, Toppings: []string{"mushrooms"}}},
		DeliveryInfo{Name: "Ada Lovelace", Phone: "555-123-4567",
			Address: "1 Analytical Way", ZipCode: "90210"},
	)
	require.NoError(t, err)
	require.Equal(t, "confirmed", order.Status)
	require.Equal(t, 15.50, order.Total)

	tracked, err := svc.TrackOrder(order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, tracked.ID)

	require.NoError(t, svc.CancelOrder(order.ID))
	tracked, err = svc.TrackOrder(order.ID)
	require.NoError(t, err)
	require.Equal(t, "cancelled", tracked.Status)

	_, err = svc.TrackOrder("nope")
	require.Error(t, err)
}

func TestOrderToolAsksWithoutSize(t *testing.T) {
	tool := NewOrderTool(NewOrderService())

	out, err := tool.Execute(context.Background(), map[string]any{"input": "I want a pizza"})
	require.NoError(t, err)
	require.Contains(t, out, "What size?")
}

func TestEmailToolDraftQuestions(t *testing.T) {
	tool := NewEmailTool(nil)

	out, err := tool.Execute(context.Background(), map[string]any{
		"to": "ada@example.com",
	})
	require.NoError(t, err)
	require.Contains(t, out, "subject line")
	require.Contains(t, out, "email body")
	require.NotContains(t, out, "Who should receive it")
}

type recordingMailer struct {
	to, subject, body string
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return nil
}

func TestEmailToolSends(t *testing.T) {
	mailer := &recordingMailer{}
	tool := NewEmailTool(mailer)

	out, err := tool.Execute(context.Background(), map[string]any{
		"to": "ada@example.com", "subject": "Hi", "body": "Hello there",
	})
	require.NoError(t, err)
	require.Contains(t, out, "ada@example.com")
	require.Equal(t, "Hi", mailer.subject)
}

func TestCalendarScheduleAndList(t *testing.T) {
	cal := NewMemoryCalendar()
	cal.now = func() time.Time {
		return time.Date(2025, 10, 20, 9, 0, 0, 0, time.Local)
	}
	tool := NewCalendarTool(cal)
	ctx := context.Background()

	out, err := tool.Execute(ctx, map[string]any{
		"title": "Sprint review", "start_time": "2025-10-22 14:00",
	})
	require.NoError(t, err)
	require.Contains(t, out, "Sprint review")

	out, err = tool.Execute(ctx, map[string]any{"action": "list", "days": 7})
	require.NoError(t, err)
	require.Contains(t, out, "Sprint review")
	require.Contains(t, out, "2025-10-22 14:00")
}

func TestCalendarToolAsksForMissingFields(t *testing.T) {
	tool := NewCalendarTool(NewMemoryCalendar())

	out, err := tool.Execute(context.Background(), map[string]any{"title": "Standup"})
	require.NoError(t, err)
	require.Contains(t, out, "When should it start?")
	require.NotContains(t, out, "What is the meeting about?")
}

func TestParsePage(t *testing.T) {
	const doc = `<html><head><title> Example Domain </title>
<script>ignore();</script></head>
<body><p>Some body text.</p>
<a href="/about">About us</a>
<a href="https://other.example/x">Elsewhere</a></body></html>`

	page, err := parsePage("https://example.com/index.html", []byte(doc))
	if err != nil {
		t.Fatalf("parsePage: %v", err)
	}
	if page.Title != "Example Domain" {
		t.Errorf("Title = %q", page.Title)
	}
	if !strings.Contains(page.Text, "Some body text.") {
		t.Errorf("Text = %q", page.Text)
	}
	if strings.Contains(page.Text, "ignore()") {
		t.Error("script content leaked into text")
	}
	if len(page.Links) != 2 {
		t.Fatalf("got %d links, want 2", len(page.Links))
	}
	if page.Links[0].Href != "https://example.com/about" {
		t.Errorf("relative link not resolved: %q", page.Links[0].Href)
	}
}

func TestFetcherCachesResponses(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `<html><head><title>Cached</title></head><body>hi</body></html>`)
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	ctx := context.Background()

	first, err := f.Fetch(ctx, srv.URL)
	require.NoError(t, err)
	second, err := f.Fetch(ctx, srv.URL)
	require.NoError(t, err)

	require.Equal(t, 1, hits, "second fetch should hit the cache")
	require.Equal(t, first.Title, second.Title)
}

func TestSearchToolExtractsURLFromInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Found</title></head><body>payload</body></html>`)
	}))
	defer srv.Close()

	tool := NewSearchTool(NewFetcher(""))

	out, err := tool.Execute(context.Background(), map[string]any{
		"input": "please look up " + srv.URL + " for me",
	})
	require.NoError(t, err)
	require.Contains(t, out, "Found")

	out, err = tool.Execute(context.Background(), map[string]any{"input": "look something up"})
	require.NoError(t, err)
	require.Contains(t, out, "What URL")
}

type fakeExtractor struct{ text string }

func (f *fakeExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	return f.text, nil
}

func TestPDFToolLoadAndAsk(t *testing.T) {
	store := NewDocumentStore()
	model := &fakeModel{reply: "The report covers Q3 revenue."}
	tool := NewPDFTool(&fakeExtractor{text: "Q3 revenue grew 12%."}, store, model)
	ctx := context.Background()

	out, err := tool.Execute(ctx, map[string]any{
		"action": "load", "path": "/tmp/q3-report.pdf",
	})
	require.NoError(t, err)
	require.Contains(t, out, `"q3-report"`)
	require.Equal(t, 1, store.Len())

	out, err = tool.Execute(ctx, map[string]any{"question": "what is this about?"})
	require.NoError(t, err)
	require.Equal(t, "The report covers Q3 revenue.", out)
	require.Len(t, model.calls, 1)
	require.Contains(t, model.calls[0], "Q3 revenue grew 12%.")
}

func TestPDFToolWithoutDocuments(t *testing.T) {
	tool := NewPDFTool(nil, NewDocumentStore(), &fakeModel{})

	out, err := tool.Execute(context.Background(), map[string]any{"question": "anything?"})
	require.NoError(t, err)
	require.Contains(t, out, "No documents loaded")
}

func TestGeneralToolFallsBackToCapabilities(t *testing.T) {
	tool := NewGeneralTool(nil)

	out, err := tool.Execute(context.Background(), map[string]any{"input": "what can you do?"})
	require.NoError(t, err)
	require.Contains(t, out, "Ordering pizza")
}

func TestGeneralToolUsesModel(t *testing.T) {
	model := &fakeModel{reply: "It is Tuesday."}
	tool := NewGeneralTool(model)

	out, err := tool.Execute(context.Background(), map[string]any{"input": "what day is it?"})
	require.NoError(t, err)
	require.Equal(t, "It is Tuesday.", out)
}

func TestRegisterAll(t *testing.T) {
	registry := tools.NewRegistry(nil)
	require.NoError(t, RegisterAll(registry, Deps{}))

	want := []string{
		"calendar_tool", "email_tool", "general_query_tool",
		"order_tool", "pdf_tool", "search_tool",
	}
	require.Equal(t, want, registry.Names())
}
