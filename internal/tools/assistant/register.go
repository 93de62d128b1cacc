package assistant

import (
	"majordomo/internal/perception"
	"majordomo/internal/tools"
)

// Deps carries the collaborators the built-in tools wrap. Nil fields
// are allowed; the affected tool degrades to its no-backend answer.
type Deps struct {
	Mailer    Mailer
	Calendar  CalendarProvider
	Fetcher   *Fetcher
	Extractor Extractor
	Documents *DocumentStore
	Orders    *OrderService
	Client    perception.Client
}

// RegisterAll registers the full built-in tool set on the registry.
// Missing collaborators get in-process defaults where one exists.
func RegisterAll(registry *tools.Registry, deps Deps) error {
	if deps.Calendar == nil {
		deps.Calendar = NewMemoryCalendar()
	}
	if deps.Documents == nil {
		deps.Documents = NewDocumentStore()
	}
	if deps.Orders == nil {
		deps.Orders = NewOrderService()
	}
	if deps.Fetcher == nil {
		deps.Fetcher = NewFetcher("")
	}
	if deps.Extractor == nil {
		deps.Extractor = FileExtractor{}
	}

	all := []*tools.Tool{
		NewEmailTool(deps.Mailer),
		NewPDFTool(deps.Extractor, deps.Documents, deps.Client),
		NewCalendarTool(deps.Calendar),
		NewSearchTool(deps.Fetcher),
		NewOrderTool(deps.Orders),
		NewGeneralTool(deps.Client),
	}
	for _, tool := range all {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}
	return nil
}
