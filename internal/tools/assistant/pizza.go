package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"majordomo/internal/tools"
)

// Size is a pizza size.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
	SizeXLarge Size = "xlarge"
)

// Crust is a crust style.
type Crust string

const (
	CrustThin    Crust = "thin"
	CrustRegular Crust = "regular"
	CrustThick   Crust = "thick"
	CrustStuffed Crust = "stuffed"
)

var basePrices = map[Size]float64{
	SizeSmall:  10.00,
	SizeMedium: 12.00,
	SizeLarge:  14.00,
	SizeXLarge: 16.00,
}

var crustPrices = map[Crust]float64{
	CrustThin:    0.00,
	CrustRegular: 0.00,
	CrustThick:   1.00,
	CrustStuffed: 2.50,
}

// Topping is one menu topping with its price.
type Topping struct {
	Name  string
	Price float64
}

// DefaultToppings is the built-in topping menu.
func DefaultToppings() map[string]Topping {
	return map[string]Topping{
		"pepperoni":     {Name: "Pepperoni", Price: 2.00},
		"mushrooms":     {Name: "Mushrooms", Price: 1.50},
		"onions":        {Name: "Onions", Price: 1.00},
		"sausage":       {Name: "Sausage", Price: 2.00},
		"bacon":         {Name: "Bacon", Price: 2.50},
		"extra_cheese":  {Name: "Extra Cheese", Price: 1.50},
		"green_peppers": {Name: "Green Peppers", Price: 1.00},
		"olives":        {Name: "Olives", Price: 1.00},
	}
}

// Pizza is one line item of an order.
type Pizza struct {
	Size     Size
	Crust    Crust
	Toppings []string
	Quantity int
}

// DeliveryInfo is where and to whom the order goes.
type DeliveryInfo struct {
	Name         string
	Phone        string
	Address      string
	AptNumber    string
	City         string
	State        string
	ZipCode      string
	Instructions string
}

// ValidateDelivery returns the problems with delivery info, empty when
// it is acceptable.
func ValidateDelivery(info DeliveryInfo) []string {
	var errs []string

	if digits := strings.ReplaceAll(info.Phone, "-", ""); digits == "" || !isDigits(digits) {
		errs = append(errs, "Invalid phone number format")
	}
	if len(info.ZipCode) != 5 || !isDigits(info.ZipCode) {
		errs = append(errs, "Invalid ZIP code")
	}
	if len(strings.TrimSpace(info.Name)) < 2 {
		errs = append(errs, "Name is required")
	}
	if len(strings.TrimSpace(info.Address)) < 5 {
		errs = append(errs, "Valid address is required")
	}
	return errs
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Order is one placed order.
type Order struct {
	ID        string
	Pizzas    []Pizza
	Delivery  DeliveryInfo
	Total     float64
	Status    string
	PlacedAt  time.Time
	Cancelled bool
}

// OrderService prices and places orders. The real delivery API lives
// behind it; this implementation simulates confirmation and tracking.
type OrderService struct {
	mu       sync.Mutex
	toppings map[string]Topping
	orders   map[string]*Order
}

// NewOrderService creates a service with the default topping menu.
func NewOrderService() *OrderService {
	return &OrderService{
		toppings: DefaultToppings(),
		orders:   make(map[string]*Order),
	}
}

// Price computes the cost of one line item. Unknown toppings are
// ignored; unknown sizes or crusts are a caller error.
func (s *OrderService) Price(p Pizza) (float64, error) {
	base, ok := basePrices[p.Size]
	if !ok {
		return 0, fmt.Errorf("unknown pizza size: %q", p.Size)
	}
	crust, ok := crustPrices[p.Crust]
	if !ok {
		return 0, fmt.Errorf("unknown crust type: %q", p.Crust)
	}

	total := base + crust
	for _, name := range p.Toppings {
		if topping, ok := s.toppings[name]; ok {
			total += topping.Price
		}
	}

	qty := p.Quantity
	if qty < 1 {
		qty = 1
	}
	return total * float64(qty), nil
}

// Menu renders the topping menu.
func (s *OrderService) Menu() string {
	names := make([]string, 0, len(s.toppings))
	for name := range s.toppings {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Sizes: small $10, medium $12, large $14, xlarge $16\n")
	b.WriteString("Crusts: thin, regular, thick (+$1.00), stuffed (+$2.50)\n")
	b.WriteString("Toppings:\n")
	for _, name := range names {
		t := s.toppings[name]
		fmt.Fprintf(&b, "- %s ($%.2f)\n", t.Name, t.Price)
	}
	return strings.TrimRight(b.String(), "\n")
}

// PlaceOrder validates, prices, and records an order.
func (s *OrderService) PlaceOrder(pizzas []Pizza, delivery DeliveryInfo) (*Order, error) {
	if errs := ValidateDelivery(delivery); len(errs) > 0 {
		return nil, fmt.Errorf("invalid delivery information: %s", strings.Join(errs, "; "))
	}

	var total float64
	for _, p := range pizzas {
		price, err := s.Price(p)
		if err != nil {
			return nil, err
		}
		total += price
	}

	order := &Order{
		ID:       uuid.NewString(),
		Pizzas:   pizzas,
		Delivery: delivery,
		Total:    total,
		Status:   "confirmed",
		PlacedAt: time.Now(),
	}

	s.mu.Lock()
	s.orders[order.ID] = order
	s.mu.Unlock()
	return order, nil
}

// TrackOrder reports the status of an order.
func (s *OrderService) TrackOrder(id string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("unknown order: %s", id)
	}
	return order, nil
}

// CancelOrder cancels an order that has not gone out yet.
func (s *OrderService) CancelOrder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return fmt.Errorf("unknown order: %s", id)
	}
	order.Cancelled = true
	order.Status = "cancelled"
	return nil
}

// NewOrderTool builds the pizza tool over an order service.
func NewOrderTool(svc *OrderService) *tools.Tool {
	return &tools.Tool{
		Name:         "order_tool",
		Description:  "Orders pizzas for delivery",
		DataCategory: "payment",
		Schema: tools.Schema{
			Properties: map[string]tools.Property{
				"action":   {Type: "string", Description: "order (default), menu, track, or cancel"},
				"size":     {Type: "string", Description: "small, medium, large, or xlarge"},
				"crust":    {Type: "string", Description: "thin, regular, thick, or stuffed"},
				"toppings": {Type: "string", Description: "Comma-separated toppings"},
				"quantity": {Type: "number", Description: "Number of pizzas (default 1)"},
				"name":     {Type: "string", Description: "Delivery name"},
				"phone":    {Type: "string", Description: "Delivery phone"},
				"address":  {Type: "string", Description: "Street address"},
				"city":     {Type: "string", Description: "City"},
				"state":    {Type: "string", Description: "State"},
				"zip":      {Type: "string", Description: "5-digit ZIP code"},
				"order_id": {Type: "string", Description: "Order ID for track/cancel"},
			},
		},
		Execute: func(ctx context.Context, params map[string]any) (string, error) {
			switch stringParam(params, "action") {
			case "menu":
				return svc.Menu(), nil
			case "track":
				order, err := svc.TrackOrder(stringParam(params, "order_id"))
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Order %s: %s (estimated delivery 30-45 minutes)", order.ID, order.Status), nil
			case "cancel":
				if err := svc.CancelOrder(stringParam(params, "order_id")); err != nil {
					return "", err
				}
				return "Order cancelled.", nil
			default:
				return placeOrder(svc, params)
			}
		},
	}
}

func placeOrder(svc *OrderService, params map[string]any) (string, error) {
	size := stringParam(params, "size")
	if size == "" {
		return pizzaQuestions(), nil
	}

	crust := stringParam(params, "crust")
	if crust == "" {
		crust = string(CrustRegular)
	}

	pizza := Pizza{
		Size:     Size(size),
		Crust:    Crust(crust),
		Quantity: intParam(params, "quantity", 1),
	}
	for _, t := range strings.Split(stringParam(params, "toppings"), ",") {
		if t = strings.TrimSpace(strings.ToLower(t)); t != "" {
			pizza.Toppings = append(pizza.Toppings, t)
		}
	}

	delivery := DeliveryInfo{
		Name:    stringParam(params, "name"),
		Phone:   stringParam(params, "phone"),
		Address: stringParam(params, "address"),
		City:    stringParam(params, "city"),
		State:   stringParam(params, "state"),
		ZipCode: stringParam(params, "zip"),
	}

	order, err := svc.PlaceOrder([]Pizza{pizza}, delivery)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Pizza order placed! Order %s, total $%.2f, estimated delivery 30-45 minutes.",
		order.ID, order.Total), nil
}

func pizzaQuestions() string {
	return strings.Join([]string{
		"To order a pizza, I need your preferences:",
		"1. What size? (small, medium, large, xlarge)",
		"2. What crust? (thin, regular, thick, stuffed)",
		"3. Any toppings?",
		"4. Delivery name, phone, address, city, state, and ZIP?",
	}, "\n")
}
