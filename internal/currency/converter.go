// Package currency normalizes transaction amounts into the canonical
// accounting currency and formats amounts for display.
package currency

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"campusledger/internal/models"
)

// RateSource supplies the currency table. The ledger store satisfies it.
type RateSource interface {
	ListCurrencies() ([]models.Currency, error)
}

// Converter converts amounts between currencies using a rate table cached in
// memory. Reads are safe for concurrent use. The cache is not invalidated
// automatically when rates are edited at runtime: callers that change rates
// must call Reload themselves.
type Converter struct {
	source RateSource

	mu        sync.RWMutex
	byID      map[uint]models.Currency
	canonical models.Currency
}

// NewConverter builds a converter and loads the rate table from the source.
func NewConverter(source RateSource) (*Converter, error) {
	c := &Converter{source: source}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload replaces the cached rate table with the source's current contents.
func (c *Converter) Reload() error {
	currencies, err := c.source.ListCurrencies()
	if err != nil {
		return fmt.Errorf("load currencies: %w", err)
	}

	byID := make(map[uint]models.Currency, len(currencies))
	var canonical models.Currency
	for _, cur := range currencies {
		byID[cur.ID] = cur
		if cur.IsCanonical() && (canonical.ID == 0 || cur.ID < canonical.ID) {
			canonical = cur
		}
	}
	if canonical.ID == 0 && len(currencies) > 0 {
		canonical = currencies[0]
	}

	c.mu.Lock()
	c.byID = byID
	c.canonical = canonical
	c.mu.Unlock()
	return nil
}

// Canonical returns the canonical currency (the one with rate 1.0).
func (c *Converter) Canonical() models.Currency {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.canonical
}

// lookup resolves a currency id, falling back to the canonical currency for
// unknown ids so a dangling reference never blocks a monetary computation.
func (c *Converter) lookup(id uint) models.Currency {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if cur, ok := c.byID[id]; ok {
		return cur
	}
	return c.canonical
}

// ToCanonical converts an amount in the given currency into the canonical
// unit. An unknown currency id is treated as already canonical (rate 1.0).
func (c *Converter) ToCanonical(amount float64, currencyID uint) float64 {
	c.mu.RLock()
	cur, ok := c.byID[currencyID]
	c.mu.RUnlock()
	if !ok {
		return amount
	}
	return amount * cur.Rate
}

// Format renders an amount using its currency's own convention: the
// canonical currency as a dot-grouped whole number with the symbol suffixed
// (250.000đ), foreign currencies with the symbol prefixed and two decimals
// ($1,234.50).
func (c *Converter) Format(amount float64, currencyID uint) string {
	cur := c.lookup(currencyID)
	if cur.ID == c.Canonical().ID {
		return formatCanonical(amount, cur.Symbol)
	}
	return formatForeign(amount, cur.Symbol)
}

// FormatWithCanonical renders an amount in its own currency and, unless the
// currency already is canonical, appends the canonical equivalent in
// parentheses: $10.00 (250.000đ).
func (c *Converter) FormatWithCanonical(amount float64, currencyID uint) string {
	cur := c.lookup(currencyID)
	canonical := c.Canonical()
	if cur.ID == canonical.ID {
		return formatCanonical(amount, canonical.Symbol)
	}
	converted := amount * cur.Rate
	return formatForeign(amount, cur.Symbol) + " (" + formatCanonical(converted, canonical.Symbol) + ")"
}

func formatCanonical(amount float64, symbol string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	whole := fmt.Sprintf("%.0f", math.Round(amount))
	return sign + groupDigits(whole, '.') + symbol
}

func formatForeign(amount float64, symbol string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	s := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(s, ".", 2)
	return sign + symbol + groupDigits(parts[0], ',') + "." + parts[1]
}

// groupDigits inserts the separator every three digits from the right.
func groupDigits(digits string, sep byte) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	b.Grow(n + n/3)
	lead := n % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
