// Package ledger holds the account, stock and transport collaborators the
// trade protocol calls into. The core only branches on their boolean and
// numeric results; the bookkeeping itself stays here.
package ledger

import (
	"sync"
	"time"

	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// Account is a simple balance with debit/credit operations.
type Account interface {
	// Debit withdraws when the balance covers the amount and reports
	// whether it did.
	Debit(amount float64) bool
	// ForceDebit withdraws unconditionally; fines and forced payments may
	// push a balance negative.
	ForceDebit(amount float64)
	Credit(amount float64)
	Balance() float64
}

// Stock tracks on-hand quantities, provisional claims against orders, and
// the amount-on-order counter of replenishing buyers.
type Stock interface {
	UnitPrice(product string) float64
	Available(product string) int
	Add(product string, qty int)
	// Remove deducts on-hand stock and reports whether it covered qty.
	Remove(product string, qty int) bool
	// Reserve claims qty against future shipment and reports whether
	// unclaimed stock covered it.
	Reserve(product string, qty int) bool
	Release(product string, qty int)
	Reserved(product string) int
	OnOrder(product string) int
	AddOnOrder(product string, qty int)
	ReduceOnOrder(product string, qty int)
}

// Transport estimates transit time and cost between two actors.
type Transport interface {
	TransitTime(from, to message.ActorID, opt message.TransportOption) time.Duration
	Cost(from, to message.ActorID, opt message.TransportOption, qty int) float64
}

// Locator measures the distance between two actors, for quote ranking.
type Locator interface {
	Distance(a, b message.ActorID) float64
}

// MemAccount is the in-memory Account. The mutex only guards against the
// observability reader; protocol mutation is single-threaded.
type MemAccount struct {
	mu      sync.Mutex
	balance float64
}

func NewMemAccount(opening float64) *MemAccount {
	return &MemAccount{balance: opening}
}

func (a *MemAccount) Debit(amount float64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.balance < amount {
		return false
	}
	a.balance -= amount
	return true
}

func (a *MemAccount) ForceDebit(amount float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance -= amount
}

func (a *MemAccount) Credit(amount float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance += amount
}

func (a *MemAccount) Balance() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// MemStock is the in-memory Stock.
type MemStock struct {
	mu       sync.Mutex
	prices   map[string]float64
	onHand   map[string]int
	reserved map[string]int
	onOrder  map[string]int
}

func NewMemStock() *MemStock {
	return &MemStock{
		prices:   make(map[string]float64),
		onHand:   make(map[string]int),
		reserved: make(map[string]int),
		onOrder:  make(map[string]int),
	}
}

// SetUnitPrice registers the reference unit price of a product.
func (s *MemStock) SetUnitPrice(product string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[product] = price
}

func (s *MemStock) UnitPrice(product string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prices[product]
}

func (s *MemStock) Available(product string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onHand[product]
}

func (s *MemStock) Add(product string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onHand[product] += qty
}

func (s *MemStock) Remove(product string, qty int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onHand[product] < qty {
		return false
	}
	s.onHand[product] -= qty
	return true
}

func (s *MemStock) Reserve(product string, qty int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.onHand[product]-s.reserved[product] >= qty
	s.reserved[product] += qty
	return ok
}

func (s *MemStock) Release(product string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserved[product] -= qty
	if s.reserved[product] < 0 {
		s.reserved[product] = 0
	}
}

func (s *MemStock) Reserved(product string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reserved[product]
}

func (s *MemStock) OnOrder(product string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onOrder[product]
}

func (s *MemStock) AddOnOrder(product string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onOrder[product] += qty
}

func (s *MemStock) ReduceOnOrder(product string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onOrder[product] -= qty
	if s.onOrder[product] < 0 {
		s.onOrder[product] = 0
	}
}
