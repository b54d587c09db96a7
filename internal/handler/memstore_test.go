package handler

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hitoshi/digistore/internal/model"
	"github.com/hitoshi/digistore/internal/repository"
)

// --- 統合テスト用のインメモリリポジトリ ---

type memStore struct {
	mu       sync.Mutex
	users    map[string]*model.User
	sessions map[string]*model.Session
	products map[string]*model.Product
	orders   map[string]*model.Order
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*model.User{},
		sessions: map[string]*model.Session{},
		products: map[string]*model.Product{},
		orders:   map[string]*model.Order{},
	}
}

type memUsers struct{ s *memStore }
type memSessions struct{ s *memStore }
type memProducts struct{ s *memStore }
type memOrders struct{ s *memStore }

var (
	_ repository.UserRepository    = memUsers{}
	_ repository.SessionRepository = memSessions{}
	_ repository.ProductRepository = memProducts{}
	_ repository.OrderRepository   = memOrders{}
)

func (m memUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if u, ok := m.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m memUsers) Create(_ context.Context, user *model.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	cp := *user
	m.s.users[user.ID] = &cp
	return nil
}

func (m memUsers) SetAdmin(_ context.Context, email string, isAdmin bool) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == email {
			u.IsAdmin = isAdmin
			return true, nil
		}
	}
	return false, nil
}

func (m memSessions) Create(_ context.Context, session *model.Session) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *session
	m.s.sessions[session.Token] = &cp
	return nil
}

func (m memSessions) FindByToken(_ context.Context, token string) (*model.Session, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if sess, ok := m.s.sessions[token]; ok {
		cp := *sess
		return &cp, nil
	}
	return nil, nil
}

func (m memSessions) DeleteByUserID(_ context.Context, userID string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for token, sess := range m.s.sessions {
		if sess.UserID == userID {
			delete(m.s.sessions, token)
			n++
		}
	}
	return n, nil
}

func (m memSessions) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for token, sess := range m.s.sessions {
		if sess.ExpiresAt.Before(cutoff) {
			delete(m.s.sessions, token)
			n++
		}
	}
	return n, nil
}

func (m memProducts) sorted(match func(*model.Product) bool, limit int) []*model.Product {
	var out []*model.Product
	for _, p := range m.s.products {
		if match(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m memProducts) ListActive(_ context.Context, filter model.ProductFilter, limit int) ([]*model.Product, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	search := strings.ToLower(filter.Search)
	return m.sorted(func(p *model.Product) bool {
		if !p.IsActive {
			return false
		}
		if filter.Category != "" && p.Category != filter.Category {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			return false
		}
		return true
	}, limit), nil
}

func (m memProducts) ListAll(_ context.Context, limit int) ([]*model.Product, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.sorted(func(*model.Product) bool { return true }, limit), nil
}

func (m memProducts) FindActiveByID(_ context.Context, id string) (*model.Product, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if p, ok := m.s.products[id]; ok && p.IsActive {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m memProducts) Create(_ context.Context, product *model.Product) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *product
	m.s.products[product.ID] = &cp
	return nil
}

func (m memProducts) UpdateActive(_ context.Context, id string, input model.ProductInput) (*model.Product, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.products[id]
	if !ok || !p.IsActive {
		return nil, nil
	}
	p.Name = input.Name
	p.Description = input.Description
	p.Price = input.Price
	p.Category = input.Category
	p.ImageBase64 = input.ImageBase64
	p.FileBase64 = input.FileBase64
	p.FileName = input.FileName
	p.FileType = input.FileType
	cp := *p
	return &cp, nil
}

func (m memProducts) Deactivate(_ context.Context, id string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.products[id]
	if !ok || !p.IsActive {
		return false, nil
	}
	p.IsActive = false
	return true, nil
}

func (m memOrders) Create(_ context.Context, o *model.Order) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *o
	m.s.orders[o.ID] = &cp
	return nil
}

func (m memOrders) FindByID(_ context.Context, id string) (*model.Order, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if o, ok := m.s.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}
