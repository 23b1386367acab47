package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inventoryhub/backend/internal/mail"
	"github.com/inventoryhub/backend/internal/models"
	"github.com/inventoryhub/backend/internal/repository"
)

// In-memory store implementations backing the service tests. None of
// them are safe for concurrent use; the tests are sequential.

type memUsers struct {
	byID map[uuid.UUID]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[uuid.UUID]*models.User)}
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	cp := *user
	m.byID[user.ID] = &cp
	return nil
}

func (m *memUsers) ByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) ByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Save(_ context.Context, user *models.User) error {
	cp := *user
	m.byID[user.ID] = &cp
	return nil
}

func (m *memUsers) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, *u)
	}
	return out, nil
}

// dupUsers loses every insert race at the unique email index.
type dupUsers struct {
	*memUsers
}

func (d *dupUsers) Create(context.Context, *models.User) error {
	return repository.ErrDuplicate
}

type memSessions struct {
	byToken map[string]*models.Session
}

func newMemSessions() *memSessions {
	return &memSessions{byToken: make(map[string]*models.Session)}
}

func (m *memSessions) Create(_ context.Context, session *models.Session) error {
	cp := *session
	m.byToken[session.Token] = &cp
	return nil
}

func (m *memSessions) ByToken(_ context.Context, token string) (*models.Session, error) {
	s, ok := m.byToken[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessions) DeleteByToken(_ context.Context, token string) error {
	delete(m.byToken, token)
	return nil
}

func (m *memSessions) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	for tok, s := range m.byToken {
		if s.UserID == userID {
			delete(m.byToken, tok)
		}
	}
	return nil
}

func (m *memSessions) countFor(userID uuid.UUID) int {
	n := 0
	for _, s := range m.byToken {
		if s.UserID == userID {
			n++
		}
	}
	return n
}

type memCodes struct {
	rows map[uuid.UUID]*models.VerificationCode
}

func newMemCodes() *memCodes {
	return &memCodes{rows: make(map[uuid.UUID]*models.VerificationCode)}
}

func (m *memCodes) Replace(_ context.Context, code *models.VerificationCode) error {
	for id, r := range m.rows {
		if r.UserID == code.UserID {
			delete(m.rows, id)
		}
	}
	cp := *code
	m.rows[code.ID] = &cp
	return nil
}

func (m *memCodes) FindUnused(_ context.Context, userID uuid.UUID, code string) (*models.VerificationCode, error) {
	for _, r := range m.rows {
		if r.UserID == userID && r.Code == code && !r.Used {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memCodes) MarkUsed(_ context.Context, id uuid.UUID) error {
	if r, ok := m.rows[id]; ok {
		r.Used = true
	}
	return nil
}

func (m *memCodes) countFor(userID uuid.UUID) int {
	n := 0
	for _, r := range m.rows {
		if r.UserID == userID {
			n++
		}
	}
	return n
}

type memResets struct {
	rows map[uuid.UUID]*models.PasswordReset
}

func newMemResets() *memResets {
	return &memResets{rows: make(map[uuid.UUID]*models.PasswordReset)}
}

func (m *memResets) Replace(_ context.Context, reset *models.PasswordReset) error {
	for id, r := range m.rows {
		if r.UserID == reset.UserID {
			delete(m.rows, id)
		}
	}
	cp := *reset
	m.rows[reset.ID] = &cp
	return nil
}

func (m *memResets) FindIssued(_ context.Context, userID uuid.UUID, code string) (*models.PasswordReset, error) {
	for _, r := range m.rows {
		if r.UserID == userID && r.Code == code && r.Status == models.ResetStatusIssued {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memResets) MarkCodeVerified(_ context.Context, id uuid.UUID, resetToken string, tokenExpiresAt time.Time) error {
	r, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Status = models.ResetStatusCodeVerified
	r.ResetToken = &resetToken
	exp := tokenExpiresAt
	r.TokenExpiresAt = &exp
	return nil
}

func (m *memResets) ByResetToken(_ context.Context, resetToken string) (*models.PasswordReset, error) {
	for _, r := range m.rows {
		if r.Status == models.ResetStatusCodeVerified && r.ResetToken != nil && *r.ResetToken == resetToken {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memResets) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	for id, r := range m.rows {
		if r.UserID == userID {
			delete(m.rows, id)
		}
	}
	return nil
}

type memProducts struct {
	rows map[uuid.UUID]*models.Product
}

func newMemProducts() *memProducts {
	return &memProducts{rows: make(map[uuid.UUID]*models.Product)}
}

func (m *memProducts) List(_ context.Context, userID uuid.UUID, all bool) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.rows {
		if all || p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) ByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) SKUExists(_ context.Context, userID uuid.UUID, sku string, except uuid.UUID) (bool, error) {
	for _, p := range m.rows {
		if p.UserID == userID && p.SKU == sku && p.ID != except {
			return true, nil
		}
	}
	return false, nil
}

func (m *memProducts) Create(_ context.Context, product *models.Product) error {
	cp := *product
	m.rows[product.ID] = &cp
	return nil
}

func (m *memProducts) Save(_ context.Context, product *models.Product) error {
	cp := *product
	m.rows[product.ID] = &cp
	return nil
}

func (m *memProducts) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.rows, id)
	return nil
}

func (m *memProducts) CountsByUser(_ context.Context) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64)
	for _, p := range m.rows {
		out[p.UserID]++
	}
	return out, nil
}

func (m *memProducts) RecentByUser(_ context.Context, userID uuid.UUID, limit int) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.rows {
		if p.UserID == userID && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

type memCategories struct {
	rows map[uuid.UUID]*models.Category
}

func newMemCategories() *memCategories {
	return &memCategories{rows: make(map[uuid.UUID]*models.Category)}
}

func (m *memCategories) List(_ context.Context, userID uuid.UUID, all bool) ([]models.Category, error) {
	var out []models.Category
	for _, c := range m.rows {
		if all || c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memCategories) ByName(_ context.Context, userID uuid.UUID, name string) (*models.Category, error) {
	for _, c := range m.rows {
		if c.UserID == userID && c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memCategories) Create(_ context.Context, category *models.Category) error {
	cp := *category
	m.rows[category.ID] = &cp
	return nil
}

func (m *memCategories) NamesByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string)
	for _, id := range ids {
		if c, ok := m.rows[id]; ok {
			out[id] = c.Name
		}
	}
	return out, nil
}

// captureSender records outgoing mail instead of sending it.
type captureSender struct {
	sent []mail.Message
	err  error
}

func (c *captureSender) Send(_ context.Context, msg mail.Message) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.sent = append(c.sent, msg)
	return "test-message-id", nil
}

// fakeGoogle returns a canned profile for both sign-in paths.
type fakeGoogle struct {
	profile *GoogleProfile
	err     error
}

func (f *fakeGoogle) AuthURL() (string, error) {
	return "https://accounts.google.com/o/oauth2/auth?state=test", nil
}

func (f *fakeGoogle) Exchange(_ context.Context, _ string) (*GoogleProfile, error) {
	return f.profile, f.err
}

func (f *fakeGoogle) VerifyIDToken(_ context.Context, _ string) (*GoogleProfile, error) {
	return f.profile, f.err
}
