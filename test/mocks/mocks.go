package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chatly/user-service/internal/core/domain/identity"
	"github.com/chatly/user-service/internal/core/domain/user"
	"github.com/chatly/user-service/internal/core/ports"
)

// CacheFake is an in-memory ports.Cache. TTLs are recorded but not
// enforced; tests simulate expiry by deleting keys through Expire.
type CacheFake struct {
	mu   sync.Mutex
	Data map[string][]byte
	TTLs map[string]time.Duration
}

func NewCacheFake() *CacheFake {
	return &CacheFake{
		Data: make(map[string][]byte),
		TTLs: make(map[string]time.Duration),
	}
}

func (c *CacheFake) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.Data[key]
	return b, ok, nil
}

func (c *CacheFake) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Data[key] = value
	c.TTLs[key] = ttl
	return nil
}

func (c *CacheFake) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.Data[key]; exists {
		return false, nil
	}
	c.Data[key] = value
	c.TTLs[key] = ttl
	return true, nil
}

func (c *CacheFake) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Data, key)
	delete(c.TTLs, key)
	return nil
}

// Expire simulates natural TTL eviction of a key.
func (c *CacheFake) Expire(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Data, key)
	delete(c.TTLs, key)
}

// Has reports whether a key is present.
func (c *CacheFake) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.Data[key]
	return ok
}

// UserRepository mock
type UserRepositoryMock struct {
	CreateFn     func(ctx context.Context, u *user.User) error
	GetByEmailFn func(ctx context.Context, email string) (*user.User, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*user.User, error)
	UpdateFn     func(ctx context.Context, u *user.User) error
	ListFn       func(ctx context.Context, limit, offset int) ([]*user.User, error)
}

func (m *UserRepositoryMock) Create(ctx context.Context, u *user.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}
func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, identity.ErrNotFound
}
func (m *UserRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, identity.ErrNotFound
}
func (m *UserRepositoryMock) Update(ctx context.Context, u *user.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, u)
	}
	return nil
}
func (m *UserRepositoryMock) List(ctx context.Context, limit, offset int) ([]*user.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, limit, offset)
	}
	return nil, nil
}

// PublisherMock records every published message.
type PublisherMock struct {
	mu        sync.Mutex
	PublishFn func(ctx context.Context, queue string, body []byte) error
	Published []PublishedMessage
}

type PublishedMessage struct {
	Queue string
	Body  []byte
}

func (m *PublisherMock) Publish(ctx context.Context, queue string, body []byte) error {
	if m.PublishFn != nil {
		if err := m.PublishFn(ctx, queue, body); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, PublishedMessage{Queue: queue, Body: body})
	return nil
}

func (m *PublisherMock) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Published)
}

// CaptchaVerifierMock defaults to accepting every token.
type CaptchaVerifierMock struct {
	VerifyFn func(ctx context.Context, token string) (bool, error)
}

func (m *CaptchaVerifierMock) Verify(ctx context.Context, token string) (bool, error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, token)
	}
	return true, nil
}

// MailSenderMock records sends.
type MailSenderMock struct {
	mu     sync.Mutex
	SendFn func(ctx context.Context, to, subject, body string) error
	Sent   []SentMail
}

type SentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *MailSenderMock) Send(ctx context.Context, to, subject, body string) error {
	if m.SendFn != nil {
		if err := m.SendFn(ctx, to, subject, body); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, Body: body})
	return nil
}

// DeliveryMock is a single queue delivery with ack bookkeeping.
type DeliveryMock struct {
	Payload  []byte
	Acked    bool
	Nacked   bool
	Requeued bool
}

func (d *DeliveryMock) Body() []byte { return d.Payload }
func (d *DeliveryMock) Ack() error {
	d.Acked = true
	return nil
}
func (d *DeliveryMock) Nack(requeue bool) error {
	d.Nacked = true
	d.Requeued = requeue
	return nil
}

// ConsumerMock answers Consume from ConsumeFn when set, otherwise from a
// single pre-filled channel. Calls counts Consume invocations so tests
// can assert the consumer loop re-subscribed after a stream drop.
type ConsumerMock struct {
	Deliveries chan ports.Delivery
	ConsumeFn  func(ctx context.Context, queue string) (<-chan ports.Delivery, error)

	mu    sync.Mutex
	Calls int
}

func (m *ConsumerMock) Consume(ctx context.Context, queue string) (<-chan ports.Delivery, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.ConsumeFn != nil {
		return m.ConsumeFn(ctx, queue)
	}
	return m.Deliveries, nil
}

func (m *ConsumerMock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
