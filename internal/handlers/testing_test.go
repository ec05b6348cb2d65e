package handlers

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/experiencehub/backend/internal/models"
	"github.com/experiencehub/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()
	return e
}

// newTestContext builds an echo context for one request, authenticated as
// userID the way the JWT middleware would leave it. userID 0 means no auth.
func newTestContext(e *echo.Echo, method, target, body string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}

// httpStatus unwraps the status a handler produced, whether it wrote the
// response or returned an *echo.HTTPError.
func httpStatus(t *testing.T, err error, rec *httptest.ResponseRecorder) int {
	t.Helper()
	if err == nil {
		return rec.Code
	}
	if httpErr, ok := err.(*echo.HTTPError); ok {
		return httpErr.Code
	}
	t.Fatalf("unexpected handler error: %v", err)
	return 0
}

// memUserRepo is an in-memory UserRepository.
type memUserRepo struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint
}

func newMemUserRepo(users ...*models.User) *memUserRepo {
	m := &memUserRepo{users: make(map[uint]*models.User), nextID: 1}
	for _, u := range users {
		m.users[u.ID] = u
		if u.ID >= m.nextID {
			m.nextID = u.ID + 1
		}
	}
	return m
}

func (m *memUserRepo) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email || existing.UserName == user.UserName {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) GetUserByID(id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) GetUserByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) UserExists(id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[id]
	return ok, nil
}

func (m *memUserRepo) UpdateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

// memFollowRepo is an in-memory FollowRepository.
type memFollowRepo struct {
	mu      sync.Mutex
	follows map[uint]*models.Follow
	users   *memUserRepo
	nextID  uint
}

func newMemFollowRepo(users *memUserRepo) *memFollowRepo {
	return &memFollowRepo{follows: make(map[uint]*models.Follow), users: users, nextID: 1}
}

func (m *memFollowRepo) CreateFollow(follow *models.Follow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.follows {
		if f.FollowerID == follow.FollowerID && f.FollowedID == follow.FollowedID {
			return gorm.ErrDuplicatedKey
		}
	}
	follow.ID = m.nextID
	m.nextID++
	m.follows[follow.ID] = follow
	return nil
}

func (m *memFollowRepo) DeleteFollow(followerID, followedID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, f := range m.follows {
		if f.FollowerID == followerID && f.FollowedID == followedID {
			delete(m.follows, id)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memFollowRepo) DeleteFollowByID(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.follows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.follows, id)
	return nil
}

func (m *memFollowRepo) IsFollowing(followerID, followedID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.follows {
		if f.FollowerID == followerID && f.FollowedID == followedID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memFollowRepo) GetFollowers(userID uint) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, f := range m.follows {
		if f.FollowedID == userID {
			if user, err := m.users.GetUserByID(f.FollowerID); err == nil {
				out = append(out, *user)
			}
		}
	}
	return out, nil
}

func (m *memFollowRepo) GetFollowing(userID uint) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, f := range m.follows {
		if f.FollowerID == userID {
			if user, err := m.users.GetUserByID(f.FollowedID); err == nil {
				out = append(out, *user)
			}
		}
	}
	return out, nil
}

// memFollowRequestRepo is an in-memory FollowRequestRepository.
type memFollowRequestRepo struct {
	mu       sync.Mutex
	requests map[uint]*models.FollowRequest
	nextID   uint
}

func newMemFollowRequestRepo() *memFollowRequestRepo {
	return &memFollowRequestRepo{requests: make(map[uint]*models.FollowRequest), nextID: 1}
}

func (m *memFollowRequestRepo) CreateRequest(request *models.FollowRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	request.ID = m.nextID
	m.nextID++
	m.requests[request.ID] = request
	return nil
}

func (m *memFollowRequestRepo) GetPendingRequest(followerID, followedID uint) (*models.FollowRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.FollowerID == followerID && r.FollowedID == followedID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memFollowRequestRepo) GetRequestByID(id uint) (*models.FollowRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memFollowRequestRepo) HasPendingRequest(followerID, followedID uint) (bool, error) {
	_, err := m.GetPendingRequest(followerID, followedID)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (m *memFollowRequestRepo) DeleteRequest(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.requests, id)
	return nil
}

func (m *memFollowRequestRepo) GetRequestsForUser(userID uint) ([]models.FollowRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.FollowRequest
	for _, r := range m.requests {
		if r.FollowedID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memFollowRequestRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// memNotificationRepo is an in-memory NotificationRepository.
type memNotificationRepo struct {
	mu            sync.Mutex
	notifications map[uint]*models.Notification
	nextID        uint
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{notifications: make(map[uint]*models.Notification), nextID: 1}
}

func (m *memNotificationRepo) CreateNotification(notification *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	notification.ID = m.nextID
	m.nextID++
	m.notifications[notification.ID] = notification
	return nil
}

func (m *memNotificationRepo) GetUnreadByUserID(userID uint) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *memNotificationRepo) GetUnreadCount(userID uint) (int64, error) {
	unread, _ := m.GetUnreadByUserID(userID)
	return int64(len(unread)), nil
}

func (m *memNotificationRepo) MarkAsRead(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.IsRead = true
	return nil
}

func (m *memNotificationRepo) MarkAllAsRead(userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *memNotificationRepo) forUser(userID uint) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out
}

// memBlockedUserRepo is an in-memory BlockedUserRepository.
type memBlockedUserRepo struct {
	mu     sync.Mutex
	blocks map[uint]*models.BlockedUser
	nextID uint
}

func newMemBlockedUserRepo() *memBlockedUserRepo {
	return &memBlockedUserRepo{blocks: make(map[uint]*models.BlockedUser), nextID: 1}
}

func (m *memBlockedUserRepo) CreateBlock(block *models.BlockedUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.blocks {
		if b.UserID == block.UserID && b.BlockedUserID == block.BlockedUserID {
			return gorm.ErrDuplicatedKey
		}
	}
	block.ID = m.nextID
	m.nextID++
	m.blocks[block.ID] = block
	return nil
}

func (m *memBlockedUserRepo) DeleteBlock(userID, blockedUserID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, b := range m.blocks {
		if b.UserID == userID && b.BlockedUserID == blockedUserID {
			delete(m.blocks, id)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memBlockedUserRepo) IsBlocked(userID, blockedUserID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.blocks {
		if b.UserID == userID && b.BlockedUserID == blockedUserID {
			return true, nil
		}
	}
	return false, nil
}
