package realtime

import (
	"fmt"
	"sync"

	"github.com/experiencehub/backend/internal/models"
	"gorm.io/gorm"
)

// fakeTransport records pushed events per connection and keeps group
// membership in memory, standing in for the websocket transport.
type fakeTransport struct {
	mu     sync.Mutex
	sent   map[string][]Event
	groups map[string]map[string]struct{}
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		sent:   make(map[string][]Event),
		groups: make(map[string]map[string]struct{}),
	}
}

func (t *fakeTransport) SendToConnection(connectionID string, event Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent[connectionID] = append(t.sent[connectionID], event)
}

func (t *fakeTransport) SendToGroup(group string, event Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for connectionID := range t.groups[group] {
		t.sent[connectionID] = append(t.sent[connectionID], event)
	}
}

func (t *fakeTransport) AddToGroup(connectionID, group string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.groups[group]; !ok {
		t.groups[group] = make(map[string]struct{})
	}
	t.groups[group][connectionID] = struct{}{}
}

func (t *fakeTransport) RemoveFromGroup(connectionID, group string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if members, ok := t.groups[group]; ok {
		delete(members, connectionID)
	}
}

func (t *fakeTransport) eventsFor(connectionID string) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	events := make([]Event, len(t.sent[connectionID]))
	copy(events, t.sent[connectionID])
	return events
}

func (t *fakeTransport) eventsOfType(connectionID, eventType string) []Event {
	var matched []Event
	for _, e := range t.eventsFor(connectionID) {
		if e.Type == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

func (t *fakeTransport) inGroup(connectionID, group string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.groups[group][connectionID]
	return ok
}

// memUsers is an in-memory UserRepository.
type memUsers struct {
	mu    sync.Mutex
	users map[uint]*models.User
}

func newMemUsers(users ...*models.User) *memUsers {
	m := &memUsers{users: make(map[uint]*models.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUsers) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *memUsers) GetUserByID(id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUsers) GetUserByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUsers) UserExists(id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[id]
	return ok, nil
}

func (m *memUsers) UpdateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

// memExperiences is an in-memory ExperienceRepository.
type memExperiences struct {
	experiences map[uint]*models.Experience
}

func newMemExperiences(experiences ...*models.Experience) *memExperiences {
	m := &memExperiences{experiences: make(map[uint]*models.Experience)}
	for _, e := range experiences {
		m.experiences[e.ID] = e
	}
	return m
}

func (m *memExperiences) GetExperienceByID(id uint) (*models.Experience, error) {
	if e, ok := m.experiences[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memExperiences) ExperienceExists(id uint) (bool, error) {
	_, ok := m.experiences[id]
	return ok, nil
}

// memComments is an in-memory CommentRepository.
type memComments struct {
	mu       sync.Mutex
	comments map[uint]*models.Comment
	nextID   uint
}

func newMemComments(comments ...*models.Comment) *memComments {
	m := &memComments{comments: make(map[uint]*models.Comment), nextID: 1}
	for _, c := range comments {
		m.comments[c.ID] = c
		if c.ID >= m.nextID {
			m.nextID = c.ID + 1
		}
	}
	return m
}

func (m *memComments) CreateComment(comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment.ID = m.nextID
	m.nextID++
	m.comments[comment.ID] = comment
	return nil
}

func (m *memComments) GetCommentByID(id uint) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.comments[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memComments) GetCommentsByExperienceID(experienceID uint) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Comment
	for _, c := range m.comments {
		if c.ExperienceID == experienceID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memComments) UpdateReactionCounts(commentID uint, likes, dislikes int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[commentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.LikesCount = likes
	c.DislikesCount = dislikes
	return nil
}

// memReactions is an in-memory CommentReactionRepository.
type reactionKey struct {
	commentID uint
	userID    uint
}

type memReactions struct {
	mu        sync.Mutex
	reactions map[reactionKey]*models.CommentReaction
}

func newMemReactions() *memReactions {
	return &memReactions{reactions: make(map[reactionKey]*models.CommentReaction)}
}

func (m *memReactions) GetReaction(commentID, userID uint) (*models.CommentReaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.reactions[reactionKey{commentID, userID}]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memReactions) CreateReaction(reaction *models.CommentReaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := reactionKey{reaction.CommentID, reaction.UserID}
	if _, ok := m.reactions[key]; ok {
		return fmt.Errorf("duplicate reaction for comment %d user %d", reaction.CommentID, reaction.UserID)
	}
	clone := *reaction
	m.reactions[key] = &clone
	return nil
}

func (m *memReactions) UpdateReaction(reaction *models.CommentReaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := reactionKey{reaction.CommentID, reaction.UserID}
	if _, ok := m.reactions[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *reaction
	m.reactions[key] = &clone
	return nil
}

func (m *memReactions) DeleteReaction(commentID, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := reactionKey{commentID, userID}
	if _, ok := m.reactions[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.reactions, key)
	return nil
}

func (m *memReactions) CountReactions(commentID uint, isLike bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, r := range m.reactions {
		if r.CommentID == commentID && r.IsLike == isLike {
			count++
		}
	}
	return count, nil
}

// memMessages is an in-memory MessageRepository.
type memMessages struct {
	mu       sync.Mutex
	messages []*models.Message
	nextID   uint
	failNext bool
}

func newMemMessages() *memMessages {
	return &memMessages{nextID: 1}
}

func (m *memMessages) CreateMessage(message *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return fmt.Errorf("store unavailable")
	}
	message.ID = m.nextID
	m.nextID++
	clone := *message
	m.messages = append(m.messages, &clone)
	return nil
}

func (m *memMessages) GetConversation(userID, peerID uint) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Message
	for _, msg := range m.messages {
		if (msg.SenderID == userID && msg.ReceiverID == peerID) ||
			(msg.SenderID == peerID && msg.ReceiverID == userID) {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (m *memMessages) GetSenders(receiverID uint) ([]models.User, error) {
	return nil, nil
}

func (m *memMessages) DeleteConversation(userID, peerID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*models.Message
	var deleted int64
	for _, msg := range m.messages {
		if (msg.SenderID == userID && msg.ReceiverID == peerID) ||
			(msg.SenderID == peerID && msg.ReceiverID == userID) {
			deleted++
			continue
		}
		kept = append(kept, msg)
	}
	m.messages = kept
	return deleted, nil
}

func (m *memMessages) DeleteMessageByID(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, msg := range m.messages {
		if msg.ID == id {
			m.messages = append(m.messages[:i], m.messages[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memMessages) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// staticTokens is a TokenParser backed by a fixed token table.
func staticTokens(tokens map[string]uint) TokenParser {
	return func(token string) (uint, error) {
		if userID, ok := tokens[token]; ok {
			return userID, nil
		}
		return 0, fmt.Errorf("invalid token")
	}
}
