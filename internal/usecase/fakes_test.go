package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Fanyuxuan0817/StudySync/internal/domain/apperr"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/models"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/realtime"
)

// fakeStore is an in-memory stand-in for every repository interface, close
// enough to the SQL semantics that usecases cannot tell the difference.
type fakeStore struct {
	mu sync.Mutex

	nextUserID    int64
	nextRoomID    int64
	nextMemberID  int64
	nextRequestID int64
	nextMessageID int64

	users    map[int64]*models.User
	groups   map[int64]map[int64]bool
	rooms    map[int64]*models.Room
	members  map[int64]map[int64]*models.Member
	joinReqs map[int64]*models.JoinRequest
	messages map[int64]*models.Message

	insertMessageErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[int64]*models.User),
		groups:   make(map[int64]map[int64]bool),
		rooms:    make(map[int64]*models.Room),
		members:  make(map[int64]map[int64]*models.Member),
		joinReqs: make(map[int64]*models.JoinRequest),
		messages: make(map[int64]*models.Message),
	}
}

// --- seeding helpers ---

func (s *fakeStore) seedUser(username string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextUserID++
	user := &models.User{ID: s.nextUserID, Username: username, CreatedAt: time.Now()}
	s.users[user.ID] = user

	return user
}

func (s *fakeStore) seedRoom(chatID string, ownerID int64, maxMembers int) *models.Room {
	s.mu.Lock()
	s.nextRoomID++
	room := &models.Room{
		ID:         s.nextRoomID,
		ChatID:     chatID,
		Name:       "room " + chatID,
		CreatedBy:  ownerID,
		MaxMembers: maxMembers,
		IsPublic:   true,
		Status:     models.RoomStatusActive,
		CreatedAt:  time.Now(),
	}
	s.rooms[room.ID] = room
	s.mu.Unlock()

	s.seedMember(room.ID, ownerID, models.RoleOwner)

	return room
}

func (s *fakeStore) seedMember(roomID, userID int64, role models.Role) *models.Member {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMemberID++
	member := &models.Member{
		ID:       s.nextMemberID,
		RoomID:   roomID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	}
	if s.members[roomID] == nil {
		s.members[roomID] = make(map[int64]*models.Member)
	}
	s.members[roomID][userID] = member

	return member
}

func (s *fakeStore) seedGroup(groupID int64, memberIDs ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.groups[groupID] = make(map[int64]bool)
	for _, id := range memberIDs {
		s.groups[groupID][id] = true
	}
}

// --- UserRepository ---

func (s *fakeStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = time.Now()
	clone := *user
	s.users[user.ID] = &clone

	return nil
}

func (s *fakeStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}

	clone := *user
	return &clone, nil
}

func (s *fakeStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}

	return nil, apperr.New(apperr.NotFound, "user not found")
}

// --- GroupRepository ---

func (s *fakeStore) Exists(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.groups[id]
	return ok, nil
}

func (s *fakeStore) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.groups[groupID][userID], nil
}

// --- RoomRepository ---

func (s *fakeStore) CreateRoom(ctx context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextRoomID++
	room.ID = s.nextRoomID
	room.CreatedAt = time.Now()
	room.UpdatedAt = room.CreatedAt
	clone := *room
	s.rooms[room.ID] = &clone

	return nil
}

func (s *fakeStore) GetRoomByID(ctx context.Context, id int64) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "room not found")
	}

	clone := *room
	return &clone, nil
}

func (s *fakeStore) GetActiveByID(ctx context.Context, id int64) (*models.Room, error) {
	room, err := s.GetRoomByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !room.Active() {
		return nil, apperr.New(apperr.NotFound, "room not found")
	}

	return room, nil
}

func (s *fakeStore) GetActiveByChatID(ctx context.Context, chatID string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, room := range s.rooms {
		if room.ChatID == chatID && room.Active() {
			clone := *room
			return &clone, nil
		}
	}

	return nil, apperr.New(apperr.NotFound, "room not found")
}

func (s *fakeStore) Update(ctx context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *room
	clone.UpdatedAt = time.Now()
	s.rooms[room.ID] = &clone

	return nil
}

func (s *fakeStore) UpdateStatus(ctx context.Context, id int64, status models.RoomStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if room, ok := s.rooms[id]; ok {
		room.Status = status
		room.UpdatedAt = time.Now()
	}

	return nil
}

func (s *fakeStore) ChatIDExists(ctx context.Context, chatID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, room := range s.rooms {
		if room.ChatID == chatID {
			return true, nil
		}
	}

	return false, nil
}

func (s *fakeStore) ListCreatedBy(ctx context.Context, userID int64) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rooms []models.Room
	for _, room := range s.rooms {
		if room.CreatedBy == userID && room.Active() {
			rooms = append(rooms, *room)
		}
	}
	sortRooms(rooms)

	return rooms, nil
}

func (s *fakeStore) ListJoined(ctx context.Context, userID int64) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rooms []models.Room
	for _, room := range s.rooms {
		if !room.Active() || room.CreatedBy == userID {
			continue
		}
		if _, ok := s.members[room.ID][userID]; ok {
			rooms = append(rooms, *room)
		}
	}
	sortRooms(rooms)

	return rooms, nil
}

func (s *fakeStore) Search(ctx context.Context, viewerID int64, keyword, chatID string, limit, offset int) ([]models.Room, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.Room
	for _, room := range s.rooms {
		if !room.Active() {
			continue
		}

		_, isMember := s.members[room.ID][viewerID]
		if !room.IsPublic && !isMember {
			continue
		}
		if chatID != "" && room.ChatID != chatID {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(room.Name), strings.ToLower(keyword)) {
			continue
		}

		matched = append(matched, *room)
	}
	sortRooms(matched)

	total := len(matched)
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}

	return matched, total, nil
}

func sortRooms(rooms []models.Room) {
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
}

// --- MemberRepository ---

func (s *fakeStore) Add(ctx context.Context, member *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMemberID++
	member.ID = s.nextMemberID
	member.JoinedAt = time.Now()
	if s.members[member.RoomID] == nil {
		s.members[member.RoomID] = make(map[int64]*models.Member)
	}
	clone := *member
	s.members[member.RoomID][member.UserID] = &clone

	return nil
}

func (s *fakeStore) Get(ctx context.Context, roomID, userID int64) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.members[roomID][userID]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "not a member of this room")
	}

	clone := *member
	return &clone, nil
}

func (s *fakeStore) Count(ctx context.Context, roomID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.members[roomID]), nil
}

func (s *fakeStore) CountByRooms(ctx context.Context, roomIDs []int64) (map[int64]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[int64]int, len(roomIDs))
	for _, id := range roomIDs {
		if n := len(s.members[id]); n > 0 {
			counts[id] = n
		}
	}

	return counts, nil
}

func (s *fakeStore) ListByRoom(ctx context.Context, roomID int64) ([]models.MemberWithUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var members []models.MemberWithUser
	for _, member := range s.members[roomID] {
		m := models.MemberWithUser{Member: *member}
		if user, ok := s.users[member.UserID]; ok {
			m.Username = user.Username
			m.UserAvatarURL = user.AvatarURL
		}
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })

	return members, nil
}

func (s *fakeStore) Remove(ctx context.Context, roomID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[roomID][userID]; !ok {
		return apperr.New(apperr.NotFound, "not a member of this room")
	}
	delete(s.members[roomID], userID)

	return nil
}

func (s *fakeStore) SetMuted(ctx context.Context, roomID, userID int64, muted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.members[roomID][userID]
	if !ok {
		return apperr.New(apperr.NotFound, "not a member of this room")
	}
	member.IsMuted = muted

	return nil
}

func (s *fakeStore) TouchLastActive(ctx context.Context, roomID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if member, ok := s.members[roomID][userID]; ok {
		now := time.Now()
		member.LastActiveAt = &now
	}

	return nil
}

func (s *fakeStore) TransferOwnership(ctx context.Context, roomID, fromUserID, toUserID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.members[roomID][fromUserID]
	if !ok || from.Role != models.RoleOwner {
		return apperr.New(apperr.Forbidden, "only the owner can transfer ownership")
	}

	to, ok := s.members[roomID][toUserID]
	if !ok {
		return apperr.New(apperr.NotFound, "target user is not a member of this room")
	}

	from.Role = models.RoleMember
	to.Role = models.RoleOwner

	return nil
}

// --- JoinRequestRepository ---

func (s *fakeStore) CreateJoinRequest(ctx context.Context, req *models.JoinRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextRequestID++
	req.ID = s.nextRequestID
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	clone := *req
	s.joinReqs[req.ID] = &clone

	return nil
}

func (s *fakeStore) GetJoinRequestByID(ctx context.Context, roomID, requestID int64) (*models.JoinRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.joinReqs[requestID]
	if !ok || req.RoomID != roomID {
		return nil, apperr.New(apperr.NotFound, "join request not found")
	}

	clone := *req
	return &clone, nil
}

func (s *fakeStore) HasPending(ctx context.Context, roomID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, req := range s.joinReqs {
		if req.RoomID == roomID && req.UserID == userID && req.Status == models.JoinStatusPending {
			return true, nil
		}
	}

	return false, nil
}

func (s *fakeStore) Approve(ctx context.Context, roomID, requestID, reviewerID int64, reviewMessage *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return apperr.New(apperr.NotFound, "room not found")
	}
	if len(s.members[roomID]) >= room.MaxMembers {
		return apperr.New(apperr.ResourceExhausted, "room is full")
	}

	req, ok := s.joinReqs[requestID]
	if !ok || req.RoomID != roomID || req.Status != models.JoinStatusPending {
		return apperr.New(apperr.NotFound, "join request not found or already settled")
	}

	now := time.Now()
	req.Status = models.JoinStatusApproved
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	req.ReviewMessage = reviewMessage
	req.UpdatedAt = now

	s.nextMemberID++
	if s.members[roomID] == nil {
		s.members[roomID] = make(map[int64]*models.Member)
	}
	s.members[roomID][req.UserID] = &models.Member{
		ID:       s.nextMemberID,
		RoomID:   roomID,
		UserID:   req.UserID,
		Role:     models.RoleMember,
		JoinedAt: now,
	}

	return nil
}

func (s *fakeStore) Reject(ctx context.Context, roomID, requestID, reviewerID int64, reviewMessage *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.joinReqs[requestID]
	if !ok || req.RoomID != roomID || req.Status != models.JoinStatusPending {
		return apperr.New(apperr.NotFound, "join request not found or already settled")
	}

	now := time.Now()
	req.Status = models.JoinStatusRejected
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	req.ReviewMessage = reviewMessage
	req.UpdatedAt = now

	return nil
}

func (s *fakeStore) Cancel(ctx context.Context, requestID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.joinReqs[requestID]
	if !ok || req.Status != models.JoinStatusPending {
		return apperr.New(apperr.NotFound, "join request not found or already settled")
	}

	req.Status = models.JoinStatusCancelled
	req.UpdatedAt = time.Now()

	return nil
}

func (s *fakeStore) ListJoinRequestsByRoom(ctx context.Context, roomID int64, status *models.JoinStatus) ([]models.JoinRequestWithUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reqs []models.JoinRequestWithUser
	for _, req := range s.joinReqs {
		if req.RoomID != roomID {
			continue
		}
		if status != nil && req.Status != *status {
			continue
		}

		r := models.JoinRequestWithUser{JoinRequest: *req}
		if user, ok := s.users[req.UserID]; ok {
			r.Username = user.Username
		}
		reqs = append(reqs, r)
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].ID < reqs[j].ID })

	return reqs, nil
}

func (s *fakeStore) ListPendingForReviewer(ctx context.Context, reviewerID int64) ([]models.PendingApproval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var approvals []models.PendingApproval
	for _, req := range s.joinReqs {
		if req.Status != models.JoinStatusPending {
			continue
		}

		reviewer, ok := s.members[req.RoomID][reviewerID]
		if !ok || !reviewer.Role.CanModerate() {
			continue
		}

		approval := models.PendingApproval{
			RequestID: req.ID,
			RoomID:    req.RoomID,
			UserID:    req.UserID,
			Message:   req.Message,
			CreatedAt: req.CreatedAt,
		}
		if room, ok := s.rooms[req.RoomID]; ok {
			approval.ChatID = room.ChatID
			approval.RoomName = room.Name
		}
		if user, ok := s.users[req.UserID]; ok {
			approval.Username = user.Username
		}
		approvals = append(approvals, approval)
	}
	sort.Slice(approvals, func(i, j int) bool { return approvals[i].RequestID < approvals[j].RequestID })

	return approvals, nil
}

// --- MessageRepository ---

func (s *fakeStore) Insert(ctx context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.insertMessageErr != nil {
		return s.insertMessageErr
	}

	s.nextMessageID++
	msg.ID = s.nextMessageID
	msg.CreatedAt = time.Now()
	clone := *msg
	s.messages[msg.ID] = &clone

	return nil
}

func (s *fakeStore) GetMessageByID(ctx context.Context, roomID, messageID int64) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[messageID]
	if !ok || msg.RoomID != roomID {
		return nil, apperr.New(apperr.NotFound, "message not found")
	}

	clone := *msg
	return &clone, nil
}

func (s *fakeStore) Page(ctx context.Context, roomID, beforeID int64, limit int) ([]models.MessageWithUser, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []models.MessageWithUser
	for _, msg := range s.messages {
		if msg.RoomID != roomID || msg.IsDeleted {
			continue
		}
		if beforeID > 0 && msg.ID >= beforeID {
			continue
		}

		m := models.MessageWithUser{Message: *msg}
		if user, ok := s.users[msg.UserID]; ok {
			m.Username = user.Username
			m.UserAvatarURL = user.AvatarURL
		}
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	hasMore := len(all) > limit
	if hasMore {
		all = all[len(all)-limit:]
	}

	return all, hasMore, nil
}

func (s *fakeStore) SoftDelete(ctx context.Context, messageID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg, ok := s.messages[messageID]; ok {
		msg.IsDeleted = true
	}

	return nil
}

func (s *fakeStore) SearchMessages(ctx context.Context, roomID int64, keyword string, limit int) ([]models.MessageWithUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []models.MessageWithUser
	for _, msg := range s.messages {
		if msg.RoomID != roomID || msg.IsDeleted {
			continue
		}
		if !strings.Contains(strings.ToLower(msg.Content), strings.ToLower(keyword)) {
			continue
		}

		m := models.MessageWithUser{Message: *msg}
		if user, ok := s.users[msg.UserID]; ok {
			m.Username = user.Username
		}
		found = append(found, m)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID > found[j].ID })
	if limit < len(found) {
		found = found[:limit]
	}

	return found, nil
}

func (s *fakeStore) DailyStats(ctx context.Context, roomID int64, since time.Time) ([]models.DailyCount, []models.ActiveAuthor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byDate := make(map[string]int)
	byAuthor := make(map[int64]int)
	for _, msg := range s.messages {
		if msg.RoomID != roomID || msg.IsDeleted || msg.CreatedAt.Before(since) {
			continue
		}
		byDate[msg.CreatedAt.Format("2006-01-02")]++
		byAuthor[msg.UserID]++
	}

	var daily []models.DailyCount
	for date, count := range byDate {
		daily = append(daily, models.DailyCount{Date: date, Count: count})
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })

	var authors []models.ActiveAuthor
	for id, count := range byAuthor {
		author := models.ActiveAuthor{UserID: id, MessageCount: count}
		if user, ok := s.users[id]; ok {
			author.Username = user.Username
		}
		authors = append(authors, author)
	}
	sort.Slice(authors, func(i, j int) bool { return authors[i].MessageCount > authors[j].MessageCount })

	return daily, authors, nil
}

// The wrappers below resolve method name clashes between the repository
// interfaces (several share Create, GetByID, ListByRoom or Search) so one
// fakeStore can back them all.

type fakeRoomRepo struct{ *fakeStore }

func (f fakeRoomRepo) Create(ctx context.Context, room *models.Room) error {
	return f.CreateRoom(ctx, room)
}

func (f fakeRoomRepo) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	return f.GetRoomByID(ctx, id)
}

type fakeJoinRequestRepo struct{ *fakeStore }

func (f fakeJoinRequestRepo) Create(ctx context.Context, req *models.JoinRequest) error {
	return f.CreateJoinRequest(ctx, req)
}

func (f fakeJoinRequestRepo) GetByID(ctx context.Context, roomID, requestID int64) (*models.JoinRequest, error) {
	return f.GetJoinRequestByID(ctx, roomID, requestID)
}

func (f fakeJoinRequestRepo) ListByRoom(ctx context.Context, roomID int64, status *models.JoinStatus) ([]models.JoinRequestWithUser, error) {
	return f.ListJoinRequestsByRoom(ctx, roomID, status)
}

type fakeMessageRepo struct{ *fakeStore }

func (f fakeMessageRepo) GetByID(ctx context.Context, roomID, messageID int64) (*models.Message, error) {
	return f.GetMessageByID(ctx, roomID, messageID)
}

func (f fakeMessageRepo) Search(ctx context.Context, roomID int64, keyword string, limit int) ([]models.MessageWithUser, error) {
	return f.SearchMessages(ctx, roomID, keyword, limit)
}

// fakeBroadcaster records registry activity for session tests.
type fakeBroadcaster struct {
	mu sync.Mutex

	registered   map[int64]int64
	broadcasts   []any
	direct       map[int64][]any
	deregistered []int64
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{
		registered: make(map[int64]int64),
		direct:     make(map[int64][]any),
	}
}

func (b *fakeBroadcaster) Register(roomID, userID int64, conn realtime.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.registered[userID] = roomID
}

func (b *fakeBroadcaster) Deregister(roomID, userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.registered, userID)
	b.deregistered = append(b.deregistered, userID)
}

func (b *fakeBroadcaster) Broadcast(roomID int64, payload any, excludeUserID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.broadcasts = append(b.broadcasts, payload)
}

func (b *fakeBroadcaster) SendToUser(userID int64, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.direct[userID] = append(b.direct[userID], payload)
}

func (b *fakeBroadcaster) OnlineUsers(roomID int64) []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	users := make([]int64, 0, len(b.registered))
	for userID, room := range b.registered {
		if room == roomID {
			users = append(users, userID)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	return users
}

var errConnClosed = errors.New("connection closed")

// fakeConn feeds scripted frames to the session read loop.
type fakeConn struct {
	mu sync.Mutex

	inbound [][]byte
	pos     int

	written      []any
	closed       bool
	policyReason string
}

func newFakeConn(frames ...[]byte) *fakeConn {
	return &fakeConn{inbound: frames}
}

func (c *fakeConn) ReadMessage() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pos >= len(c.inbound) {
		return nil, errConnClosed
	}

	frame := c.inbound[c.pos]
	c.pos++

	return frame, nil
}

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errConnClosed
	}
	c.written = append(c.written, v)

	return nil
}

func (c *fakeConn) ClosePolicy(reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.policyReason = reason
	c.closed = true

	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true

	return nil
}
