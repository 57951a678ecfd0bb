package memory

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/Fanyuxuan0817/StudySync/internal/application/constant"
	"github.com/Fanyuxuan0817/StudySync/internal/domain/realtime"
)

// ConnectionRegistry tracks which users currently hold a live connection into
// which room and fans payloads out to them. It is constructed once at process
// start and shared by every session; all operations are safe for concurrent
// use without caller-side locking.
//
// Invariant: a user holds at most one live connection process-wide.
// Registering a user who is already connected anywhere evicts the old
// connection first.
type ConnectionRegistry struct {
	mu sync.RWMutex

	// rooms holds map[roomID]map[userID]*slot
	rooms map[int64]map[int64]*slot

	// userRooms holds map[userID]roomID for the single-connection eviction
	userRooms map[int64]int64
}

// slot wraps one connection with a write mutex so concurrent broadcasts do
// not interleave frames on the same transport.
type slot struct {
	conn realtime.Conn
	wmu  sync.Mutex
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		rooms:     make(map[int64]map[int64]*slot),
		userRooms: make(map[int64]int64),
	}
}

func (r *ConnectionRegistry) Register(roomID, userID int64, conn realtime.Conn) {
	var evicted realtime.Conn

	r.mu.Lock()
	if oldRoom, ok := r.userRooms[userID]; ok {
		if old, ok := r.rooms[oldRoom][userID]; ok {
			evicted = old.conn
			delete(r.rooms[oldRoom], userID)
			if len(r.rooms[oldRoom]) == 0 {
				delete(r.rooms, oldRoom)
			}
		}
	}

	if _, ok := r.rooms[roomID]; !ok {
		r.rooms[roomID] = make(map[int64]*slot)
	}
	r.rooms[roomID][userID] = &slot{conn: conn}
	r.userRooms[userID] = roomID
	r.mu.Unlock()

	if evicted != nil && evicted != conn {
		_ = evicted.Close()

		slog.Info(
			"evicted previous connection on register",
			slog.Int64(constant.UserID, userID),
			slog.Int64(constant.RoomID, roomID),
		)
	}
}

// Deregister removes the user's connection from the room if it is still the
// registered one. No-op when absent, so a session evicted by a newer
// registration cannot tear down its successor.
func (r *ConnectionRegistry) Deregister(roomID, userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conns, ok := r.rooms[roomID]; ok {
		if _, ok := conns[userID]; ok {
			delete(conns, userID)
			if len(conns) == 0 {
				delete(r.rooms, roomID)
			}
		}
	}

	if r.userRooms[userID] == roomID {
		delete(r.userRooms, userID)
	}
}

// Broadcast delivers payload to every connection registered in the room,
// except excludeUserID when non-zero. Delivery is best effort: a failed send
// never aborts delivery to the rest, and the failed connection is dropped
// from the registry so nothing keeps writing into a dead transport.
func (r *ConnectionRegistry) Broadcast(roomID int64, payload any, excludeUserID int64) {
	type target struct {
		userID int64
		slot   *slot
	}

	r.mu.RLock()
	targets := make([]target, 0, len(r.rooms[roomID]))
	for userID, s := range r.rooms[roomID] {
		if excludeUserID != 0 && userID == excludeUserID {
			continue
		}
		targets = append(targets, target{userID: userID, slot: s})
	}
	r.mu.RUnlock()

	for _, t := range targets {
		t.slot.wmu.Lock()
		err := t.slot.conn.WriteJSON(payload)
		t.slot.wmu.Unlock()

		if err != nil {
			r.evict(roomID, t.userID, t.slot)
		}
	}
}

// SendToUser delivers payload only if the user currently holds a live
// connection; otherwise the payload is silently dropped. Persisted history is
// the catch-up mechanism for offline users.
func (r *ConnectionRegistry) SendToUser(userID int64, payload any) {
	r.mu.RLock()
	roomID, ok := r.userRooms[userID]
	var s *slot
	if ok {
		s = r.rooms[roomID][userID]
	}
	r.mu.RUnlock()

	if s == nil {
		return
	}

	s.wmu.Lock()
	err := s.conn.WriteJSON(payload)
	s.wmu.Unlock()

	if err != nil {
		r.evict(roomID, userID, s)
	}
}

// OnlineUsers returns a sorted snapshot of the user ids registered in the room.
func (r *ConnectionRegistry) OnlineUsers(roomID int64) []int64 {
	r.mu.RLock()
	users := make([]int64, 0, len(r.rooms[roomID]))
	for userID := range r.rooms[roomID] {
		users = append(users, userID)
	}
	r.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	return users
}

// evict removes a connection that failed a write, treating the failure as an
// implicit disconnect. The slot is compared under the lock so a concurrent
// re-registration of the same user survives.
func (r *ConnectionRegistry) evict(roomID, userID int64, failed *slot) {
	r.mu.Lock()
	current, ok := r.rooms[roomID][userID]
	if ok && current == failed {
		delete(r.rooms[roomID], userID)
		if len(r.rooms[roomID]) == 0 {
			delete(r.rooms, roomID)
		}
		if r.userRooms[userID] == roomID {
			delete(r.userRooms, userID)
		}
	}
	r.mu.Unlock()

	if ok && current == failed {
		_ = failed.conn.Close()

		slog.Warn(
			"dropped dead connection after failed write",
			slog.Int64(constant.UserID, userID),
			slog.Int64(constant.RoomID, roomID),
		)
	}
}
